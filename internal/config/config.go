// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ApifyToken         string  `mapstructure:"apify_token"`
	ApifyActor         string  `mapstructure:"apify_actor"`
	Chain              string  `mapstructure:"chain"`
	InvestUsd          float64 `mapstructure:"invest_usd"`
	TargetProfitUsd    float64 `mapstructure:"target_profit_usd"`
	MaxPairAgeHours    float64 `mapstructure:"max_pair_age_hours"`
	DiscoveryPollSecs  int     `mapstructure:"discovery_poll_seconds"`
	DiscoveryTimeout   int     `mapstructure:"discovery_timeout_seconds"`
	PricePollSecs      int     `mapstructure:"price_poll_seconds"`
	RequestTimeoutSecs int     `mapstructure:"request_timeout_seconds"`
	PriceRetries       int     `mapstructure:"price_retries"`
	WarmupLimit        int     `mapstructure:"warmup_limit"`
	ClearWarmupOnStart bool    `mapstructure:"clear_warmup_on_start"`
	WatcherPollSecs    int     `mapstructure:"watcher_poll_seconds"`
	WatcherLimit       int     `mapstructure:"watcher_limit"`
	MetricsAddr        string  `mapstructure:"metrics_addr"`
	ExportDir          string  `mapstructure:"export_dir"`
	LogFile            string  `mapstructure:"log_file"`
	DebugLogging       bool    `mapstructure:"debug_logging"`
}

const (
	DefaultActor             = "muhammetakkurtt~dexscreener-scraper"
	DefaultChain             = "solana"
	DefaultInvestUsd         = 500.0
	DefaultTargetProfitUsd   = 20.0
	DefaultMaxPairAgeHours   = 1.0
	DefaultDiscoveryPollSecs = 60
	DefaultDiscoveryTimeout  = 120
	DefaultPricePollSecs     = 10
	DefaultRequestTimeout    = 30
	DefaultPriceRetries      = 3
	DefaultWarmupLimit       = 50
	DefaultWatcherPollSecs   = 30
	DefaultWatcherLimit      = 50
)

// placeholderTokens are the sample values shipped in configs/config.json.
// Starting with one of these is treated the same as a missing token.
var placeholderTokens = map[string]bool{
	"":                               true,
	"YOUR_KEY_HERE":                  true,
	"apify_api_YOUR_REAL_TOKEN_HERE": true,
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"apify_actor":               DefaultActor,
		"chain":                     DefaultChain,
		"invest_usd":                DefaultInvestUsd,
		"target_profit_usd":         DefaultTargetProfitUsd,
		"max_pair_age_hours":        DefaultMaxPairAgeHours,
		"discovery_poll_seconds":    DefaultDiscoveryPollSecs,
		"discovery_timeout_seconds": DefaultDiscoveryTimeout,
		"price_poll_seconds":        DefaultPricePollSecs,
		"request_timeout_seconds":   DefaultRequestTimeout,
		"price_retries":             DefaultPriceRetries,
		"warmup_limit":              DefaultWarmupLimit,
		"watcher_poll_seconds":      DefaultWatcherPollSecs,
		"watcher_limit":             DefaultWatcherLimit,
		"log_file":                  "solpaper.log",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvironmentVariables(v, &cfg)

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if placeholderTokens[strings.TrimSpace(cfg.ApifyToken)] {
		return errors.New("missing or placeholder apify_token in configuration")
	}
	if cfg.ApifyActor == "" {
		return errors.New("apify_actor is empty")
	}
	if cfg.Chain == "" {
		return errors.New("chain is empty")
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.InvestUsd <= 0 {
		return errors.New("invalid invest_usd")
	}
	if cfg.TargetProfitUsd <= 0 {
		return errors.New("invalid target_profit_usd")
	}
	if cfg.MaxPairAgeHours <= 0 {
		return errors.New("invalid max_pair_age_hours")
	}
	if cfg.DiscoveryPollSecs <= 0 {
		return errors.New("invalid discovery_poll_seconds")
	}
	if cfg.DiscoveryTimeout <= 0 {
		return errors.New("invalid discovery_timeout_seconds")
	}
	if cfg.PricePollSecs <= 0 {
		return errors.New("invalid price_poll_seconds")
	}
	if cfg.RequestTimeoutSecs <= 0 {
		return errors.New("invalid request_timeout_seconds")
	}
	if cfg.PriceRetries < 0 {
		return errors.New("invalid price_retries count")
	}
	if cfg.WarmupLimit <= 0 {
		return errors.New("invalid warmup_limit")
	}
	if cfg.WatcherPollSecs <= 0 {
		return errors.New("invalid watcher_poll_seconds")
	}
	if cfg.WatcherLimit <= 0 {
		return errors.New("invalid watcher_limit")
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix("SOLPAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if envToken := v.GetString("APIFY_TOKEN"); envToken != "" {
		cfg.ApifyToken = envToken
	}
	if envChain := v.GetString("CHAIN"); envChain != "" {
		cfg.Chain = envChain
	}
}
