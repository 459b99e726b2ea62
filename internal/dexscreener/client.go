// internal/dexscreener/client.go
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.dexscreener.com/latest/dex"
	rateLimit      = 300 // requests per minute
)

// Client resolves pair addresses to USD quotes via the Dexscreener API.
type Client struct {
	baseURL     string
	chain       string
	client      *http.Client
	logger      *zap.Logger
	rateLimiter *time.Ticker
	retries     int
	retryDelay  time.Duration
}

// NewClient creates a new price client for one chain
func NewClient(chain string, timeout time.Duration, retries int, logger *zap.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		chain:   chain,
		client: &http.Client{
			Timeout: timeout,
		},
		logger:      logger.Named("dexscreener"),
		rateLimiter: time.NewTicker(time.Minute / rateLimit),
		retries:     retries,
		retryDelay:  time.Second,
	}
}

// Resolve fetches the current quote for a pair address.
//
// The address is first treated as a pair id; any failure there
// (transport error, non-2xx status, zero pairs) falls back to a token
// address lookup with the same identifier. A failure of the fallback
// propagates unmodified. A price that does not parse to a finite
// positive number is an InvalidPriceError regardless of lookup mode.
func (c *Client) Resolve(ctx context.Context, pairAddress string) (*Quote, error) {
	pair, err := c.lookup(ctx, "pairs", pairAddress)
	if err != nil {
		c.logger.Warn("pairs lookup failed, trying tokens",
			zap.String("pair_address", pairAddress),
			zap.Error(err))
		pair, err = c.lookup(ctx, "tokens", pairAddress)
		if err != nil {
			return nil, err
		}
	}
	return quoteFromPair(pair)
}

// ResolveWithRetry wraps Resolve in a bounded exponential backoff.
// It is used on the mark-to-market path; invalid prices are permanent
// failures and stop the retry loop immediately.
func (c *Client) ResolveWithRetry(ctx context.Context, pairAddress string) (*Quote, error) {
	if c.retries <= 0 {
		return c.Resolve(ctx, pairAddress)
	}

	backoffPolicy := backoff.NewExponentialBackOff()
	backoffPolicy.InitialInterval = c.retryDelay
	backoffPolicy.MaxInterval = c.retryDelay * 10

	notify := func(err error, duration time.Duration) {
		c.logger.Info("Retrying price lookup after error",
			zap.String("pair_address", pairAddress),
			zap.Error(err),
			zap.Duration("backoff", duration))
	}

	operation := func() (*Quote, error) {
		quote, err := c.Resolve(ctx, pairAddress)
		if err != nil && IsInvalidPrice(err) {
			return nil, backoff.Permanent(err)
		}
		return quote, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoffPolicy),
		backoff.WithMaxTries(uint(c.retries)),
		backoff.WithNotify(notify))
}

// lookup performs one rate-limited GET against a lookup mode endpoint
func (c *Client) lookup(ctx context.Context, kind, address string) (*Pair, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.rateLimiter.C:
	}

	url := fmt.Sprintf("%s/%s/%s/%s", c.baseURL, kind, c.chain, address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ProviderError{Endpoint: kind, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(response.Pairs) == 0 {
		return nil, fmt.Errorf("%s lookup: %w", kind, ErrNoPairs)
	}

	return &response.Pairs[0], nil
}

func quoteFromPair(pair *Pair) (*Quote, error) {
	price, err := strconv.ParseFloat(pair.PriceUsd, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return nil, &InvalidPriceError{Raw: pair.PriceUsd}
	}

	// Liquidity and volume are cosmetic; absent fields become zero.
	liquidityUsd := 0.0
	if pair.Liquidity != nil {
		liquidityUsd = pair.Liquidity.USD
	}
	volumeH24 := 0.0
	switch {
	case pair.Volume != nil && pair.Volume.H24 != nil:
		volumeH24 = *pair.Volume.H24
	case pair.Volume24hUsd != nil:
		volumeH24 = *pair.Volume24hUsd
	}

	return &Quote{
		PriceUsd:     price,
		Name:         displayName(pair),
		LiquidityUsd: liquidityUsd,
		VolumeH24Usd: volumeH24,
	}, nil
}

func displayName(pair *Pair) string {
	return tokenName(pair.BaseToken) + "/" + tokenName(pair.QuoteToken)
}

func tokenName(t Token) string {
	if t.Symbol != "" {
		return t.Symbol
	}
	if t.Name != "" {
		return t.Name
	}
	return "UNKNOWN"
}
