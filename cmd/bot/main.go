// cmd/bot/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/solpaper/solpaper-bot/internal/bot"
	"github.com/solpaper/solpaper-bot/internal/config"
	"github.com/solpaper/solpaper-bot/internal/logger"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     100,
		MaxAge:      7,
		MaxBackups:  3,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}

	runner := bot.NewRunner(cfg, log.Logger)
	defer runner.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := runner.Run(ctx); err != nil {
		log.Error("Bot execution error", zap.Error(err))
		runner.Shutdown()
		os.Exit(1)
	}
}
