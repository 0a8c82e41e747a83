package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nayidisha/nayidisha-client/internal/fixture"
	"github.com/nayidisha/nayidisha-client/internal/fixture/config"
	"github.com/nayidisha/nayidisha-client/internal/logging"
)

func main() {

	cfg := config.LoadConfig()

	logger, err := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	srv := fixture.New(
		fixture.WithSecret([]byte(cfg.SecretKey)),
		fixture.WithTokenTTL(cfg.TokenTTL),
		fixture.WithLogger(logger),
	)
	if err := srv.Seed(); err != nil {
		log.Fatalf("seed: %v", err)
	}

	if err := srv.Run(ctx, cfg.Addr); err != nil {
		logger.Error(ctx, "fixture server stopped", "error", err)
		os.Exit(1)
	}

}
