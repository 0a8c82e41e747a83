package main

import (
	"context"
	"log"
	"os"

	"github.com/nayidisha/nayidisha-client/internal/client/cli"
	"github.com/nayidisha/nayidisha-client/internal/client/config"
	"github.com/nayidisha/nayidisha-client/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
