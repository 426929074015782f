package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"ArticleScorer/internal/cli"
	"ArticleScorer/internal/config"
	"ArticleScorer/internal/logging"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := cli.NewRootCommand(cfg, logger).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
