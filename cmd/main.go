package main

import (
	"context"
	"errors"
	"os"

	"github.com/jammyapp/jammy/internal/genres"
	"github.com/jammyapp/jammy/internal/services"
	"github.com/jammyapp/jammy/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	wikipedia := services.NewWikipediaService(config.Wikipedia, logger)

	var classifier genres.Classifier
	if nlp := services.NewNLPService(config.NLP, logger); nlp != nil {
		classifier = nlp
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Resolver:   wikipedia,
		Classifier: classifier,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "jammy",
		Usage:    "Enrich artists with genres extracted from Wikipedia",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
