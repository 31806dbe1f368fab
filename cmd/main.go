// Command finratio analyzes quarterly balance sheets of public companies.
// It fetches balance sheet data from Yahoo Finance, computes liquidity and
// solvency ratios, renders comparison charts and writes a plain-text report.
//
// Usage:
//
//	finratio --config analysis.yaml
//	finratio (uses CLI arguments)
//	finratio --setup (interactive configuration wizard)
//
// The FINRATIO_OUTPUT environment variable overrides the output directory
// regardless of the configuration source.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/google/uuid"
	"github.com/vadiminshakov/finratio/config"
	"github.com/vadiminshakov/finratio/internal"
	"github.com/vadiminshakov/finratio/internal/clients"
	"github.com/vadiminshakov/finratio/internal/setup"
	"go.uber.org/zap"
)

func main() {
	runSetup := flag.Bool("setup", false, "launch the interactive configuration wizard")

	conf, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	if *runSetup {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		return
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.New().String()))

	defer func() {
		if r := recover(); r != nil {
			logger.Fatal("panic during analysis", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	client := clients.NewYahooClient(conf.Quarters, conf.HTTPTimeout)

	analyzer, err := internal.NewAnalyzer(conf, client, logger)
	if err != nil {
		logger.Fatal("failed to create analyzer", zap.Error(err))
	}

	if err := analyzer.Run(context.Background()); err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}
}
