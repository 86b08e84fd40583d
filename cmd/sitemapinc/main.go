package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/sitemapinc/internal/checker"
	"github.com/aleister1102/sitemapinc/internal/config"
	"github.com/aleister1102/sitemapinc/internal/logger"
	"github.com/aleister1102/sitemapinc/internal/models"
	"github.com/aleister1102/sitemapinc/internal/orchestrator"
	"github.com/aleister1102/sitemapinc/internal/urlhandler"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := ParseFlags()

	configPath := config.GetConfigPath(flags.GlobalConfigFile)
	gCfg, err := config.LoadGlobalConfig(configPath)
	if err != nil {
		stdlog.Printf("[FATAL] Could not load global config from '%s': %v", configPath, err)
		return 1
	}

	if flags.RootSitemapURL != "" {
		normalized, err := urlhandler.NormalizeURL(flags.RootSitemapURL)
		if err != nil {
			stdlog.Printf("[FATAL] Invalid -url value '%s': %v", flags.RootSitemapURL, err)
			return 1
		}
		gCfg.SitemapConfig.RootSitemapURL = normalized
	}
	if gCfg.SitemapConfig.RootSitemapURL == "" {
		stdlog.Println("[FATAL] No root sitemap URL: set -url or sitemap_config.root_sitemap_url")
		return 1
	}

	runID := time.Now().Format("20060102-150405")
	zLogger, err := logger.NewWithRunID(gCfg.LogConfig, runID)
	if err != nil {
		stdlog.Printf("[FATAL] Could not initialize logger: %v", err)
		return 1
	}

	if err := config.ValidateConfig(gCfg, zLogger); err != nil {
		zLogger.Error().Err(err).Msg("Configuration validation failed")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalChan
		zLogger.Info().Str("signal", sig.String()).Msg("Received shutdown signal, cancelling run")
		cancel()
	}()

	rendererFactory := checker.NewSessionFactory(gCfg.BrowserConfig, zLogger)
	orch, err := orchestrator.NewOrchestrator(gCfg, rendererFactory, zLogger)
	if err != nil {
		zLogger.Error().Err(err).Msg("Failed to initialize workflow")
		return 1
	}
	defer orch.Close()

	summary, err := orch.ExecuteCheckWorkflow(ctx, runID)
	if err != nil {
		zLogger.Error().Err(err).Msg("Workflow failed")
		return 1
	}

	printSummary(summary)
	return 0
}

func printSummary(summary *models.CheckSummary) {
	fmt.Printf("Run finished: %s\n", summary.Status)
	fmt.Printf("  Root sitemap:   %s\n", summary.RootURL)
	fmt.Printf("  Child sitemaps: %d (%d skipped)\n", summary.ChildSitemaps, summary.SkippedSitemaps)
	fmt.Printf("  Checked URLs:   %d (%d OK, %d ERROR 404)\n", summary.CheckedURLs, summary.OKCount, summary.NotFoundCount)
	fmt.Printf("  Duration:       %s\n", summary.Duration.Round(time.Millisecond))
}
