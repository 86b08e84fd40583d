package checker

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/sitemapinc/internal/browser"
	"github.com/aleister1102/sitemapinc/internal/config"
	"github.com/aleister1102/sitemapinc/internal/detector"
	"github.com/aleister1102/sitemapinc/internal/filemanager"
	"github.com/aleister1102/sitemapinc/internal/httpclient"
	"github.com/aleister1102/sitemapinc/internal/models"
	"github.com/aleister1102/sitemapinc/internal/urlhandler"
)

// Renderer renders pages in a headless browser. One renderer serves one
// batch of checks.
type Renderer interface {
	Render(ctx context.Context, pageURL string, opts browser.RenderOptions) (*browser.RenderResult, error)
	Close() error
}

// RendererFactory opens a renderer for a batch of checks.
type RendererFactory func() (Renderer, error)

// NewSessionFactory returns a factory that launches a real browser session
func NewSessionFactory(cfg config.BrowserConfig, logger zerolog.Logger) RendererFactory {
	return func() (Renderer, error) {
		return browser.NewSession(cfg, logger)
	}
}

// Checker classifies page URLs as live or 404, combining a plain HTTP fast
// path with browser rendering and heuristic analysis.
type Checker struct {
	config      config.CheckerConfig
	renderOpts  browser.RenderOptions
	client      *httpclient.HTTPClient
	detector    *detector.Detector
	fileWriter  *filemanager.FileWriter
	newRenderer RendererFactory
	logger      zerolog.Logger
}

// NewChecker creates a page checker
func NewChecker(
	checkerCfg config.CheckerConfig,
	detectorCfg config.DetectorConfig,
	rendererFactory RendererFactory,
	logger zerolog.Logger,
) (*Checker, error) {
	client, err := httpclient.NewHTTPClientBuilder().
		WithTimeout(time.Duration(checkerCfg.PageFetchTimeoutSecs) * time.Second).
		WithRedirects(true).
		WithUserAgent(checkerCfg.UserAgent).
		WithCustomHeaders(checkerCfg.CustomHeaders).
		WithInsecureSkipVerify(checkerCfg.TLSSkipVerify).
		Build()
	if err != nil {
		return nil, err
	}

	return &Checker{
		config: checkerCfg,
		renderOpts: browser.RenderOptions{
			SignalWait:         time.Duration(checkerCfg.SignalWaitSecs) * time.Second,
			SettleWait:         time.Duration(checkerCfg.SettleWaitSecs) * time.Second,
			FallbackSleep:      time.Duration(checkerCfg.FallbackSleepSecs) * time.Second,
			NotFoundPathMarker: detectorCfg.NotFoundPathMarker,
		},
		client:      client,
		detector:    detector.NewDetector(detectorCfg, logger),
		fileWriter:  filemanager.NewFileWriter(logger),
		newRenderer: rendererFactory,
		logger:      logger.With().Str("component", "Checker").Logger(),
	}, nil
}

// CheckURLs classifies a batch of page URLs. One renderer is opened for the
// whole batch and closed on every exit path. A failure on one URL never
// stops the batch.
func (c *Checker) CheckURLs(ctx context.Context, urls []string) []models.ClassificationResult {
	if len(urls) == 0 {
		return nil
	}

	renderer, err := c.newRenderer()
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to open browser session")
		results := make([]models.ClassificationResult, 0, len(urls))
		for _, pageURL := range urls {
			results = append(results, models.ClassificationResult{
				URL:      pageURL,
				Label:    models.StatusNotFound,
				Reason:   "browser session unavailable",
				FinalURL: pageURL,
			})
		}
		return results
	}
	defer func() {
		if closeErr := renderer.Close(); closeErr != nil {
			c.logger.Warn().Err(closeErr).Msg("Failed to close browser session")
		}
	}()

	results := make([]models.ClassificationResult, 0, len(urls))
	for _, pageURL := range urls {
		select {
		case <-ctx.Done():
			return results
		default:
		}

		result := c.checkOne(ctx, renderer, pageURL)
		c.logger.Info().Str("url", result.URL).Str("status", result.Label).Str("reason", result.Reason).Msg("Checked page")
		results = append(results, result)
	}
	return results
}

// checkOne runs the full check procedure for a single URL. It never returns
// an error: every failure classifies the page as not found.
func (c *Checker) checkOne(ctx context.Context, renderer Renderer, pageURL string) (result models.ClassificationResult) {
	result = models.ClassificationResult{URL: pageURL, FinalURL: pageURL}

	defer func() {
		if recovered := recover(); recovered != nil {
			c.logger.Error().Interface("panic", recovered).Str("url", pageURL).Msg("Recovered during page check")
			result.Label = models.StatusNotFound
			result.Reason = fmt.Sprintf("check aborted: %v", recovered)
		}
	}()

	plainResult, err := c.client.Get(ctx, pageURL)
	if err != nil {
		result.Label = models.StatusNotFound
		result.Reason = "direct fetch failed: " + err.Error()
		return result
	}
	result.FinalURL = plainResult.FinalURL

	if plainResult.StatusCode == http.StatusNotFound {
		result.Label = models.StatusNotFound
		result.Reason = "HTTP 404 on direct fetch"
		return result
	}

	rendered, err := renderer.Render(ctx, pageURL, c.renderOpts)
	if err != nil {
		result.Label = models.StatusNotFound
		result.Reason = "render failed: " + err.Error()
		return result
	}

	if rendered.SignalMet && rendered.FinalURL != rendered.InitialURL &&
		strings.Contains(rendered.FinalURL, c.renderOpts.NotFoundPathMarker) {
		_ = c.writeSnapshot(plainResult.FinalURL, rendered.HTML)
		result.Label = models.StatusNotFound
		result.Reason = "redirected to a not-found path"
		return result
	}

	verdict := c.detector.Classify(rendered.HTML)
	if err := c.writeSnapshot(plainResult.FinalURL, rendered.HTML); err != nil {
		result.Label = models.StatusNotFound
		result.Reason = "snapshot write failed: " + err.Error()
		return result
	}

	if verdict.NotFound {
		result.Label = models.StatusNotFound
	} else {
		result.Label = models.StatusOK
	}
	result.Reason = verdict.Reason
	return result
}

// writeSnapshot persists the rendered HTML, named from the final URL of the
// direct fetch.
func (c *Checker) writeSnapshot(finalURL, html string) error {
	snapshotDir := c.config.SnapshotDir
	if snapshotDir == "" {
		snapshotDir = config.DefaultSnapshotDir
	}
	path := filepath.Join(snapshotDir, urlhandler.SnapshotFilename(finalURL))
	return c.fileWriter.WriteFile(path, []byte(html), filemanager.DefaultFileWriteOptions())
}
