package orchestrator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/sitemapinc/internal/checker"
	"github.com/aleister1102/sitemapinc/internal/config"
	"github.com/aleister1102/sitemapinc/internal/datastore"
	"github.com/aleister1102/sitemapinc/internal/errorwrapper"
	"github.com/aleister1102/sitemapinc/internal/models"
	"github.com/aleister1102/sitemapinc/internal/sitemap"
	"github.com/aleister1102/sitemapinc/internal/urlhandler"
)

// Orchestrator runs the full sitemap check workflow: validate the root
// index, then for each child sitemap validate, download, sample and check.
type Orchestrator struct {
	cfg        *config.GlobalConfig
	validator  *sitemap.Validator
	indexer    *sitemap.Indexer
	sampler    *sitemap.Sampler
	downloader *sitemap.Downloader
	checker    *checker.Checker
	history    *datastore.HistoryStore
	logger     zerolog.Logger
}

// NewOrchestrator wires up the workflow components
func NewOrchestrator(cfg *config.GlobalConfig, rendererFactory checker.RendererFactory, logger zerolog.Logger) (*Orchestrator, error) {
	validator, err := sitemap.NewValidator(cfg.SitemapConfig, logger)
	if err != nil {
		return nil, err
	}
	indexer, err := sitemap.NewIndexer(cfg.SitemapConfig, logger)
	if err != nil {
		return nil, err
	}
	sampler, err := sitemap.NewSampler(cfg.SitemapConfig, logger)
	if err != nil {
		return nil, err
	}
	downloader, err := sitemap.NewDownloader(cfg.SitemapConfig, logger)
	if err != nil {
		return nil, err
	}
	pageChecker, err := checker.NewChecker(cfg.CheckerConfig, cfg.DetectorConfig, rendererFactory, logger)
	if err != nil {
		return nil, err
	}

	var history *datastore.HistoryStore
	if cfg.StorageConfig.HistoryEnabled {
		history, err = datastore.NewHistoryStore(cfg.StorageConfig.HistoryDBPath, logger)
		if err != nil {
			return nil, err
		}
	}

	return &Orchestrator{
		cfg:        cfg,
		validator:  validator,
		indexer:    indexer,
		sampler:    sampler,
		downloader: downloader,
		checker:    pageChecker,
		history:    history,
		logger:     logger.With().Str("component", "Orchestrator").Logger(),
	}, nil
}

// Close releases resources held across runs
func (o *Orchestrator) Close() error {
	if o.history != nil {
		return o.history.Close()
	}
	return nil
}

// ExecuteCheckWorkflow runs one full check of the configured root sitemap.
// Per-child failures are logged and skipped; the returned error is non-nil
// only for unrecoverable conditions.
func (o *Orchestrator) ExecuteCheckWorkflow(ctx context.Context, runID string) (*models.CheckSummary, error) {
	rootURL := o.cfg.SitemapConfig.RootSitemapURL
	if err := urlhandler.ValidateURLFormat(rootURL); err != nil {
		return nil, errorwrapper.WrapError(err, "invalid root sitemap URL")
	}

	host, _ := urlhandler.ExtractHostname(rootURL)
	o.logger.Info().Str("url", rootURL).Str("host", host).Msg("Starting sitemap check")

	summary := &models.CheckSummary{
		RootURL:   rootURL,
		Status:    models.RunStatusStarted,
		StartedAt: time.Now(),
	}

	runDBID := o.recordRunStart(runID, rootURL, summary.StartedAt)
	defer func() {
		summary.Duration = time.Since(summary.StartedAt)
		o.recordRunCompletion(runDBID, summary)
	}()

	rootResult := o.validator.Validate(ctx, rootURL)
	o.logValidation(rootResult)
	if !rootResult.Valid {
		summary.Status = models.RunStatusFailed
		summary.ErrorMessages = append(summary.ErrorMessages, rootResult.Message)
		return summary, nil
	}

	children := o.indexer.ExtractChildSitemaps(ctx, rootURL)
	summary.ChildSitemaps = len(children)

	for _, childURL := range children {
		if ctx.Err() != nil {
			summary.Status = models.RunStatusInterrupted
			return summary, nil
		}
		o.processChildSitemap(ctx, childURL, runDBID, summary)
	}

	if ctx.Err() != nil {
		summary.Status = models.RunStatusInterrupted
	} else {
		summary.Status = models.RunStatusCompleted
	}
	return summary, nil
}

// processChildSitemap runs the per-child pipeline. Every failure is logged
// and the workflow moves on.
func (o *Orchestrator) processChildSitemap(ctx context.Context, childURL string, runDBID int64, summary *models.CheckSummary) {
	childResult := o.validator.Validate(ctx, childURL)
	o.logValidation(childResult)
	if !childResult.Valid {
		summary.SkippedSitemaps++
		return
	}

	if _, err := o.downloader.Download(ctx, childURL); err != nil {
		o.logger.Error().Err(err).Str("url", childURL).Msg("Sitemap download failed, skipping child")
		summary.ErrorMessages = append(summary.ErrorMessages, err.Error())
		summary.SkippedSitemaps++
		return
	}

	pageURLs := o.sampler.SampleURLs(ctx, childURL)
	results := o.checker.CheckURLs(ctx, pageURLs)

	for _, result := range results {
		summary.AddClassification(result)
		o.recordClassification(runDBID, result)
	}
}

func (o *Orchestrator) logValidation(result models.ValidationResult) {
	event := o.logger.Info()
	if !result.Valid {
		event = o.logger.Warn()
	}
	event.Str("url", result.URL).Bool("valid", result.Valid).Str("message", result.Message).Msg("Validated sitemap")
}

func (o *Orchestrator) recordRunStart(runID, rootURL string, startTime time.Time) int64 {
	if o.history == nil {
		return 0
	}
	runDBID, err := o.history.RecordRunStart(runID, rootURL, startTime)
	if err != nil {
		o.logger.Error().Err(err).Msg("Failed to record run start")
		return 0
	}
	return runDBID
}

func (o *Orchestrator) recordClassification(runDBID int64, result models.ClassificationResult) {
	if o.history == nil || runDBID == 0 {
		return
	}
	if err := o.history.RecordClassification(runDBID, result); err != nil {
		o.logger.Error().Err(err).Str("url", result.URL).Msg("Failed to record classification")
	}
}

func (o *Orchestrator) recordRunCompletion(runDBID int64, summary *models.CheckSummary) {
	if o.history == nil || runDBID == 0 {
		return
	}
	err := o.history.UpdateRunCompletion(runDBID, time.Now(), summary.Status, summary.CheckedURLs, summary.NotFoundCount)
	if err != nil {
		o.logger.Error().Err(err).Msg("Failed to record run completion")
	}
}
