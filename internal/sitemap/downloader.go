package sitemap

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/aleister1102/sitemapinc/internal/config"
	"github.com/aleister1102/sitemapinc/internal/errorwrapper"
	"github.com/aleister1102/sitemapinc/internal/filemanager"
	"github.com/aleister1102/sitemapinc/internal/httpclient"
	"github.com/aleister1102/sitemapinc/internal/urlhandler"
)

// Downloader saves child sitemap documents to disk.
type Downloader struct {
	client     *httpclient.HTTPClient
	fileWriter *filemanager.FileWriter
	outputDir  string
	logger     zerolog.Logger
}

// NewDownloader creates a sitemap downloader
func NewDownloader(cfg config.SitemapConfig, logger zerolog.Logger) (*Downloader, error) {
	client, err := newSitemapClient(cfg)
	if err != nil {
		return nil, err
	}
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = config.DefaultSitemapOutputDir
	}
	return &Downloader{
		client:     client,
		fileWriter: filemanager.NewFileWriter(logger),
		outputDir:  outputDir,
		logger:     logger.With().Str("component", "SitemapDownloader").Logger(),
	}, nil
}

// Download fetches the sitemap and writes its raw bytes to the output
// directory. The filename is the basename of the URL path; a URL whose path
// has no basename fails before anything touches disk. An existing file with
// the same name is overwritten.
func (d *Downloader) Download(ctx context.Context, sitemapURL string) (string, error) {
	filename, err := urlhandler.PathBasename(sitemapURL)
	if err != nil {
		return "", err
	}

	fetched, err := d.client.Get(ctx, sitemapURL)
	if err != nil {
		return "", errorwrapper.WrapError(err, "download request failed for "+sitemapURL)
	}
	if fetched.StatusCode != http.StatusOK {
		return "", errorwrapper.NewHTTPErrorWithURL(fetched.StatusCode, "download failed", sitemapURL)
	}

	destPath := filepath.Join(d.outputDir, filename)
	if err := d.fileWriter.WriteFile(destPath, fetched.Body, filemanager.DefaultFileWriteOptions()); err != nil {
		return "", errorwrapper.WrapError(err, "failed to save sitemap "+sitemapURL)
	}

	d.logger.Info().Str("url", sitemapURL).Str("path", destPath).Msg("Downloaded sitemap")
	return destPath, nil
}
