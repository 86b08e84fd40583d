package sitemap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/sitemapinc/internal/config"
)

const sitemapIndexDoc = `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://example.com/sitemap-products.xml</loc></sitemap>
  <sitemap><loc>https://example.com/sitemap-pages.xml</loc></sitemap>
  <sitemap><loc>https://example.com/sitemap-news.xml</loc></sitemap>
</sitemapindex>`

const urlSetDoc = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/page-1</loc></url>
  <url><loc>https://example.com/page-2</loc></url>
  <url><loc>https://example.com/page-3</loc></url>
</urlset>`

const foreignNamespaceDoc = `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://example.com/not-a-sitemap">
  <sitemap><loc>https://example.com/ignored.xml</loc></sitemap>
</sitemapindex>`

func testSitemapConfig() config.SitemapConfig {
	cfg := config.NewDefaultSitemapConfig()
	cfg.FetchTimeoutSecs = 5
	return cfg
}

func serveBody(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestValidator_Validate(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("valid XML", func(t *testing.T) {
		server := serveBody(t, http.StatusOK, sitemapIndexDoc)
		validator, err := NewValidator(testSitemapConfig(), logger)
		require.NoError(t, err)

		result := validator.Validate(context.Background(), server.URL)
		assert.True(t, result.Valid)
		assert.Equal(t, "Valid XML", result.Message)
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := serveBody(t, http.StatusServiceUnavailable, "busy")
		validator, err := NewValidator(testSitemapConfig(), logger)
		require.NoError(t, err)

		result := validator.Validate(context.Background(), server.URL)
		assert.False(t, result.Valid)
		assert.Equal(t, "HTTP 503 received", result.Message)
	})

	t.Run("malformed XML", func(t *testing.T) {
		server := serveBody(t, http.StatusOK, "<urlset><url></urlset>")
		validator, err := NewValidator(testSitemapConfig(), logger)
		require.NoError(t, err)

		result := validator.Validate(context.Background(), server.URL)
		assert.False(t, result.Valid)
		assert.Equal(t, "Invalid XML structure", result.Message)
	})

	t.Run("bare text is not a document", func(t *testing.T) {
		server := serveBody(t, http.StatusOK, "this is not xml")
		validator, err := NewValidator(testSitemapConfig(), logger)
		require.NoError(t, err)

		result := validator.Validate(context.Background(), server.URL)
		assert.False(t, result.Valid)
		assert.Equal(t, "Invalid XML structure", result.Message)
	})

	t.Run("network error", func(t *testing.T) {
		server := serveBody(t, http.StatusOK, sitemapIndexDoc)
		serverURL := server.URL
		server.Close()

		validator, err := NewValidator(testSitemapConfig(), logger)
		require.NoError(t, err)

		result := validator.Validate(context.Background(), serverURL)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Message, "Request error:")
	})
}

func TestIndexer_ExtractChildSitemaps(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("extracts in document order", func(t *testing.T) {
		server := serveBody(t, http.StatusOK, sitemapIndexDoc)
		indexer, err := NewIndexer(testSitemapConfig(), logger)
		require.NoError(t, err)

		children := indexer.ExtractChildSitemaps(context.Background(), server.URL)
		assert.Equal(t, []string{
			"https://example.com/sitemap-products.xml",
			"https://example.com/sitemap-pages.xml",
			"https://example.com/sitemap-news.xml",
		}, children)
	})

	t.Run("ignores foreign namespaces", func(t *testing.T) {
		server := serveBody(t, http.StatusOK, foreignNamespaceDoc)
		indexer, err := NewIndexer(testSitemapConfig(), logger)
		require.NoError(t, err)

		children := indexer.ExtractChildSitemaps(context.Background(), server.URL)
		assert.Empty(t, children)
	})

	t.Run("fails open on non-200", func(t *testing.T) {
		server := serveBody(t, http.StatusInternalServerError, "boom")
		indexer, err := NewIndexer(testSitemapConfig(), logger)
		require.NoError(t, err)

		children := indexer.ExtractChildSitemaps(context.Background(), server.URL)
		assert.Empty(t, children)
	})

	t.Run("fails open on network error", func(t *testing.T) {
		server := serveBody(t, http.StatusOK, sitemapIndexDoc)
		serverURL := server.URL
		server.Close()

		indexer, err := NewIndexer(testSitemapConfig(), logger)
		require.NoError(t, err)

		children := indexer.ExtractChildSitemaps(context.Background(), serverURL)
		assert.Empty(t, children)
	})
}

func TestSampler_SampleURLs(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("returns first N in order", func(t *testing.T) {
		server := serveBody(t, http.StatusOK, urlSetDoc)
		cfg := testSitemapConfig()
		cfg.SampleLimit = 2
		sampler, err := NewSampler(cfg, logger)
		require.NoError(t, err)

		urls := sampler.SampleURLs(context.Background(), server.URL)
		assert.Equal(t, []string{
			"https://example.com/page-1",
			"https://example.com/page-2",
		}, urls)
	})

	t.Run("returns all when fewer than limit", func(t *testing.T) {
		server := serveBody(t, http.StatusOK, urlSetDoc)
		sampler, err := NewSampler(testSitemapConfig(), logger)
		require.NoError(t, err)

		urls := sampler.SampleURLs(context.Background(), server.URL)
		assert.Len(t, urls, 3)
	})

	t.Run("fails open on malformed XML", func(t *testing.T) {
		server := serveBody(t, http.StatusOK, "<urlset")
		sampler, err := NewSampler(testSitemapConfig(), logger)
		require.NoError(t, err)

		urls := sampler.SampleURLs(context.Background(), server.URL)
		assert.Empty(t, urls)
	})
}

func TestDownloader_Download(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("writes raw bytes using URL basename", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/sitemaps/sitemap-products.xml", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(urlSetDoc))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		outputDir := t.TempDir()
		cfg := testSitemapConfig()
		cfg.OutputDir = outputDir
		downloader, err := NewDownloader(cfg, logger)
		require.NoError(t, err)

		destPath, err := downloader.Download(context.Background(), server.URL+"/sitemaps/sitemap-products.xml")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(outputDir, "sitemap-products.xml"), destPath)

		written, err := os.ReadFile(destPath)
		require.NoError(t, err)
		assert.Equal(t, urlSetDoc, string(written))
	})

	t.Run("overwrites existing file silently", func(t *testing.T) {
		server := serveBody(t, http.StatusOK, urlSetDoc)

		outputDir := t.TempDir()
		existing := filepath.Join(outputDir, "sitemap.xml")
		require.NoError(t, os.WriteFile(existing, []byte("old content"), 0644))

		cfg := testSitemapConfig()
		cfg.OutputDir = outputDir
		downloader, err := NewDownloader(cfg, logger)
		require.NoError(t, err)

		_, err = downloader.Download(context.Background(), server.URL+"/sitemap.xml")
		require.NoError(t, err)

		written, err := os.ReadFile(existing)
		require.NoError(t, err)
		assert.Equal(t, urlSetDoc, string(written))
	})

	t.Run("rejects URL without basename before any write", func(t *testing.T) {
		outputDir := t.TempDir()
		cfg := testSitemapConfig()
		cfg.OutputDir = outputDir
		downloader, err := NewDownloader(cfg, logger)
		require.NoError(t, err)

		_, err = downloader.Download(context.Background(), "https://example.com/path/")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid filename in URL")

		entries, err := os.ReadDir(outputDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("non-200 is an error and nothing is written", func(t *testing.T) {
		server := serveBody(t, http.StatusNotFound, "missing")

		outputDir := t.TempDir()
		cfg := testSitemapConfig()
		cfg.OutputDir = outputDir
		downloader, err := NewDownloader(cfg, logger)
		require.NoError(t, err)

		_, err = downloader.Download(context.Background(), server.URL+"/sitemap.xml")
		require.Error(t, err)

		entries, err := os.ReadDir(outputDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
