package sitemap

import (
	"time"

	"github.com/aleister1102/sitemapinc/internal/config"
	"github.com/aleister1102/sitemapinc/internal/httpclient"
)

// Namespace of the sitemap protocol. Elements outside it are ignored.
const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// newSitemapClient builds the HTTP client shared by the sitemap components
func newSitemapClient(cfg config.SitemapConfig) (*httpclient.HTTPClient, error) {
	return httpclient.NewHTTPClientBuilder().
		WithTimeout(time.Duration(cfg.FetchTimeoutSecs) * time.Second).
		WithRedirects(true).
		Build()
}
