package sitemap

import (
	"bytes"
	"context"
	"net/http"

	"github.com/antchfx/xmlquery"
	"github.com/rs/zerolog"

	"github.com/aleister1102/sitemapinc/internal/config"
	"github.com/aleister1102/sitemapinc/internal/errorwrapper"
	"github.com/aleister1102/sitemapinc/internal/httpclient"
)

// Indexer extracts child sitemap URLs from a sitemap index document.
type Indexer struct {
	client *httpclient.HTTPClient
	logger zerolog.Logger
}

// NewIndexer creates a sitemap indexer
func NewIndexer(cfg config.SitemapConfig, logger zerolog.Logger) (*Indexer, error) {
	client, err := newSitemapClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Indexer{
		client: client,
		logger: logger.With().Str("component", "SitemapIndexer").Logger(),
	}, nil
}

// ExtractChildSitemaps fetches the index document and returns the child
// sitemap URLs in document order. Fails open: any fetch or parse failure is
// logged and yields an empty slice.
func (idx *Indexer) ExtractChildSitemaps(ctx context.Context, indexURL string) []string {
	body, err := idx.fetchDocument(ctx, indexURL)
	if err != nil {
		idx.logger.Error().Err(err).Str("url", indexURL).Msg("Failed to fetch sitemap index")
		return nil
	}

	locs, err := extractLocs(body, "//sitemap/loc")
	if err != nil {
		idx.logger.Error().Err(errorwrapper.NewParseError(indexURL, "XML", err)).
			Str("url", indexURL).Msg("Failed to parse sitemap index")
		return nil
	}

	idx.logger.Info().Str("url", indexURL).Int("count", len(locs)).Msg("Extracted child sitemaps")
	return locs
}

func (idx *Indexer) fetchDocument(ctx context.Context, url string) ([]byte, error) {
	fetched, err := idx.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if fetched.StatusCode != http.StatusOK {
		return nil, errorwrapper.NewHTTPErrorWithURL(fetched.StatusCode, "unexpected status fetching sitemap", url)
	}
	return fetched.Body, nil
}

// extractLocs parses the document and evaluates the given loc XPath, keeping
// only elements in the sitemap protocol namespace. Order is document order.
func extractLocs(body []byte, locExpr string) ([]string, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	nodes, err := xmlquery.QueryAll(doc, locExpr)
	if err != nil {
		return nil, err
	}

	var locs []string
	for _, node := range nodes {
		if node.NamespaceURI != sitemapNamespace {
			continue
		}
		if node.Parent == nil || node.Parent.NamespaceURI != sitemapNamespace {
			continue
		}
		locs = append(locs, node.InnerText())
	}
	return locs, nil
}
