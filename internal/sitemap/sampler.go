package sitemap

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aleister1102/sitemapinc/internal/config"
	"github.com/aleister1102/sitemapinc/internal/errorwrapper"
	"github.com/aleister1102/sitemapinc/internal/httpclient"
)

// Sampler extracts a bounded sample of page URLs from a child sitemap.
type Sampler struct {
	client *httpclient.HTTPClient
	limit  int
	logger zerolog.Logger
}

// NewSampler creates a sitemap sampler
func NewSampler(cfg config.SitemapConfig, logger zerolog.Logger) (*Sampler, error) {
	client, err := newSitemapClient(cfg)
	if err != nil {
		return nil, err
	}
	limit := cfg.SampleLimit
	if limit <= 0 {
		limit = config.DefaultSampleLimit
	}
	return &Sampler{
		client: client,
		limit:  limit,
		logger: logger.With().Str("component", "SitemapSampler").Logger(),
	}, nil
}

// SampleURLs fetches the child sitemap and returns the first N page URLs in
// document order. Fails open: any fetch or parse failure is logged and
// yields an empty slice.
func (s *Sampler) SampleURLs(ctx context.Context, sitemapURL string) []string {
	fetched, err := s.client.Get(ctx, sitemapURL)
	if err != nil {
		s.logger.Error().Err(err).Str("url", sitemapURL).Msg("Failed to fetch child sitemap")
		return nil
	}
	if fetched.StatusCode != http.StatusOK {
		err := errorwrapper.NewHTTPErrorWithURL(fetched.StatusCode, "unexpected status fetching sitemap", sitemapURL)
		s.logger.Error().Err(err).Str("url", sitemapURL).Msg("Failed to fetch child sitemap")
		return nil
	}

	locs, err := extractLocs(fetched.Body, "//url/loc")
	if err != nil {
		s.logger.Error().Err(errorwrapper.NewParseError(sitemapURL, "XML", err)).
			Str("url", sitemapURL).Msg("Failed to parse child sitemap")
		return nil
	}

	if len(locs) > s.limit {
		locs = locs[:s.limit]
	}
	s.logger.Info().Str("url", sitemapURL).Int("count", len(locs)).Msg("Sampled page URLs")
	return locs
}
