package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"

	"github.com/aleister1102/sitemapinc/internal/config"
	"github.com/aleister1102/sitemapinc/internal/httpclient"
	"github.com/aleister1102/sitemapinc/internal/models"
	"github.com/rs/zerolog"
)

// Validator checks that a sitemap URL is reachable and contains
// well-formed XML.
type Validator struct {
	client *httpclient.HTTPClient
	logger zerolog.Logger
}

// NewValidator creates a sitemap validator
func NewValidator(cfg config.SitemapConfig, logger zerolog.Logger) (*Validator, error) {
	client, err := newSitemapClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Validator{
		client: client,
		logger: logger.With().Str("component", "SitemapValidator").Logger(),
	}, nil
}

// Validate fetches the sitemap URL and reports reachability and XML
// well-formedness. Each fetch is fresh; there is no retry.
func (v *Validator) Validate(ctx context.Context, sitemapURL string) models.ValidationResult {
	result := models.ValidationResult{URL: sitemapURL}

	fetched, err := v.client.Get(ctx, sitemapURL)
	if err != nil {
		result.Message = fmt.Sprintf("Request error: %v", err)
		v.logger.Debug().Err(err).Str("url", sitemapURL).Msg("Sitemap fetch failed")
		return result
	}

	if fetched.StatusCode != http.StatusOK {
		result.Message = fmt.Sprintf("HTTP %d received", fetched.StatusCode)
		return result
	}

	if !isWellFormedXML(fetched.Body) {
		result.Message = "Invalid XML structure"
		return result
	}

	result.Valid = true
	result.Message = "Valid XML"
	return result
}

// isWellFormedXML reports whether the document parses as XML and contains at
// least one element. Bare text is not a document.
func isWellFormedXML(data []byte) bool {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	sawElement := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return sawElement
		}
		if err != nil {
			return false
		}
		if _, ok := token.(xml.StartElement); ok {
			sawElement = true
		}
	}
}
