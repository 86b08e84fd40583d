package urlhandler

import (
	"net/url"
	"path"
	"strings"

	"github.com/aleister1102/sitemapinc/internal/errorwrapper"
)

// NormalizeURL normalizes a URL by adding scheme if missing and lowercasing the domain
func NormalizeURL(rawURL string) (string, error) {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return "", errorwrapper.NewError("URL is empty")
	}

	if !strings.HasPrefix(trimmedURL, "http://") && !strings.HasPrefix(trimmedURL, "https://") {
		trimmedURL = "https://" + trimmedURL
	}

	parsedURL, err := url.Parse(trimmedURL)
	if err != nil {
		return "", errorwrapper.WrapError(err, "could not parse URL '"+trimmedURL+"'")
	}

	parsedURL.Host = strings.ToLower(parsedURL.Host)

	return parsedURL.String(), nil
}

// ValidateURLFormat validates if a URL string has proper format
func ValidateURLFormat(rawURL string) error {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return errorwrapper.NewError("URL is empty")
	}

	parsedURL, err := url.Parse(trimmedURL)
	if err != nil {
		return errorwrapper.WrapError(err, "invalid URL format '"+trimmedURL+"'")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errorwrapper.NewError("URL '%s' must use http or https scheme", trimmedURL)
	}

	return nil
}

// ExtractHostname extracts hostname without port from a URL string
func ExtractHostname(urlString string) (string, error) {
	if urlString == "" {
		return "", errorwrapper.NewError("URL string is empty")
	}

	parsedURL, err := url.Parse(urlString)
	if err != nil {
		return "", errorwrapper.WrapError(err, "could not parse URL '"+urlString+"'")
	}

	hostname := parsedURL.Hostname()
	if hostname == "" {
		return "", errorwrapper.NewError("URL has no hostname component: %s", urlString)
	}

	return hostname, nil
}

// PathBasename derives the last path segment of a URL, used as the on-disk
// filename for downloaded sitemaps. Returns an error when the path has no
// basename (e.g. ends in "/" or is empty).
func PathBasename(urlString string) (string, error) {
	parsedURL, err := url.Parse(urlString)
	if err != nil {
		return "", errorwrapper.WrapError(err, "could not parse URL '"+urlString+"'")
	}

	base := path.Base(parsedURL.Path)
	if base == "." || base == "/" || base == "" {
		return "", errorwrapper.NewError("Invalid filename in URL")
	}

	return base, nil
}

// SnapshotFilename derives the debug snapshot filename for a checked page
// from its final (post-redirect) URL path, slashes replaced by underscores.
func SnapshotFilename(finalURL string) string {
	urlPath := ""
	if parsedURL, err := url.Parse(finalURL); err == nil {
		urlPath = parsedURL.Path
	}
	return "debug_" + strings.ReplaceAll(urlPath, "/", "_") + ".html"
}
