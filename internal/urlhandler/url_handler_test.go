package urlhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "adds https scheme",
			input:    "example.com/sitemap.xml",
			expected: "https://example.com/sitemap.xml",
		},
		{
			name:     "lowercases host",
			input:    "https://Example.COM/Sitemap.xml",
			expected: "https://example.com/Sitemap.xml",
		},
		{
			name:     "keeps existing http scheme",
			input:    "http://example.com/",
			expected: "http://example.com/",
		},
		{
			name:    "empty input",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidateURLFormat(t *testing.T) {
	assert.NoError(t, ValidateURLFormat("https://example.com/sitemap.xml"))
	assert.Error(t, ValidateURLFormat(""))
	assert.Error(t, ValidateURLFormat("ftp://example.com/file"))
	assert.Error(t, ValidateURLFormat("://invalid"))
}

func TestPathBasename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "regular sitemap path",
			input:    "https://example.com/foo/bar.xml",
			expected: "bar.xml",
		},
		{
			name:     "single segment",
			input:    "https://example.com/sitemap.xml",
			expected: "sitemap.xml",
		},
		{
			name:    "trailing slash has no basename",
			input:   "https://example.com/foo/",
			wantErr: true,
		},
		{
			name:    "empty path has no basename",
			input:   "https://example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PathBasename(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Invalid filename in URL")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSnapshotFilename(t *testing.T) {
	assert.Equal(t, "debug__products_item-1.html", SnapshotFilename("https://example.com/products/item-1"))
	assert.Equal(t, "debug__.html", SnapshotFilename("https://example.com/"))
	assert.Equal(t, "debug_.html", SnapshotFilename("https://example.com"))
}

func TestExtractHostname(t *testing.T) {
	host, err := ExtractHostname("https://example.com:8443/sitemap.xml")
	require.NoError(t, err)
	assert.Equal(t, "example.com", host)

	_, err = ExtractHostname("")
	assert.Error(t, err)

	// A percent sign in the URL must come through the message verbatim.
	_, err = ExtractHostname("https:///pa%20th")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "https:///pa%20th")
}
