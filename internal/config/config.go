package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/aleister1102/sitemapinc/internal/errorwrapper"
	"gopkg.in/yaml.v3"
)

// Default sitemap settings
const (
	DefaultSampleLimit      = 10
	DefaultFetchTimeoutSecs = 10
	DefaultSitemapOutputDir = "."
)

// Default checker settings
const (
	DefaultPageFetchTimeoutSecs = 5
	DefaultSignalWaitSecs       = 10
	DefaultSettleWaitSecs       = 5
	DefaultFallbackSleepSecs    = 7
	DefaultSnapshotDir          = "."
	DefaultUserAgent            = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Default browser settings
const (
	DefaultPageLoadTimeoutSecs = 30
	DefaultWindowWidth         = 1920
	DefaultWindowHeight        = 1080
)

// Default detector settings
const (
	DefaultMinContentLength   = 5000
	DefaultNotFoundPathMarker = "/404"
)

// Default storage settings
const (
	DefaultHistoryDBPath = "database/sitemapinc_history.db"
)

// Default log settings
const (
	DefaultLogFile       = "logs/sitemapinc.log"
	DefaultLogFormat     = "console"
	DefaultLogLevel      = "info"
	DefaultMaxLogBackups = 3
	DefaultMaxLogSizeMB  = 100
)

// SitemapConfig holds settings for sitemap fetching, validation and download
type SitemapConfig struct {
	RootSitemapURL   string `json:"root_sitemap_url" yaml:"root_sitemap_url" validate:"omitempty,url"`
	SampleLimit      int    `json:"sample_limit" yaml:"sample_limit" validate:"gte=1"`
	FetchTimeoutSecs int    `json:"fetch_timeout_secs" yaml:"fetch_timeout_secs" validate:"gte=1"`
	OutputDir        string `json:"output_dir" yaml:"output_dir"`
}

// NewDefaultSitemapConfig creates default sitemap configuration
func NewDefaultSitemapConfig() SitemapConfig {
	return SitemapConfig{
		SampleLimit:      DefaultSampleLimit,
		FetchTimeoutSecs: DefaultFetchTimeoutSecs,
		OutputDir:        DefaultSitemapOutputDir,
	}
}

// CheckerConfig holds settings for the per-URL page check procedure
type CheckerConfig struct {
	PageFetchTimeoutSecs int               `json:"page_fetch_timeout_secs" yaml:"page_fetch_timeout_secs" validate:"gte=1"`
	UserAgent            string            `json:"user_agent" yaml:"user_agent"`
	CustomHeaders        map[string]string `json:"custom_headers,omitempty" yaml:"custom_headers,omitempty"`
	TLSSkipVerify        bool              `json:"tls_skip_verify" yaml:"tls_skip_verify"`
	SignalWaitSecs       int               `json:"signal_wait_secs" yaml:"signal_wait_secs" validate:"gte=1"`
	SettleWaitSecs       int               `json:"settle_wait_secs" yaml:"settle_wait_secs" validate:"gte=0"`
	FallbackSleepSecs    int               `json:"fallback_sleep_secs" yaml:"fallback_sleep_secs" validate:"gte=0"`
	SnapshotDir          string            `json:"snapshot_dir" yaml:"snapshot_dir"`
}

// NewDefaultCheckerConfig creates default checker configuration
func NewDefaultCheckerConfig() CheckerConfig {
	return CheckerConfig{
		PageFetchTimeoutSecs: DefaultPageFetchTimeoutSecs,
		UserAgent:            DefaultUserAgent,
		SignalWaitSecs:       DefaultSignalWaitSecs,
		SettleWaitSecs:       DefaultSettleWaitSecs,
		FallbackSleepSecs:    DefaultFallbackSleepSecs,
		SnapshotDir:          DefaultSnapshotDir,
	}
}

// BrowserConfig holds settings for the headless browser session
type BrowserConfig struct {
	ChromePath          string `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty"`
	UserDataDir         string `json:"user_data_dir,omitempty" yaml:"user_data_dir,omitempty"`
	DisableImages       bool   `json:"disable_images" yaml:"disable_images"`
	PageLoadTimeoutSecs int    `json:"page_load_timeout_secs" yaml:"page_load_timeout_secs" validate:"gte=1"`
	WindowWidth         int    `json:"window_width" yaml:"window_width" validate:"gte=0"`
	WindowHeight        int    `json:"window_height" yaml:"window_height" validate:"gte=0"`
}

// NewDefaultBrowserConfig creates default browser configuration
func NewDefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		DisableImages:       true,
		PageLoadTimeoutSecs: DefaultPageLoadTimeoutSecs,
		WindowWidth:         DefaultWindowWidth,
		WindowHeight:        DefaultWindowHeight,
	}
}

// DetectorConfig holds the heuristic thresholds and phrase lists used to
// classify rendered pages
type DetectorConfig struct {
	MinContentLength    int      `json:"min_content_length" yaml:"min_content_length" validate:"gte=0"`
	SuspiciousTitles    []string `json:"suspicious_titles" yaml:"suspicious_titles"`
	SoftNotFoundPhrases []string `json:"soft_not_found_phrases" yaml:"soft_not_found_phrases"`
	NotFoundPathMarker  string   `json:"not_found_path_marker" yaml:"not_found_path_marker"`
}

// NewDefaultDetectorConfig creates default detector configuration
func NewDefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		MinContentLength: DefaultMinContentLength,
		SuspiciousTitles: []string{"loading...", "menu", "", "home"},
		SoftNotFoundPhrases: []string{
			"404 page not found",
			"sorry... we seem to have lost this page between our fabric rolls",
			"page not found",
			"error 404",
			"not found",
		},
		NotFoundPathMarker: DefaultNotFoundPathMarker,
	}
}

// StorageConfig holds settings for the optional run-history store
type StorageConfig struct {
	HistoryEnabled bool   `json:"history_enabled" yaml:"history_enabled"`
	HistoryDBPath  string `json:"history_db_path" yaml:"history_db_path"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		HistoryEnabled: false,
		HistoryDBPath:  DefaultHistoryDBPath,
	}
}

// LogConfig defines configuration for logging
type LogConfig struct {
	LogFile       string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	LogFormat     string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,logformat"`
	LogLevel      string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,loglevel"`
	MaxLogBackups int    `json:"max_log_backups,omitempty" yaml:"max_log_backups,omitempty"`
	MaxLogSizeMB  int    `json:"max_log_size_mb,omitempty" yaml:"max_log_size_mb,omitempty"`
}

// NewDefaultLogConfig creates default log configuration
func NewDefaultLogConfig() LogConfig {
	return LogConfig{
		LogFile:       DefaultLogFile,
		LogFormat:     DefaultLogFormat,
		LogLevel:      DefaultLogLevel,
		MaxLogBackups: DefaultMaxLogBackups,
		MaxLogSizeMB:  DefaultMaxLogSizeMB,
	}
}

// GlobalConfig is the root configuration for the whole application
type GlobalConfig struct {
	SitemapConfig  SitemapConfig  `json:"sitemap_config" yaml:"sitemap_config" validate:"required"`
	CheckerConfig  CheckerConfig  `json:"checker_config" yaml:"checker_config" validate:"required"`
	BrowserConfig  BrowserConfig  `json:"browser_config" yaml:"browser_config"`
	DetectorConfig DetectorConfig `json:"detector_config" yaml:"detector_config"`
	StorageConfig  StorageConfig  `json:"storage_config" yaml:"storage_config"`
	LogConfig      LogConfig      `json:"log_config" yaml:"log_config"`
}

// NewDefaultGlobalConfig creates a GlobalConfig with all defaults applied
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		SitemapConfig:  NewDefaultSitemapConfig(),
		CheckerConfig:  NewDefaultCheckerConfig(),
		BrowserConfig:  NewDefaultBrowserConfig(),
		DetectorConfig: NewDefaultDetectorConfig(),
		StorageConfig:  NewDefaultStorageConfig(),
		LogConfig:      NewDefaultLogConfig(),
	}
}

// LoadGlobalConfig loads configuration from the given file path. An empty
// path yields the defaults. Format is chosen by file extension.
func LoadGlobalConfig(configPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to read config file "+configPath)
	}

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errorwrapper.NewParseError(configPath, "YAML", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errorwrapper.NewParseError(configPath, "JSON", err)
		}
	default:
		return nil, errorwrapper.NewError("unsupported config file extension: %s", filepath.Ext(configPath))
	}

	return cfg, nil
}
