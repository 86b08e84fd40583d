package browser

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/aleister1102/sitemapinc/internal/config"
	"github.com/aleister1102/sitemapinc/internal/errorwrapper"
)

// signalPollInterval is how often the render loop re-checks the page for a
// readiness signal.
const signalPollInterval = 250 * time.Millisecond

// contentSignalSelector matches the first rendered content element.
const contentSignalSelector = "h1:not(:empty), div:not(:empty)"

// RenderOptions control how long Render waits for a page to become ready.
type RenderOptions struct {
	SignalWait         time.Duration
	SettleWait         time.Duration
	FallbackSleep      time.Duration
	NotFoundPathMarker string
}

// RenderResult holds the rendered state of a page.
type RenderResult struct {
	HTML       string
	Title      string
	InitialURL string
	FinalURL   string
	SignalMet  bool
}

// Session owns a single headless browser used for one batch of page checks.
type Session struct {
	config    config.BrowserConfig
	logger    zerolog.Logger
	launcher  *launcher.Launcher
	browser   *rod.Browser
	closeOnce sync.Once
}

// NewSession launches a headless browser and connects to it
func NewSession(cfg config.BrowserConfig, logger zerolog.Logger) (*Session, error) {
	browserLauncher := launcher.New()

	if cfg.ChromePath != "" {
		browserLauncher = browserLauncher.Bin(cfg.ChromePath)
	}
	if cfg.UserDataDir != "" {
		browserLauncher = browserLauncher.UserDataDir(cfg.UserDataDir)
	}

	browserLauncher = browserLauncher.
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("disable-default-apps").
		Set("disable-sync")

	if cfg.DisableImages {
		browserLauncher = browserLauncher.Set("blink-settings", "imagesEnabled=false")
	}

	launcherURL, err := browserLauncher.Launch()
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to launch browser")
	}

	browserInstance := rod.New().ControlURL(launcherURL)
	if err := browserInstance.Connect(); err != nil {
		browserLauncher.Cleanup()
		return nil, errorwrapper.WrapError(err, "failed to connect to browser")
	}

	return &Session{
		config:   cfg,
		logger:   logger.With().Str("component", "BrowserSession").Logger(),
		launcher: browserLauncher,
		browser:  browserInstance,
	}, nil
}

// Render navigates to the URL, waits for the page to become ready, and
// returns the rendered HTML together with the pre-settle and final URLs.
// Readiness is the first of: a non-empty h1/div, a title containing "404" or
// "not found", or the current URL containing the not-found path marker. When
// no signal fires within SignalWait, the page gets FallbackSleep of wall
// time to finish whatever it is doing.
func (s *Session) Render(ctx context.Context, pageURL string, opts RenderOptions) (*RenderResult, error) {
	pageTimeout := time.Duration(s.config.PageLoadTimeoutSecs) * time.Second
	timeoutCtx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()

	page, err := s.browser.Context(timeoutCtx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create page")
	}
	defer page.Close()

	if s.config.WindowWidth > 0 && s.config.WindowHeight > 0 {
		if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:  s.config.WindowWidth,
			Height: s.config.WindowHeight,
		}); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to set viewport")
		}
	}

	if err := page.Navigate(pageURL); err != nil {
		return nil, errorwrapper.NewNetworkError(pageURL, "navigation failed", err)
	}

	initialURL := s.currentURL(page, pageURL)

	signalMet := s.waitForSignal(ctx, page, opts)
	if signalMet {
		if err := page.Timeout(opts.SettleWait).WaitLoad(); err != nil {
			s.logger.Debug().Err(err).Str("url", pageURL).Msg("Settle wait ended before load event")
		}
	} else {
		s.sleepWithContext(ctx, opts.FallbackSleep)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to read rendered HTML for "+pageURL)
	}

	return &RenderResult{
		HTML:       html,
		Title:      s.pageTitle(page),
		InitialURL: initialURL,
		FinalURL:   s.currentURL(page, pageURL),
		SignalMet:  signalMet,
	}, nil
}

// waitForSignal polls the page until a readiness signal fires or SignalWait
// elapses. Returns whether a signal fired.
func (s *Session) waitForSignal(ctx context.Context, page *rod.Page, opts RenderOptions) bool {
	deadline := time.Now().Add(opts.SignalWait)
	for time.Now().Before(deadline) {
		if hasContent, _, err := page.Has(contentSignalSelector); err == nil && hasContent {
			return true
		}

		title := strings.ToLower(s.pageTitle(page))
		if strings.Contains(title, "404") || strings.Contains(title, "not found") {
			return true
		}

		if opts.NotFoundPathMarker != "" && strings.Contains(s.currentURL(page, ""), opts.NotFoundPathMarker) {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(signalPollInterval):
		}
	}
	return false
}

// pageTitle reads document.title, tolerating pages that are still loading
func (s *Session) pageTitle(page *rod.Page) string {
	result, err := page.Eval(`() => document.title`)
	if err != nil {
		return ""
	}
	return result.Value.Str()
}

// currentURL reads the page's current URL, falling back when unavailable
func (s *Session) currentURL(page *rod.Page, fallback string) string {
	info, err := page.Info()
	if err != nil || info == nil {
		return fallback
	}
	return info.URL
}

func (s *Session) sleepWithContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// Close tears down the browser and launcher. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.browser != nil {
			if err := s.browser.Close(); err != nil {
				s.logger.Warn().Err(err).Msg("Failed to close browser")
			}
		}
		if s.launcher != nil {
			s.launcher.Cleanup()
		}
		s.logger.Debug().Msg("Browser session closed")
	})
	return nil
}
