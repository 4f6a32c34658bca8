package extractor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/common"
	"golang.org/x/time/rate"
)

// Browser wraps a single headless Chrome session used for one ingestion run.
// Sites in scope render their listings with JavaScript, so plain HTTP fetches
// see empty markup; every page goes through a real browser context instead.
// A rate limiter spaces navigations so sequential crawling stays polite.
type Browser struct {
	allocatorCancel context.CancelFunc
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	limiter         *rate.Limiter
	settleDelay     time.Duration
	requestTimeout  time.Duration
	logger          arbor.ILogger
	mu              sync.Mutex
	closed          bool
}

// NewBrowser launches a headless Chrome instance and verifies it responds.
// The caller owns the session and must Close it when the run finishes.
func NewBrowser(config *common.IngestConfig, logger arbor.ILogger) (*Browser, error) {
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "Nuntius-Ingest/1.0"
	}

	settleDelay, err := parseDurationOr(config.SettleDelay, 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid settle_delay: %w", err)
	}
	requestDelay, err := parseDurationOr(config.RequestDelay, time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid request_delay: %w", err)
	}
	requestTimeout, err := parseDurationOr(config.RequestTimeout, 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid request_timeout: %w", err)
	}

	allocatorOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)

	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(
		context.Background(),
		allocatorOpts...,
	)

	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)

	startTime := time.Now()
	testCtx, testCancel := context.WithTimeout(browserCtx, requestTimeout)
	defer testCancel()

	if err := chromedp.Run(testCtx, chromedp.Navigate("about:blank")); err != nil {
		browserCancel()
		allocatorCancel()
		return nil, fmt.Errorf("browser failed startup test: %w", err)
	}

	if err := chromedp.Run(testCtx, network.Enable()); err != nil {
		browserCancel()
		allocatorCancel()
		return nil, fmt.Errorf("failed to enable network domain: %w", err)
	}

	var limiter *rate.Limiter
	if requestDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(requestDelay), 1)
	} else {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	logger.Info().
		Bool("headless", config.Headless).
		Dur("settle_delay", settleDelay).
		Dur("request_delay", requestDelay).
		Dur("startup_time", time.Since(startTime)).
		Msg("Browser session started")

	return &Browser{
		allocatorCancel: allocatorCancel,
		browserCtx:      browserCtx,
		browserCancel:   browserCancel,
		limiter:         limiter,
		settleDelay:     settleDelay,
		requestTimeout:  requestTimeout,
		logger:          logger,
	}, nil
}

func parseDurationOr(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}

// FetchRenderedHTML navigates to the URL, waits for dynamic content to
// settle, and returns the rendered document markup. Navigations are spaced
// by the politeness limiter.
func (b *Browser) FetchRenderedHTML(ctx context.Context, pageURL string) (string, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return "", fmt.Errorf("browser session is closed")
	}
	b.mu.Unlock()

	if err := b.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	navCtx, cancel := context.WithTimeout(b.browserCtx, b.requestTimeout)
	defer cancel()

	startTime := time.Now()
	var html string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(b.settleDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", pageURL, err)
	}

	b.logger.Debug().
		Str("url", pageURL).
		Int("html_length", len(html)).
		Dur("duration", time.Since(startTime)).
		Msg("Page rendered")

	return html, nil
}

// Close shuts down the browser session. Safe to call more than once.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	b.browserCancel()
	b.allocatorCancel()
	b.logger.Debug().Msg("Browser session closed")

	return nil
}
