package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"hotel-reviews/config"
	"hotel-reviews/utils"
)

// Format is a snapshot output type
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts "png" or "pdf", case-insensitively
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported snapshot format %q (want png or pdf)", s)
	}
}

// FormatFromPath infers the format from a file extension, defaulting to PNG
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return FormatPDF
	}
	return FormatPNG
}

// Capturer renders dashboard HTML in headless Chrome
type Capturer struct {
	timeout time.Duration
	logger  *utils.Logger
}

// New creates a new Capturer
func New(cfg *config.Config, logger *utils.Logger) *Capturer {
	return &Capturer{timeout: cfg.ChromeTimeout(), logger: logger}
}

// newContext creates a fresh chromedp context (one browser, one tab)
func (c *Capturer) newContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("log-level", "3"), // suppress Chrome logs
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return ctx, cancel
}

// Capture loads html from a temporary file and returns a full-page PNG or
// a PDF of it
func (c *Capturer) Capture(ctx context.Context, html []byte, format Format) ([]byte, error) {
	tmp, err := os.CreateTemp("", "hotel-dashboard-*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp page: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(html); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp page: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write temp page: %w", err)
	}

	ctx, cancel := c.newContext(ctx)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, c.timeout)
	defer cancelTimeout()

	var out []byte
	var capture chromedp.Action = chromedp.FullScreenshot(&out, 100) // quality 100 keeps PNG encoding
	if format == FormatPDF {
		capture = chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			out = data
			return nil
		})
	}

	start := time.Now()
	err = chromedp.Run(ctx,
		chromedp.Navigate("file://"+filepath.ToSlash(tmp.Name())),
		chromedp.WaitReady("body", chromedp.ByQuery),
		capture,
	)
	if err != nil {
		return nil, fmt.Errorf("chrome capture failed: %w", err)
	}

	c.logger.Debug("Captured %s (%d bytes) in %v", format, len(out), time.Since(start).Round(time.Millisecond))
	return out, nil
}

// CaptureToFile captures html and writes it to path
func (c *Capturer) CaptureToFile(ctx context.Context, html []byte, format Format, path string) error {
	data, err := c.Capture(ctx, html, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	c.logger.Info("Snapshot written to: %s", path)
	return nil
}
