package snapshot

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"hotel-reviews/config"
	"hotel-reviews/utils"
)

func requireChrome(t *testing.T) {
	t.Helper()
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell", "chrome"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no Chrome binary on PATH")
}

func TestCapture(t *testing.T) {
	requireChrome(t)
	c := New(config.Default(), utils.NewLoggerTo(&bytes.Buffer{}))
	html := []byte("<!DOCTYPE html><html><body><h1>Hotel A</h1><p>4.5</p></body></html>")

	tests := []struct {
		format Format
		magic  []byte
	}{
		{FormatPNG, []byte("\x89PNG")},
		{FormatPDF, []byte("%PDF")},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			data, err := c.Capture(context.Background(), html, tt.format)
			if err != nil {
				t.Fatalf("Capture() error = %v", err)
			}
			if !bytes.HasPrefix(data, tt.magic) {
				t.Fatalf("output does not start with %q", tt.magic)
			}
		})
	}
}
