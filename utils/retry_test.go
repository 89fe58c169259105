package utils

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func noWait(int) time.Duration { return 0 }

func TestRetryWithBackoff_SucceedsAfterFailures(t *testing.T) {
	logger := NewLoggerTo(&bytes.Buffer{})
	calls := 0
	err := RetryWithBackoff(context.Background(), 3, noWait, func() error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	}, logger)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithBackoff_SingleAttemptReturnsErrorAsIs(t *testing.T) {
	logger := NewLoggerTo(&bytes.Buffer{})
	want := errors.New("boom")
	calls := 0
	err := RetryWithBackoff(context.Background(), 1, noWait, func() error {
		calls++
		return want
	}, logger)
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one call, got %d", calls)
	}
}

func TestRetryWithBackoff_PermanentStopsEarly(t *testing.T) {
	logger := NewLoggerTo(&bytes.Buffer{})
	want := errors.New("not found")
	calls := 0
	err := RetryWithBackoff(context.Background(), 5, noWait, func() error {
		calls++
		return Permanent(want)
	}, logger)
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if calls != 1 {
		t.Fatalf("expected permanent error to stop after 1 call, got %d", calls)
	}
}

func TestRetryWithBackoff_ExhaustedWrapsLastError(t *testing.T) {
	logger := NewLoggerTo(&bytes.Buffer{})
	want := errors.New("still down")
	err := RetryWithBackoff(context.Background(), 2, noWait, func() error { return want }, logger)
	if !errors.Is(err, want) {
		t.Fatalf("expected wrapped %v, got %v", want, err)
	}
	if !strings.Contains(err.Error(), "all 2 attempts failed") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestRetryWithBackoff_CancelledContext(t *testing.T) {
	logger := NewLoggerTo(&bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := RetryWithBackoff(ctx, 3, func(int) time.Duration { return time.Hour }, func() error {
		calls++
		cancel()
		return errors.New("fail")
	}, logger)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestPermanentNil(t *testing.T) {
	if Permanent(nil) != nil {
		t.Fatal("Permanent(nil) should be nil")
	}
}
