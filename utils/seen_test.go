package utils

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestSeenSet(t *testing.T) {
	s := NewSeenSet()
	for _, k := range []string{"rooms", "service", "rooms", "value", "service"} {
		s.Add(k)
	}
	if s.Count() != 3 {
		t.Fatalf("expected 3 keys, got %d", s.Count())
	}
	if got, want := s.Keys(), []string{"rooms", "service", "value"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	if s.Add("rooms") {
		t.Fatal("duplicate Add should return false")
	}
}

func TestLoggerDebugSwitch(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf)
	l.Debug("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("debug output should be off by default, got %q", buf.String())
	}
	l.SetDebug(true)
	l.Debug("shown %d", 2)
	l.Info("info line")
	out := buf.String()
	if !strings.Contains(out, "[DEBUG]") || !strings.Contains(out, "shown 2") {
		t.Fatalf("expected debug line, got %q", out)
	}
	if !strings.Contains(out, "[INFO]") {
		t.Fatalf("expected info line, got %q", out)
	}
}
