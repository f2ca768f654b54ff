package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{" info ", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAsyncLogger_WritesToFileOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "henji.log")

	l, err := NewAsyncLogger(path, LevelInfo)
	if err != nil {
		t.Fatalf("NewAsyncLogger: %v", err)
	}
	l.Debugf("hidden %d", 1)
	l.Infof("visible %d", 2)
	l.With("call_id", "abc").Warnf("child message")
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden 1") {
		t.Errorf("debug entry written at info level: %s", out)
	}
	if !strings.Contains(out, "visible 2") {
		t.Errorf("info entry missing: %s", out)
	}
	if !strings.Contains(out, "child message") || !strings.Contains(out, `"call_id":"abc"`) {
		t.Errorf("child entry or field missing: %s", out)
	}
}

func TestAsyncLogger_CloseIsIdempotent(t *testing.T) {
	l, err := NewAsyncLogger(filepath.Join(t.TempDir(), "a.log"), LevelDebug)
	if err != nil {
		t.Fatalf("NewAsyncLogger: %v", err)
	}
	child := l.With("k", "v")
	child.Close()
	l.Close()
}

func TestOr(t *testing.T) {
	if Or(nil) == nil {
		t.Fatal("Or(nil) returned nil")
	}
	l := NewNop()
	if Or(l) != l {
		t.Error("Or should return the given logger")
	}
	// must not panic
	Or(nil).Errorf("discarded %s", "message")
}
