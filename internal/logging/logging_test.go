package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestFor_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "debug")
	t.Cleanup(func() { Configure(os.Stderr, "info") })

	ctx := ContextWithID(context.Background(), "req-1")
	For(ctx).Info("hello")

	out := buf.String()
	if !strings.Contains(out, "request_id=req-1") {
		t.Fatalf("log output = %q, want request_id field", out)
	}
	if !strings.Contains(out, "msg=hello") {
		t.Fatalf("log output = %q, want message", out)
	}
}

func TestFor_WithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "info")
	t.Cleanup(func() { Configure(os.Stderr, "info") })

	For(context.Background()).Info("plain")
	if strings.Contains(buf.String(), "request_id") {
		t.Fatalf("log output = %q, want no request_id", buf.String())
	}
}

func TestConfigure_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "chatty")
	t.Cleanup(func() { Configure(os.Stderr, "info") })

	if logrus.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %v, want info", logrus.GetLevel())
	}
	if !strings.Contains(buf.String(), "unknown log level") {
		t.Fatalf("log output = %q, want warning about level", buf.String())
	}
}

func TestTrack_LogsDurationAtDebug(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "debug")
	t.Cleanup(func() { Configure(os.Stderr, "info") })

	Track(ContextWithID(context.Background(), "abc"), "caps")()
	out := buf.String()
	if !strings.Contains(out, "caps completed") || !strings.Contains(out, "duration=") {
		t.Fatalf("log output = %q, want tracked duration", out)
	}
}

func TestSetup_CreatesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nabsearch.log")
	closer, err := Setup(path, "info")
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	t.Cleanup(func() {
		Configure(os.Stderr, "info")
		_ = closer.Close()
	})

	logrus.Info("written")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "written") {
		t.Fatalf("log file = %q, want entry", data)
	}
}
