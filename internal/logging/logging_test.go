package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "osmchart.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
		SetDebug(false)
	})

	LogEvent("hello %s", "world")
	LogTagged("aggregation", "dropped %d records", 2)
	SetDebug(true)
	Dump("state", map[string]int{"points": 3})
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "[AGGREGATION] dropped 2 records") {
		t.Fatalf("expected LogTagged content, got: %s", content)
	}
	if !strings.Contains(content, "[DEBUG] state") {
		t.Fatalf("expected Dump content, got: %s", content)
	}
}

func TestBuildFetchMessageDefaults(t *testing.T) {
	t.Parallel()

	msg := buildFetchMessage(" in ", " ", 200, map[string]any{"ok": true})
	if !strings.Contains(msg, "[IN]") {
		t.Fatalf("expected uppercased direction, got: %s", msg)
	}
	if !strings.Contains(msg, "url=unknown") {
		t.Fatalf("expected default url, got: %s", msg)
	}
	if !strings.Contains(msg, "status=200") {
		t.Fatalf("expected status, got: %s", msg)
	}
	if !strings.Contains(msg, "payload={\"ok\":true}") {
		t.Fatalf("expected payload json, got: %s", msg)
	}
	if msg := buildFetchMessage("", "http://x", 0, nil); strings.Contains(msg, "status=") || !strings.HasPrefix(msg, "[FETCH]") {
		t.Fatalf("unexpected message without status: %s", msg)
	}
}

func TestFormatPayloadVariants(t *testing.T) {
	t.Parallel()

	if got := formatPayload(nil); got != "null" {
		t.Fatalf("nil payload: %s", got)
	}
	if got := formatPayload(" "); got != `""` {
		t.Fatalf("empty string payload: %s", got)
	}
	if got := formatPayload([]byte("hi")); got != "hi" {
		t.Fatalf("byte payload: %s", got)
	}
	if got := formatPayload(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer payload: %s", got)
	}
	if got := formatPayload(errors.New("boom")); got != "boom" {
		t.Fatalf("error payload: %s", got)
	}
}

func TestBuildTaggedMessage(t *testing.T) {
	t.Parallel()

	if got := buildTaggedMessage(" chart ", "x"); got != "[CHART] x" {
		t.Fatalf("buildTaggedMessage=%q", got)
	}
	if got := buildTaggedMessage("", "x"); got != "x" {
		t.Fatalf("buildTaggedMessage without tag=%q", got)
	}
}
