package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewJSONLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Format: "json", Output: &buf})

	log.Info(context.Background(), "dropped")
	log.Warn(context.Background(), "kept", String("config_id", "abc"), Int("stage", 2), Err(errors.New("boom")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("logged %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["msg"] != "kept" || rec["config_id"] != "abc" || rec["stage"] != float64(2) || rec["error"] != "boom" {
		t.Fatalf("record = %v", rec)
	}
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Output: &buf}).With(String("component", "engine"))
	log.Debug(context.Background(), "recomputing", Bool("hit", false))

	out := buf.String()
	for _, want := range []string{"component=engine", "hit=false", "level=DEBUG"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestRunLoggerAndContext(t *testing.T) {
	ctx, id := EnsureRunID(context.Background())
	if id == "" || RunIDFromContext(ctx) != id {
		t.Fatalf("EnsureRunID id = %q, context has %q", id, RunIDFromContext(ctx))
	}
	if _, again := EnsureRunID(ctx); again != id {
		t.Fatalf("EnsureRunID replaced %q with %q", id, again)
	}

	var buf bytes.Buffer
	ctx, log := WithRunLogger(ctx, New(Config{Output: &buf}))
	ctx = ContextWithLogger(ctx, log)
	FromContext(ctx).Info(ctx, "hello")
	if !strings.Contains(buf.String(), "run_id="+id) {
		t.Fatalf("output %q missing run_id", buf.String())
	}

	if _, ok := FromContext(context.Background()).(noopLogger); !ok {
		t.Fatalf("FromContext without logger should be noop")
	}
}
