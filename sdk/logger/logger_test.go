package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

type ctxKey struct{}

func TestTraceIDAttached(t *testing.T) {
	var buf bytes.Buffer
	log := NewDefault(WithOutput(&buf), WithTraceIDFunc(func(ctx context.Context) string {
		v, _ := ctx.Value(ctxKey{}).(string)
		return v
	}))

	ctx := context.WithValue(context.Background(), ctxKey{}, "abc123")
	log.InfoContext(ctx, "hello", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if rec["trace_id"] != "abc123" {
		t.Errorf("Expected trace_id abc123, got %v", rec["trace_id"])
	}
	if rec["msg"] != "hello" {
		t.Errorf("Expected msg hello, got %v", rec["msg"])
	}
}

func TestTraceIDOmittedWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	log := NewDefault(WithOutput(&buf), WithTraceIDFunc(func(context.Context) string { return "" }))

	log.With("component", "test").InfoContext(context.Background(), "hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := rec["trace_id"]; ok {
		t.Errorf("Expected no trace_id, got %v", rec["trace_id"])
	}
	if rec["component"] != "test" {
		t.Errorf("Expected component attr to survive With, got %v", rec["component"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "DEBUG",
		"WARNING": "WARN",
		"error":   "ERROR",
		"bogus":   "INFO",
	}
	for in, want := range tests {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q): expected %s, got %s", in, want, got)
		}
	}
}
