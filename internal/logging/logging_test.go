// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestAppendCtx(t *testing.T) {
	ctx := AppendCtx(context.TODO(), slog.String("key1", "value1"))
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}

	attrs, ok := ctx.Value(slogFields).([]slog.Attr)
	if !ok {
		t.Fatal("expected slog attributes in context")
	}
	if len(attrs) != 1 {
		t.Fatalf("expected 1 attribute, got %d", len(attrs))
	}
	if attrs[0].Key != "key1" || attrs[0].Value.String() != "value1" {
		t.Errorf("unexpected attribute: %v", attrs[0])
	}
}

func TestAppendCtx_WithParent(t *testing.T) {
	ctx := AppendCtx(context.Background(), slog.String("parent_key", "parent_value"))
	ctx = AppendCtx(ctx, slog.String("child_key", "child_value"))

	attrs, ok := ctx.Value(slogFields).([]slog.Attr)
	if !ok {
		t.Fatal("expected slog attributes in context")
	}
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "parent_key" || attrs[1].Key != "child_key" {
		t.Errorf("unexpected attributes: %v", attrs)
	}
}

func TestContextHandlerIncludesContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	handler := contextHandler{slog.NewJSONHandler(&buf, nil)}
	logger := slog.New(handler)

	ctx := AppendCtx(context.Background(), slog.String("request_id", "req-1"))
	logger.InfoContext(ctx, "hello")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid log output: %v", err)
	}
	if record["request_id"] != "req-1" {
		t.Errorf("expected request_id attribute in log record, got %v", record)
	}
}

func TestPriority(t *testing.T) {
	attr := PriorityCritical()
	if attr.Key != "priority" || attr.Value.String() != priorityCritical {
		t.Errorf("unexpected priority attribute: %v", attr)
	}
}
