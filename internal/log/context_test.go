package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func TestWithContextRoundTrip(t *testing.T) {
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentHTTP})
	ctx := WithContext(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Error("FromContext should return the logger stored by WithContext")
	}
}

func TestFromContextFallback(t *testing.T) {
	got := FromContext(context.Background())
	if got == nil || got.Logger == nil {
		t.Fatal("FromContext should fall back to a usable logger")
	}
	if got.Component() != "unknown" {
		t.Errorf("component = %q, want unknown", got.Component())
	}
}

func TestRequestScopedFieldsSurviveContext(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		Component: ComponentHTTP,
	})

	ctx := WithContext(context.Background(), base.With(FieldRequestID, "req_42"))
	FromContext(ctx).ErrorContext(ctx, "Request failed", FieldError, "boom")

	out := buf.String()
	if !strings.Contains(out, "request_id=req_42") {
		t.Errorf("output %q should carry the request id", out)
	}
	if !strings.Contains(out, "error=boom") {
		t.Errorf("output %q should carry the error field", out)
	}
}

func TestHTTPEndLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{status: 200, level: "INFO"},
		{status: 404, level: "WARN"},
		{status: 500, level: "ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		logger := New(Config{
			Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}),
			Component: ComponentHTTP,
		})
		r := httptest.NewRequest("GET", "/api/dashboard", nil)

		HTTPEnd(context.Background(), logger, r, tt.status, 12, "127.0.0.1")

		out := buf.String()
		if !strings.Contains(out, "level="+tt.level) {
			t.Errorf("status %d: output %q, want level %s", tt.status, out, tt.level)
		}
		if !strings.Contains(out, "status_code="+strconv.Itoa(tt.status)) {
			t.Errorf("status %d: output %q missing status code", tt.status, out)
		}
	}
}
