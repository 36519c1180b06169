package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"fatal":   LevelFatal,
		"unknown": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_JSONIncludesBaseAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Service: "authsvc", Env: "test", Level: "fatal", Format: "json", Output: &buf})

	logger.Log(context.Background(), LevelFatal, "boom")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "authsvc", line["service"])
	assert.Equal(t, "test", line["env"])
	assert.Equal(t, "FATAL", line["level"])
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithContext(context.Background(), custom)
	assert.Equal(t, custom, FromContext(ctx))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var scoped *slog.Logger
	r := gin.New()
	r.Use(Middleware(base))
	r.GET("/ping", func(c *gin.Context) {
		scoped = FromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	t.Run("propagates a provided request id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		req.Header.Set("Cookie", "auth=secret-token")
		req.Header.Set("Authorization", "Bearer secret-token")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
		assert.NotEqual(t, base, scoped)

		out := buf.String()
		assert.Contains(t, out, `"req_id":"req-123"`)
		assert.Contains(t, out, `"msg":"http_request"`)
		assert.Contains(t, out, `"status":204`)
		assert.False(t, strings.Contains(out, "secret-token"), "credentials must not be logged")
	})

	t.Run("generates a request id when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}
