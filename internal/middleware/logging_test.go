package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/config"
	"storefront/internal/logger"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestLoggingMiddleware_TagsRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	handler := middleware.RequestID(LoggingMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context(), nil).Info("handled")
		w.WriteHeader(http.StatusTeapot)
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/product/featured", nil))

	handled := logs.FilterMessage("handled").All()
	require.Len(t, handled, 1)
	assert.NotEmpty(t, handled[0].ContextMap()["request_id"])

	completed := logs.FilterMessage("Request completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, int64(http.StatusTeapot), completed[0].ContextMap()["status"])
	assert.Equal(t, handled[0].ContextMap()["request_id"], completed[0].ContextMap()["request_id"])
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"https://shop.example"}}, false)(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/product", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))

	other := httptest.NewRequest(http.MethodGet, "/api/product", nil)
	other.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, other)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
