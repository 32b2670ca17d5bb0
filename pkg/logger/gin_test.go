package logger

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestFromGinReturnsRequestScopedLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got *slog.Logger
	r := gin.New()
	r.Use(Middleware(New("local")))
	r.GET("/x", func(c *gin.Context) {
		got = FromGin(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if got == nil {
		t.Fatalf("no logger in context")
	}
	if got == slog.Default() {
		t.Fatalf("expected the request-scoped logger, got the default")
	}
	if w.Header().Get(headerRequestID) == "" {
		t.Fatalf("request id header not set")
	}
}

func TestFromGinFallsBackToDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if FromGin(c) != slog.Default() {
		t.Fatalf("expected the default logger without middleware")
	}
}
