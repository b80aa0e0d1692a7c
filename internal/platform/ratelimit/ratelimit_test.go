package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func doRequest(e *echo.Echo) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_EnforcesLimit(t *testing.T) {
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") },
		Middleware(Policy{Name: "test", Window: time.Minute, Limit: 2, Key: KeyByIP("test")}))

	for i := 0; i < 2; i++ {
		if rec := doRequest(e); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	rec := doRequest(e)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("over-limit status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestMiddleware_WindowResets(t *testing.T) {
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") },
		Middleware(Policy{Name: "test", Window: 20 * time.Millisecond, Limit: 1, Key: KeyByIP("test")}))

	if rec := doRequest(e); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	if rec := doRequest(e); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	time.Sleep(25 * time.Millisecond)
	if rec := doRequest(e); rec.Code != http.StatusOK {
		t.Fatalf("post-window request status = %d, want 200", rec.Code)
	}
}
