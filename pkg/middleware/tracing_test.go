package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTraceMiddlewareGeneratesID(t *testing.T) {
	var seen string
	handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetTraceID(r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if seen == "" {
		t.Error("no trace ID attached to context")
	}
	if got := rec.Header().Get("X-Trace-Id"); got != seen {
		t.Errorf("header %q does not match context %q", got, seen)
	}
}

func TestTraceMiddlewarePropagatesIncomingID(t *testing.T) {
	var seen string
	handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetTraceID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Trace-Id", "incoming-trace")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "incoming-trace" {
		t.Errorf("incoming trace ID dropped, got %q", seen)
	}
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/api/ngos": "/api/ngos",
		"/api/donations/64f1c2ab99aa0b33de510f77":        "/api/donations/:id",
		"/api/donations/64f1c2ab99aa0b33de510f77/status": "/api/donations/:id/status",
	}
	for in, want := range cases {
		if got := normalizePath(in); got != want {
			t.Errorf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}
