package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newCORSServer() http.Handler {
	cors := NewCORS([]string{"https://builder.example.com", "https://studio.example.com"})
	return cors.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORSEchoesAllowedOrigin(t *testing.T) {
	h := newCORSServer()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://studio.example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://studio.example.com" {
		t.Fatalf("expected matched origin echoed, got %q", got)
	}
	if got := rr.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("expected Vary: Origin, got %q", got)
	}
}

func TestCORSFallsBackToDefaultOrigin(t *testing.T) {
	h := newCORSServer()
	for _, origin := range []string{"https://evil.example.com", "HTTPS://BUILDER.EXAMPLE.COM", ""} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://builder.example.com" {
			t.Fatalf("origin %q: expected default origin, got %q", origin, got)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newCORSServer()
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://builder.example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatal("expected allow-methods header on preflight")
	}
}
