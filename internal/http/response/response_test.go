package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestErrorShape(t *testing.T) {
	rr := httptest.NewRecorder()
	Error(rr, 400, "brand_id is required")

	if rr.Code != 400 {
		t.Fatalf("status: %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type: %q", got)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "brand_id is required" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestPlainError(t *testing.T) {
	rr := httptest.NewRecorder()
	PlainError(rr, 404, "unknown link")

	if rr.Code != 404 {
		t.Fatalf("status: %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/plain; charset=utf-8" {
		t.Fatalf("content type: %q", got)
	}
	if rr.Body.String() != "unknown link" {
		t.Fatalf("body: %q", rr.Body.String())
	}
}
