package testutil

import (
	"net/http"
	"testing"
)

func TestNewRequest(t *testing.T) {
	r := NewRequest(http.MethodPost, "/books", map[string]string{"isbn": "0345391802"})
	if r.Header.Get("Content-Type") != "application/json" {
		t.Errorf("expected JSON content type, got %q", r.Header.Get("Content-Type"))
	}
	if r.ContentLength != int64(len(`{"isbn":"0345391802"}`)) {
		t.Errorf("unexpected content length %d", r.ContentLength)
	}

	r = NewRequest(http.MethodGet, "/books", nil)
	if r.Header.Get("Content-Type") != "" {
		t.Error("expected no content type without a body")
	}
}

func TestRecordHTTPResponse(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"ISBN not found"}}`))
	})

	resp := RecordHTTPResponse(Serve(h, NewRequest(http.MethodGet, "/books/1", nil)))

	AssertResponseCode(t, resp.Code, http.StatusNotFound)
	AssertErrorCode(t, resp, "NOT_FOUND")
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
}
