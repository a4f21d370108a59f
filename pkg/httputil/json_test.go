package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPostJSONRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req["action"] != "version" {
			t.Errorf("action = %v, want version", req["action"])
		}
		json.NewEncoder(w).Encode(map[string]any{"result": 6})
	}))
	defer srv.Close()

	var out struct {
		Result int `json:"result"`
	}
	err := PostJSON(t.Context(), srv.Client(), srv.URL, map[string]any{"action": "version"}, &out)
	if err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if out.Result != 6 {
		t.Errorf("result = %d, want 6", out.Result)
	}
}

func TestPostJSONStatusClassification(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantErr       bool
		wantRetryable bool
	}{
		{"ok", http.StatusOK, false, false},
		{"server error retryable", http.StatusBadGateway, true, true},
		{"rate limit retryable", http.StatusTooManyRequests, true, true},
		{"client error permanent", http.StatusBadRequest, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("{}"))
			}))
			defer srv.Close()

			err := PostJSON(t.Context(), srv.Client(), srv.URL, map[string]any{}, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got := errors.As(err, new(*RetryableError)); got != tt.wantRetryable {
				t.Errorf("retryable = %v, want %v", got, tt.wantRetryable)
			}
		})
	}
}

func TestPostJSONNetworkErrorRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	err := PostJSON(t.Context(), nil, srv.URL, map[string]any{}, nil)
	if err == nil {
		t.Fatal("PostJSON = nil, want network error")
	}
	if !errors.As(err, new(*RetryableError)) {
		t.Errorf("err = %v, want RetryableError", err)
	}
}
