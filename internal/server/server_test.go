package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/cardpath/cardpath/pkg/graph"
	"github.com/cardpath/cardpath/pkg/queue"
)

func testServer() *Server {
	return &Server{
		Source: graph.StaticSource([]graph.CardRecord{
			{ID: "card_semigroup", Title: "Semigroup"},
			{ID: "card_monoid", Title: "Monoid", Requires: []string{"card_semigroup"}},
			{ID: "card_group", Title: "Group", Requires: []string{"card_monoid"}},
		}),
	}
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(testServer().Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestGraphCheck(t *testing.T) {
	srv := httptest.NewServer(testServer().Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/graph/check")
	if err != nil {
		t.Fatalf("GET /api/graph/check: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var report graph.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if report.Nodes != 3 || report.Edges != 2 {
		t.Errorf("report = %+v, want 3 nodes / 2 edges", report)
	}
	if len(report.Cycles) != 0 {
		t.Errorf("cycles = %v, want none", report.Cycles)
	}
}

func TestQueueEndpoint(t *testing.T) {
	srv := httptest.NewServer(testServer().Router())
	defer srv.Close()

	body := `{"due": ["card_group"]}`
	resp, err := http.Post(srv.URL+"/api/queue", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/queue: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var result queue.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	// No criteria: both prerequisites are weak, deepest first.
	if want := []string{"card_semigroup", "card_monoid"}; !reflect.DeepEqual(result.PrereqQueue, want) {
		t.Errorf("prereq_queue = %v, want %v", result.PrereqQueue, want)
	}
	if want := []string{"card_group"}; !reflect.DeepEqual(result.MainQueue, want) {
		t.Errorf("main_queue = %v, want %v", result.MainQueue, want)
	}
}

func TestQueueEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"empty due", `{"due": []}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"malformed json", `{"due":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"include related unsupported", `{"due": ["card_group"], "include_related": true}`,
			http.StatusUnprocessableEntity, "UNSUPPORTED"},
	}

	srv := httptest.NewServer(testServer().Router())
	defer srv.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/queue", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var body errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decoding error body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestQueueEndpointWithStats(t *testing.T) {
	srv := httptest.NewServer(testServer().Router())
	defer srv.Close()

	// Monoid is strong (high stability), semigroup is weak.
	body := `{
		"due": ["card_group"],
		"criteria": {"min_stability": 10},
		"stats": {
			"card_monoid":    {"stability": 50, "reps": 20, "interval": 90},
			"card_semigroup": {"stability": 2,  "reps": 3,  "interval": 5}
		}
	}`
	resp, err := http.Post(srv.URL+"/api/queue", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	var result queue.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if want := []string{"card_semigroup"}; !reflect.DeepEqual(result.PrereqQueue, want) {
		t.Errorf("prereq_queue = %v, want %v", result.PrereqQueue, want)
	}
	if want := []string{"card_monoid"}; !reflect.DeepEqual(result.SkippedStrong, want) {
		t.Errorf("skipped_strong = %v, want %v", result.SkippedStrong, want)
	}
}
