package webui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kayz/sift/internal/api"
	"github.com/kayz/sift/internal/persist"
	"github.com/kayz/sift/internal/search"
)

type fakeSearcher struct {
	got  search.Request
	resp *search.Response
	err  error
}

func (f *fakeSearcher) Search(_ context.Context, req search.Request) (*search.Response, error) {
	f.got = req
	return f.resp, f.err
}

type fakeStore struct {
	mu          sync.Mutex
	evaluations []persist.Evaluation
	err         error
}

func (f *fakeStore) InsertEvaluation(_ context.Context, e *persist.Evaluation) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = int64(len(f.evaluations) + 1)
	e.CreatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	f.evaluations = append([]persist.Evaluation{*e}, f.evaluations...)
	return nil
}

func (f *fakeStore) ListEvaluations(_ context.Context, limit, offset int) ([]persist.Evaluation, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]persist.Evaluation{}, f.evaluations...), nil
}

func (f *fakeStore) Statistics(context.Context) (persist.Statistics, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := persist.Statistics{}
	for _, e := range f.evaluations {
		s := stats[e.Mode]
		if e.IsCorrect {
			s.Correct++
		} else {
			s.Incorrect++
		}
		stats[e.Mode] = s
	}
	return stats, nil
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var data []byte
	if body != nil {
		data, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var e api.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return e.Error
}

func TestStatusEndpoint(t *testing.T) {
	server := NewServer(nil, nil, nil, Options{})
	rr := do(t, server.Handler(), http.MethodGet, "/api/status", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "\"ok\":true") {
		t.Fatalf("unexpected status payload: %s", rr.Body.String())
	}
}

func TestSearchEndpoint(t *testing.T) {
	searcher := &fakeSearcher{resp: &search.Response{
		SearchID: "search_1",
		Results: []search.Result{
			{Title: "A", URL: "https://a.test", Excerpts: []string{"x"}},
			{URL: "https://b.test", PublishDate: "2024-01-01"},
		},
	}}
	server := NewServer(searcher, nil, nil, Options{MaxResults: 7, MaxCharsPerResult: 100})

	rr := do(t, server.Handler(), http.MethodPost, "/api/search", map[string]any{
		"objective":      "  find  ",
		"search_queries": []string{"a"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if searcher.got.Objective != "find" || searcher.got.Mode != search.ModeOneShot || searcher.got.MaxResults != 7 {
		t.Fatalf("unexpected search request: %#v", searcher.got)
	}

	var resp api.SearchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SearchID != "search_1" || len(resp.Results) != 2 {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if resp.Results[1].Title != nil || api.Deref(resp.Results[1].PublishDate) != "2024-01-01" {
		t.Fatalf("unexpected second result: %#v", resp.Results[1])
	}
	if !strings.Contains(rr.Body.String(), `"excerpts":[]`) {
		t.Fatalf("missing excerpts should encode as an empty list: %s", rr.Body.String())
	}
}

func TestSearchEndpointValidation(t *testing.T) {
	server := NewServer(&fakeSearcher{}, nil, nil, Options{})
	h := server.Handler()

	rr := do(t, h, http.MethodPost, "/api/search", map[string]any{"objective": " "})
	if rr.Code != http.StatusBadRequest || decodeError(t, rr) != "Objective is required" {
		t.Fatalf("unexpected response %d %s", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodPost, "/api/search", map[string]any{"objective": "x", "mode": "deep"})
	if rr.Code != http.StatusBadRequest || decodeError(t, rr) != "Mode must be 'one-shot' or 'agentic'" {
		t.Fatalf("unexpected response %d %s", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, "/api/search", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestSearchEndpointFailure(t *testing.T) {
	server := NewServer(&fakeSearcher{err: errors.New("upstream down")}, nil, nil, Options{})
	rr := do(t, server.Handler(), http.MethodPost, "/api/search", map[string]any{"objective": "x"})
	if rr.Code != http.StatusInternalServerError || decodeError(t, rr) != "upstream down" {
		t.Fatalf("unexpected response %d %s", rr.Code, rr.Body.String())
	}
}

func TestSearchEndpointRateLimited(t *testing.T) {
	searcher := &fakeSearcher{resp: &search.Response{SearchID: "s"}}
	server := NewServer(searcher, nil, nil, Options{RateLimit: 0.001, RateBurst: 1})
	h := server.Handler()

	if rr := do(t, h, http.MethodPost, "/api/search", map[string]any{"objective": "x"}); rr.Code != http.StatusOK {
		t.Fatalf("first search should pass, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPost, "/api/search", map[string]any{"objective": "x"}); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second search should be limited, got %d", rr.Code)
	}
}

func TestEvaluateEndpoint(t *testing.T) {
	store := &fakeStore{}
	server := NewServer(nil, store, nil, Options{})
	h := server.Handler()

	rr := do(t, h, http.MethodPost, "/api/evaluate", map[string]any{
		"search_id":  "s1",
		"result_url": "https://a.test",
		"is_correct": false,
		"query":      "q",
		"mode":       "agentic",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp api.FeedbackResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if !resp.Success || resp.Message != "Evaluation saved" {
		t.Fatalf("unexpected response: %s", rr.Body.String())
	}
	if len(store.evaluations) != 1 || store.evaluations[0].IsCorrect || store.evaluations[0].Mode != search.ModeAgentic {
		t.Fatalf("unexpected stored evaluations: %#v", store.evaluations)
	}
}

func TestEvaluateEndpointValidation(t *testing.T) {
	store := &fakeStore{}
	h := NewServer(nil, store, nil, Options{}).Handler()

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"missing is_correct", map[string]any{"search_id": "s", "result_url": "https://a.test", "query": "q"}, "Missing required fields"},
		{"missing query", map[string]any{"search_id": "s", "result_url": "https://a.test", "is_correct": true}, "Missing required fields"},
		{"bad mode", map[string]any{"search_id": "s", "result_url": "https://a.test", "is_correct": true, "query": "q", "mode": "x"}, "Mode must be 'one-shot' or 'agentic'"},
		{"bad url", map[string]any{"search_id": "s", "result_url": "javascript:alert(1)", "is_correct": true, "query": "q"}, "Invalid result_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/api/evaluate", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			if got := decodeError(t, rr); !strings.HasPrefix(got, tt.want) {
				t.Fatalf("error = %q, want prefix %q", got, tt.want)
			}
		})
	}
	if len(store.evaluations) != 0 {
		t.Fatalf("invalid requests should not be stored")
	}
}

func TestEvaluationsEndpoint(t *testing.T) {
	store := &fakeStore{evaluations: []persist.Evaluation{
		{ID: 1, SearchID: "s", Query: "q", Mode: search.ModeOneShot, ResultURL: "https://a.test", IsCorrect: true},
	}}
	h := NewServer(nil, store, nil, Options{}).Handler()

	rr := do(t, h, http.MethodGet, "/api/evaluations?limit=abc&offset=-3", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp api.EvaluationsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Statistics) != 2 {
		t.Fatalf("both modes should be reported: %#v", resp.Statistics)
	}
	if resp.Statistics[search.ModeOneShot].Correct != 1 {
		t.Fatalf("unexpected statistics: %#v", resp.Statistics)
	}
	if len(resp.Evaluations) != 1 || resp.Evaluations[0].ResultTitle != nil {
		t.Fatalf("unexpected evaluations: %#v", resp.Evaluations)
	}
	if !strings.Contains(rr.Body.String(), `"result_title":null`) {
		t.Fatalf("absent title should encode as null: %s", rr.Body.String())
	}

	store.err = errors.New("disk gone")
	rr = do(t, h, http.MethodGet, "/api/evaluations", nil)
	if rr.Code != http.StatusInternalServerError || decodeError(t, rr) != "disk gone" {
		t.Fatalf("unexpected failure response %d %s", rr.Code, rr.Body.String())
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=25&offset=x", nil)
	if got := queryInt(req, "limit", 100); got != 25 {
		t.Fatalf("limit = %d", got)
	}
	if got := queryInt(req, "offset", 0); got != 0 {
		t.Fatalf("offset = %d", got)
	}
	if got := queryInt(req, "missing", 9); got != 9 {
		t.Fatalf("missing = %d", got)
	}
}

func TestPages(t *testing.T) {
	h := NewServer(nil, nil, nil, Options{}).Handler()

	rr := do(t, h, http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `hx-post="/ui/search"`) {
		t.Fatalf("unexpected index page %d", rr.Code)
	}
	rr = do(t, h, http.MethodGet, "/evaluations", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `hx-get="/ui/evaluations"`) {
		t.Fatalf("unexpected evaluations page %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/nope", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestLiveStatisticsBroadcast(t *testing.T) {
	store := &fakeStore{}
	server := NewServer(nil, store, nil, Options{})
	defer server.Close()
	srv := httptest.NewServer(server.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ui/statistics/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	_, first, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if !strings.Contains(string(first), `id="statistics-container" hx-swap-oob="true"`) {
		t.Fatalf("unexpected snapshot: %s", first)
	}

	body, _ := json.Marshal(map[string]any{
		"search_id": "s", "result_url": "https://a.test", "is_correct": true, "query": "q", "mode": "agentic",
	})
	resp, err := http.Post(srv.URL+"/api/evaluate", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	resp.Body.Close()

	_, pushed, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read push: %v", err)
	}
	if !strings.Contains(string(pushed), "<span>Correct: 1</span>") {
		t.Fatalf("push should carry updated statistics: %s", pushed)
	}
}
