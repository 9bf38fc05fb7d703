package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestTavilyEngineFansOutAndDedupes(t *testing.T) {
	var (
		mu     sync.Mutex
		depths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		depths = append(depths, body["search_depth"].(string))
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch body["query"] {
		case "first":
			_, _ = w.Write([]byte(`{"results":[{"title":"Shared","url":"https://x.test/shared","content":"s"},{"title":"One","url":"https://x.test/1","content":"c1"}]}`))
		default:
			_, _ = w.Write([]byte(`{"results":[{"title":"Shared again","url":"https://x.test/shared","content":"s"},{"title":"Two","url":"https://x.test/2","content":"","published_date":"2024-05-01"}]}`))
		}
	}))
	defer srv.Close()

	engine, _ := NewTavilyEngine(SearchEngineConfig{Name: "tavily", APIKey: "k", BaseURL: srv.URL, Enabled: true})
	resp, err := engine.Search(context.Background(), Request{
		Objective:  "objective",
		Queries:    []string{"first", "second"},
		Mode:       ModeAgentic,
		MaxResults: 10,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(resp.Results) != 3 {
		t.Fatalf("expected 3 deduplicated results, got %d: %#v", len(resp.Results), resp.Results)
	}
	wantOrder := []string{"https://x.test/shared", "https://x.test/1", "https://x.test/2"}
	for i, u := range wantOrder {
		if resp.Results[i].URL != u {
			t.Fatalf("result %d: got %s want %s", i, resp.Results[i].URL, u)
		}
	}
	if len(resp.Results[2].Excerpts) != 0 || resp.Results[2].Excerpts == nil {
		t.Fatalf("empty content should give an empty excerpt list: %#v", resp.Results[2].Excerpts)
	}
	if resp.Results[2].PublishDate != "2024-05-01" {
		t.Fatalf("publish date not carried: %q", resp.Results[2].PublishDate)
	}
	for _, d := range depths {
		if d != "advanced" {
			t.Fatalf("agentic mode should use advanced depth, got %s", d)
		}
	}
}

func TestTavilyEngineUsesObjectiveWithoutQueries(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		query, _ = body["query"].(string)
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	engine, _ := NewTavilyEngine(SearchEngineConfig{Name: "tavily", BaseURL: srv.URL, Enabled: true})
	resp, err := engine.Search(context.Background(), Request{Objective: "the objective", Mode: ModeOneShot})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if query != "the objective" {
		t.Fatalf("expected objective as query, got %q", query)
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Fatalf("expected empty non-nil results")
	}
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	if got := truncate("héllo", 2); got != "h" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("zero limit should not truncate, got %q", got)
	}
}

func TestTavilyEngineCapsResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[],"pad":"`))
		_, _ = w.Write([]byte(strings.Repeat("x", maxResponseBytes+1024)))
		_, _ = w.Write([]byte(`"}`))
	}))
	defer srv.Close()

	engine, _ := NewTavilyEngine(SearchEngineConfig{Name: "tavily", BaseURL: srv.URL, Enabled: true})
	_, err := engine.Search(context.Background(), Request{Objective: "x", Mode: ModeOneShot})
	if err == nil || !strings.Contains(err.Error(), "failed to parse response") {
		t.Fatalf("oversized body should be cut off, got %v", err)
	}
}
