package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestParallelEngineExtract(t *testing.T) {
	var got parallelExtractRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/extract" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "secret" {
			t.Errorf("missing api key header")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{
			"extract_id": "extract_1",
			"results": [
				{"url": "https://a.test", "title": "A", "publish_date": null, "excerpts": ["one"], "full_content": "full"},
				{"url": "https://b.test", "title": null, "excerpts": null}
			],
			"errors": [{"url": "https://c.test", "error_type": "fetch_error", "content": "timeout"}],
			"usage": [{"name": "sku_extract_excerpts", "count": 2}]
		}`))
	}))
	defer srv.Close()

	engine, _ := NewParallelEngine(SearchEngineConfig{Name: "parallel", APIKey: "secret", BaseURL: srv.URL, Enabled: true})
	resp, err := engine.(Extractor).Extract(context.Background(), ExtractRequest{
		URLs:      []string{" https://a.test ", "", "https://b.test"},
		Objective: "pricing",
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if !reflect.DeepEqual(got.URLs, []string{"https://a.test", "https://b.test"}) || got.Objective != "pricing" {
		t.Fatalf("unexpected request %#v", got)
	}
	if !got.Excerpts || !got.FullContent {
		t.Fatalf("excerpts and full content should be requested: %#v", got)
	}
	if resp.ExtractID != "extract_1" || resp.Engine != "parallel" || len(resp.Results) != 2 {
		t.Fatalf("unexpected response %#v", resp)
	}
	if a := resp.Results[0]; a.Title != "A" || a.PublishDate != "" || a.FullContent != "full" {
		t.Fatalf("unexpected first result %#v", a)
	}
	if b := resp.Results[1]; b.Title != "" || b.Excerpts == nil {
		t.Fatalf("missing fields should be empty, got %#v", b)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Message != "timeout" {
		t.Fatalf("unexpected errors %#v", resp.Errors)
	}
	if len(resp.Usage) != 1 || resp.Usage[0].Count != 2 {
		t.Fatalf("unexpected usage %#v", resp.Usage)
	}
}

func TestParallelEngineExtractRequiresURLs(t *testing.T) {
	engine, _ := NewParallelEngine(SearchEngineConfig{Name: "parallel", BaseURL: "http://127.0.0.1:0", Enabled: true})
	if _, err := engine.(Extractor).Extract(context.Background(), ExtractRequest{URLs: []string{" "}}); !errors.Is(err, ErrNoURLs) {
		t.Fatalf("expected ErrNoURLs, got %v", err)
	}
}

func TestManagerExtractNeedsCapableEngine(t *testing.T) {
	m := newTestManager(t, &fakeEngine{name: "plain"})
	if _, err := m.Extract(context.Background(), ExtractRequest{URLs: []string{"https://a.test"}}); !errors.Is(err, ErrNoExtractor) {
		t.Fatalf("expected ErrNoExtractor, got %v", err)
	}
}
