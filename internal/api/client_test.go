package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kayz/sift/internal/search"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", srv.Client())
}

func TestClientSearch(t *testing.T) {
	var got SearchRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/search" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"search_id":"s1","results":[{"title":null,"url":"https://a.test","publish_date":"2024-01-01","excerpts":null}]}`))
	})

	resp, err := client.Search(context.Background(), SearchRequest{
		Objective:     "find things",
		SearchQueries: []string{"a", "b"},
		Mode:          search.ModeAgentic,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got.Objective != "find things" || len(got.SearchQueries) != 2 || got.Mode != search.ModeAgentic {
		t.Fatalf("unexpected request body: %#v", got)
	}
	if resp.SearchID != "s1" || len(resp.Results) != 1 {
		t.Fatalf("unexpected response: %#v", resp)
	}
	r := resp.Results[0]
	if r.Title != nil || Deref(r.PublishDate) != "2024-01-01" || r.Excerpts == nil {
		t.Fatalf("unexpected result: %#v", r)
	}
}

func TestClientSearchSendsNullQueries(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"search_id":"s1","results":[]}`))
	})
	if _, err := client.Search(context.Background(), SearchRequest{Objective: "x", Mode: search.ModeOneShot}); err != nil {
		t.Fatalf("search: %v", err)
	}
	if v, ok := body["search_queries"]; !ok || v != nil {
		t.Fatalf("expected search_queries null, got %#v", body)
	}
}

func TestClientErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		fallback string
		want     string
	}{
		{"backend text", http.StatusBadRequest, `{"error":"Objective is required"}`, FallbackSearch, "Objective is required"},
		{"no body", http.StatusInternalServerError, ``, FallbackSearch, "Search failed"},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, FallbackSearch, "Search failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.Search(context.Background(), SearchRequest{Objective: "x"})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Fatalf("status = %d", apiErr.StatusCode)
			}
			if got := Message(err, tt.fallback); got != tt.want {
				t.Fatalf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientEvaluate(t *testing.T) {
	var got FeedbackRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/evaluate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"success":true,"message":"Evaluation saved"}`))
	})
	err := client.Evaluate(context.Background(), FeedbackRequest{
		SearchID: "s1", ResultURL: "https://a.test", IsCorrect: true, Query: "q", Mode: search.ModeOneShot,
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !got.IsCorrect || got.ResultURL != "https://a.test" {
		t.Fatalf("unexpected feedback body: %#v", got)
	}

	failing := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	err = failing.Evaluate(context.Background(), FeedbackRequest{})
	if Message(err, FallbackEvaluate) != "Failed to save evaluation" {
		t.Fatalf("unexpected message for %v", err)
	}
}

func TestClientEvaluations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "5" {
			t.Errorf("expected limit=5, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"statistics":{"agentic":{"correct":1,"incorrect":0},"one-shot":{"correct":0,"incorrect":2}},
			"evaluations":[{"id":1,"search_id":"s","query":"q","mode":"agentic","result_url":"https://a.test","result_title":null,"is_correct":true,"created_at":"2025-03-01T12:00:00Z"}]}`))
	})
	resp, err := client.Evaluations(context.Background(), 5, 0)
	if err != nil {
		t.Fatalf("evaluations: %v", err)
	}
	if resp.Statistics[search.ModeOneShot].Incorrect != 2 {
		t.Fatalf("unexpected statistics: %#v", resp.Statistics)
	}
	if len(resp.Evaluations) != 1 || resp.Evaluations[0].ResultTitle != nil {
		t.Fatalf("unexpected evaluations: %#v", resp.Evaluations)
	}
}

func TestClientValidatesShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		call func(*Client) error
	}{
		{"search without results", `{"search_id":"s"}`, func(c *Client) error {
			_, err := c.Search(context.Background(), SearchRequest{Objective: "x"})
			return err
		}},
		{"result without url", `{"search_id":"s","results":[{"title":"t"}]}`, func(c *Client) error {
			_, err := c.Search(context.Background(), SearchRequest{Objective: "x"})
			return err
		}},
		{"evaluations without statistics", `{"evaluations":[]}`, func(c *Client) error {
			_, err := c.Evaluations(context.Background(), 0, 0)
			return err
		}},
		{"not json", `ok`, func(c *Client) error {
			_, err := c.Evaluations(context.Background(), 0, 0)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			if err := tt.call(client); !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(srv.URL, nil)
	_, err := client.Search(context.Background(), SearchRequest{Objective: "x"})
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if got := Message(err, FallbackSearch); got != "Search failed" {
		t.Fatalf("message = %q", got)
	}
}
