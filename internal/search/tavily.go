package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// TavilyEngine issues one Tavily query per search query and merges the hits.
type TavilyEngine struct {
	name     string
	apiKey   string
	baseURL  string
	enabled  bool
	priority int
	client   *http.Client
}

func NewTavilyEngine(config SearchEngineConfig) (Engine, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}

	return &TavilyEngine{
		name:     config.Name,
		apiKey:   config.APIKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		enabled:  config.Enabled,
		priority: config.Priority,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (e *TavilyEngine) Name() string {
	return e.name
}

func (e *TavilyEngine) Type() string {
	return "tavily"
}

func (e *TavilyEngine) IsEnabled() bool {
	return e.enabled
}

func (e *TavilyEngine) Priority() int {
	return e.priority
}

type tavilyResult struct {
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Content   string  `json:"content"`
	Score     float64 `json:"score"`
	Published string  `json:"published_date,omitempty"`
}

func (e *TavilyEngine) Search(ctx context.Context, req Request) (*Response, error) {
	startTime := time.Now()

	queries := req.Queries
	if len(queries) == 0 {
		queries = []string{req.Objective}
	}
	depth := "basic"
	if req.Mode == ModeAgentic {
		depth = "advanced"
	}

	perQuery := make([][]tavilyResult, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			results, err := e.query(gctx, q, depth, req.MaxResults)
			if err != nil {
				return err
			}
			perQuery[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	results := make([]Result, 0)
	for _, batch := range perQuery {
		for _, r := range batch {
			if r.URL == "" || seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			excerpts := []string{}
			if content := truncate(r.Content, req.MaxCharsPerResult); content != "" {
				excerpts = append(excerpts, content)
			}
			results = append(results, Result{
				Title:       r.Title,
				URL:         r.URL,
				PublishDate: r.Published,
				Excerpts:    excerpts,
				Score:       r.Score,
			})
		}
	}
	if req.MaxResults > 0 && len(results) > req.MaxResults {
		results = results[:req.MaxResults]
	}

	return &Response{
		Objective: req.Objective,
		Queries:   req.Queries,
		Mode:      req.Mode,
		Results:   results,
		Engine:    e.name,
		Duration:  time.Since(startTime),
	}, nil
}

func (e *TavilyEngine) query(ctx context.Context, query, depth string, limit int) ([]tavilyResult, error) {
	requestBody := map[string]interface{}{
		"api_key":        e.apiKey,
		"query":          query,
		"search_depth":   depth,
		"include_answer": false,
		"include_images": false,
	}
	if limit > 0 {
		requestBody["max_results"] = limit
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/search", e.baseURL), bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("User-Agent", "Sift/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		return nil, upstreamError(e.name, resp.StatusCode, body)
	}

	var apiResponse struct {
		Results []tavilyResult `json:"results"`
	}
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return apiResponse.Results, nil
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
