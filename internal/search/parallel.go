package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ParallelEngine talks to the Parallel beta search API, which accepts an
// objective plus optional keyword queries and runs both modes server-side.
type ParallelEngine struct {
	name     string
	apiKey   string
	baseURL  string
	enabled  bool
	priority int
	client   *http.Client
}

func NewParallelEngine(config SearchEngineConfig) (Engine, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.parallel.ai"
	}

	return &ParallelEngine{
		name:     config.Name,
		apiKey:   config.APIKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		enabled:  config.Enabled,
		priority: config.Priority,
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
	}, nil
}

func (e *ParallelEngine) Name() string {
	return e.name
}

func (e *ParallelEngine) Type() string {
	return "parallel"
}

func (e *ParallelEngine) IsEnabled() bool {
	return e.enabled
}

func (e *ParallelEngine) Priority() int {
	return e.priority
}

func (e *ParallelEngine) NativeModes() bool {
	return true
}

type parallelExcerpts struct {
	MaxCharsPerResult int `json:"max_chars_per_result,omitempty"`
}

type parallelRequest struct {
	Objective     string            `json:"objective"`
	SearchQueries []string          `json:"search_queries,omitempty"`
	Mode          Mode              `json:"mode,omitempty"`
	MaxResults    int               `json:"max_results,omitempty"`
	Excerpts      *parallelExcerpts `json:"excerpts,omitempty"`
}

type parallelResponse struct {
	SearchID string `json:"search_id"`
	Results  []struct {
		URL         string   `json:"url"`
		Title       *string  `json:"title"`
		PublishDate *string  `json:"publish_date"`
		Excerpts    []string `json:"excerpts"`
	} `json:"results"`
}

func (e *ParallelEngine) Search(ctx context.Context, req Request) (*Response, error) {
	startTime := time.Now()

	body := parallelRequest{
		Objective:     req.Objective,
		SearchQueries: req.Queries,
		Mode:          req.Mode,
		MaxResults:    req.MaxResults,
	}
	if req.MaxCharsPerResult > 0 {
		body.Excerpts = &parallelExcerpts{MaxCharsPerResult: req.MaxCharsPerResult}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	respBody, err := e.post(ctx, "/v1beta/search", jsonBody)
	if err != nil {
		return nil, err
	}

	var apiResponse parallelResponse
	if err := json.Unmarshal(respBody, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	results := make([]Result, 0, len(apiResponse.Results))
	for _, r := range apiResponse.Results {
		if r.URL == "" {
			continue
		}
		result := Result{URL: r.URL, Excerpts: r.Excerpts}
		if r.Title != nil {
			result.Title = *r.Title
		}
		if r.PublishDate != nil {
			result.PublishDate = *r.PublishDate
		}
		if result.Excerpts == nil {
			result.Excerpts = []string{}
		}
		results = append(results, result)
	}

	return &Response{
		SearchID:  apiResponse.SearchID,
		Objective: req.Objective,
		Queries:   req.Queries,
		Mode:      req.Mode,
		Results:   results,
		Engine:    e.name,
		Duration:  time.Since(startTime),
	}, nil
}

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 8 << 20

// upstreamError extracts a readable message from a failed provider response.
func upstreamError(engine string, status int, body []byte) error {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Detail  string          `json:"detail"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		var nested struct {
			Message string `json:"message"`
		}
		var flat string
		switch {
		case json.Unmarshal(payload.Error, &flat) == nil && flat != "":
			msg = flat
		case json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "":
			msg = nested.Message
		case payload.Message != "":
			msg = payload.Message
		case payload.Detail != "":
			msg = payload.Detail
		}
	}
	if msg == "" {
		msg = truncate(string(body), 200)
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Errorf("%s: status %d: %s", engine, status, msg)
}
