package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to a sift backend over HTTP. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL. A nil httpClient gets a default
// one with a timeout long enough for agentic searches.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var raw struct {
		SearchID string          `json:"search_id"`
		Results  *[]SearchResult `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/search", req, &raw, FallbackSearch); err != nil {
		return nil, err
	}
	if raw.Results == nil {
		return nil, fmt.Errorf("search: results missing: %w", ErrMalformedResponse)
	}
	for i, r := range *raw.Results {
		if r.URL == "" {
			return nil, fmt.Errorf("search: result %d has no url: %w", i, ErrMalformedResponse)
		}
		if r.Excerpts == nil {
			(*raw.Results)[i].Excerpts = []string{}
		}
	}
	return &SearchResponse{SearchID: raw.SearchID, Results: *raw.Results}, nil
}

func (c *Client) Evaluate(ctx context.Context, req FeedbackRequest) error {
	var resp FeedbackResponse
	return c.do(ctx, http.MethodPost, "/api/evaluate", req, &resp, FallbackEvaluate)
}

func (c *Client) Evaluations(ctx context.Context, limit, offset int) (*EvaluationsResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/api/evaluations"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var raw struct {
		Statistics  Statistics    `json:"statistics"`
		Evaluations *[]Evaluation `json:"evaluations"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &raw, FallbackEvaluations); err != nil {
		return nil, err
	}
	if raw.Statistics == nil {
		return nil, fmt.Errorf("evaluations: statistics missing: %w", ErrMalformedResponse)
	}
	resp := &EvaluationsResponse{Statistics: raw.Statistics, Evaluations: []Evaluation{}}
	if raw.Evaluations != nil {
		resp.Evaluations = *raw.Evaluations
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, fallback string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode/100 != 2 {
		var e ErrorResponse
		_ = json.Unmarshal(data, &e)
		msg := strings.TrimSpace(e.Error)
		if msg == "" {
			msg = fallback
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", path, ErrMalformedResponse)
	}
	return nil
}
