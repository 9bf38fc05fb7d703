package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kayz/sift/internal/logger"
)

var (
	ErrNoURLs      = errors.New("at least one URL is required")
	ErrNoExtractor = errors.New("no configured engine supports extraction")
)

// Extractor is implemented by engines that can pull page content for known URLs.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) (*ExtractResponse, error)
}

type ExtractRequest struct {
	URLs      []string
	Objective string
}

type ExtractResult struct {
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	PublishDate string   `json:"publish_date,omitempty"`
	Excerpts    []string `json:"excerpts"`
	FullContent string   `json:"full_content,omitempty"`
}

// ExtractError reports a URL the provider could not fetch.
type ExtractError struct {
	URL     string `json:"url"`
	Type    string `json:"error_type,omitempty"`
	Message string `json:"content,omitempty"`
}

type Usage struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ExtractResponse struct {
	ExtractID string          `json:"extract_id"`
	Results   []ExtractResult `json:"results"`
	Errors    []ExtractError  `json:"errors,omitempty"`
	Usage     []Usage         `json:"usage,omitempty"`
	Engine    string          `json:"engine"`
	Duration  time.Duration   `json:"duration"`
}

type parallelExtractRequest struct {
	URLs        []string `json:"urls"`
	Objective   string   `json:"objective,omitempty"`
	Excerpts    bool     `json:"excerpts"`
	FullContent bool     `json:"full_content"`
}

type parallelExtractResponse struct {
	ExtractID string `json:"extract_id"`
	Results   []struct {
		URL         string   `json:"url"`
		Title       *string  `json:"title"`
		PublishDate *string  `json:"publish_date"`
		Excerpts    []string `json:"excerpts"`
		FullContent *string  `json:"full_content"`
	} `json:"results"`
	Errors []ExtractError `json:"errors"`
	Usage  []Usage        `json:"usage"`
}

// Extract fetches excerpts and full content for req.URLs.
func (e *ParallelEngine) Extract(ctx context.Context, req ExtractRequest) (*ExtractResponse, error) {
	urls := CleanQueries(req.URLs)
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}
	startTime := time.Now()

	jsonBody, err := json.Marshal(parallelExtractRequest{
		URLs:        urls,
		Objective:   req.Objective,
		Excerpts:    true,
		FullContent: true,
	})
	if err != nil {
		return nil, err
	}

	respBody, err := e.post(ctx, "/v1beta/extract", jsonBody)
	if err != nil {
		return nil, err
	}

	var apiResponse parallelExtractResponse
	if err := json.Unmarshal(respBody, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	out := &ExtractResponse{
		ExtractID: apiResponse.ExtractID,
		Results:   make([]ExtractResult, 0, len(apiResponse.Results)),
		Errors:    apiResponse.Errors,
		Usage:     apiResponse.Usage,
		Engine:    e.name,
		Duration:  time.Since(startTime),
	}
	for _, r := range apiResponse.Results {
		result := ExtractResult{URL: r.URL, Excerpts: r.Excerpts}
		if r.Title != nil {
			result.Title = *r.Title
		}
		if r.PublishDate != nil {
			result.PublishDate = *r.PublishDate
		}
		if r.FullContent != nil {
			result.FullContent = *r.FullContent
		}
		if result.Excerpts == nil {
			result.Excerpts = []string{}
		}
		out.Results = append(out.Results, result)
	}
	return out, nil
}

// post sends a beta API request and returns the body of a 2xx response.
func (e *ParallelEngine) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", e.apiKey)
	httpReq.Header.Set("parallel-beta", "search-extract-2025-10-10")
	httpReq.Header.Set("User-Agent", "Sift/1.0")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		return nil, upstreamError(e.name, resp.StatusCode, respBody)
	}
	return respBody, nil
}

// Extract runs req on the highest ranked engine that supports extraction.
func (m *Manager) Extract(ctx context.Context, req ExtractRequest) (*ExtractResponse, error) {
	for _, engine := range m.ordered() {
		if x, ok := engine.(Extractor); ok {
			logger.Debug("[Search] extracting %d url(s) with %s", len(req.URLs), engine.Name())
			return x.Extract(ctx, req)
		}
	}
	return nil, ErrNoExtractor
}
