// Package api holds the JSON wire types of the sift backend and a client for it.
package api

import (
	"time"

	"github.com/kayz/sift/internal/search"
)

type SearchRequest struct {
	Objective     string      `json:"objective"`
	SearchQueries []string    `json:"search_queries"`
	Mode          search.Mode `json:"mode"`
}

// SearchResult is one hit. Title and PublishDate are null when the engine
// did not report them.
type SearchResult struct {
	Title       *string  `json:"title"`
	URL         string   `json:"url"`
	PublishDate *string  `json:"publish_date"`
	Excerpts    []string `json:"excerpts"`
}

type SearchResponse struct {
	SearchID string         `json:"search_id"`
	Results  []SearchResult `json:"results"`
}

type FeedbackRequest struct {
	SearchID    string      `json:"search_id"`
	ResultURL   string      `json:"result_url"`
	ResultTitle string      `json:"result_title"`
	IsCorrect   bool        `json:"is_correct"`
	Query       string      `json:"query"`
	Mode        search.Mode `json:"mode"`
}

type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Evaluation struct {
	ID          int64       `json:"id"`
	SearchID    string      `json:"search_id"`
	Query       string      `json:"query"`
	Mode        search.Mode `json:"mode"`
	ResultURL   string      `json:"result_url"`
	ResultTitle *string     `json:"result_title"`
	IsCorrect   bool        `json:"is_correct"`
	CreatedAt   time.Time   `json:"created_at"`
}

type ModeStats struct {
	Correct   int64 `json:"correct"`
	Incorrect int64 `json:"incorrect"`
}

// Statistics is keyed by mode.
type Statistics map[search.Mode]ModeStats

type EvaluationsResponse struct {
	Statistics  Statistics   `json:"statistics"`
	Evaluations []Evaluation `json:"evaluations"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
