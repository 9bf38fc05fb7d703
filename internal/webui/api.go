package webui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kayz/sift/internal/api"
	"github.com/kayz/sift/internal/logger"
	"github.com/kayz/sift/internal/persist"
	"github.com/kayz/sift/internal/render"
	"github.com/kayz/sift/internal/search"
	"github.com/kayz/sift/internal/security"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.searcher == nil {
		writeError(w, http.StatusServiceUnavailable, "search is not configured")
		return
	}
	if s.limiter != nil && !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "Too many searches, try again shortly")
		return
	}

	var req api.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	objective := strings.TrimSpace(req.Objective)
	if objective == "" {
		writeError(w, http.StatusBadRequest, "Objective is required")
		return
	}
	mode, err := search.ParseMode(string(req.Mode))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mode must be 'one-shot' or 'agentic'")
		return
	}

	resp, err := s.searcher.Search(r.Context(), search.Request{
		Objective:         objective,
		Queries:           req.SearchQueries,
		Mode:              mode,
		MaxResults:        s.opts.MaxResults,
		MaxCharsPerResult: s.opts.MaxCharsPerResult,
	})
	if err != nil {
		logger.Error("[API] search %q failed: %v", objective, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	results := make([]api.SearchResult, 0, len(resp.Results))
	for _, res := range resp.Results {
		excerpts := res.Excerpts
		if excerpts == nil {
			excerpts = []string{}
		}
		results = append(results, api.SearchResult{
			Title:       api.StringPtr(res.Title),
			URL:         res.URL,
			PublishDate: api.StringPtr(res.PublishDate),
			Excerpts:    excerpts,
		})
	}
	writeJSON(w, http.StatusOK, api.SearchResponse{SearchID: resp.SearchID, Results: results})
}

type evaluateRequest struct {
	SearchID    string      `json:"search_id"`
	ResultURL   string      `json:"result_url"`
	ResultTitle *string     `json:"result_title"`
	IsCorrect   *bool       `json:"is_correct"`
	Query       string      `json:"query"`
	Mode        search.Mode `json:"mode"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}

	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.SearchID) == "" || strings.TrimSpace(req.ResultURL) == "" ||
		req.IsCorrect == nil || strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	mode, err := search.ParseMode(string(req.Mode))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mode must be 'one-shot' or 'agentic'")
		return
	}
	if err := security.ValidateResultURL(req.ResultURL); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid result_url: "+err.Error())
		return
	}

	evaluation := &persist.Evaluation{
		SearchID:    req.SearchID,
		Query:       req.Query,
		Mode:        mode,
		ResultURL:   strings.TrimSpace(req.ResultURL),
		ResultTitle: api.Deref(req.ResultTitle),
		IsCorrect:   *req.IsCorrect,
	}
	if err := s.store.InsertEvaluation(r.Context(), evaluation); err != nil {
		if errors.Is(err, persist.ErrMissingField) {
			writeError(w, http.StatusBadRequest, "Missing required fields")
			return
		}
		logger.Error("[API] save evaluation failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logger.Debug("[API] evaluation %d saved for %s", evaluation.ID, evaluation.ResultURL)

	s.broadcastStatistics()
	writeJSON(w, http.StatusOK, api.FeedbackResponse{Success: true, Message: "Evaluation saved"})
}

func (s *Server) handleEvaluations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}

	limit := queryInt(r, "limit", defaultListLimit)
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	list, err := s.store.ListEvaluations(r.Context(), limit, offset)
	if err != nil {
		logger.Error("[API] list evaluations failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	stats, err := s.store.Statistics(r.Context())
	if err != nil {
		logger.Error("[API] statistics failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	evaluations := make([]api.Evaluation, 0, len(list))
	for _, e := range list {
		evaluations = append(evaluations, api.Evaluation{
			ID:          e.ID,
			SearchID:    e.SearchID,
			Query:       e.Query,
			Mode:        e.Mode,
			ResultURL:   e.ResultURL,
			ResultTitle: api.StringPtr(e.ResultTitle),
			IsCorrect:   e.IsCorrect,
			CreatedAt:   e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, api.EvaluationsResponse{
		Statistics:  toAPIStatistics(stats),
		Evaluations: evaluations,
	})
}

// queryInt reads an integer query parameter, returning def when it is
// absent or malformed.
func queryInt(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func toAPIStatistics(stats persist.Statistics) api.Statistics {
	out := api.Statistics{
		search.ModeAgentic: {},
		search.ModeOneShot: {},
	}
	for mode, s := range stats {
		out[mode] = api.ModeStats{Correct: s.Correct, Incorrect: s.Incorrect}
	}
	return out
}

// liveSnapshot renders the current statistics for a newly connected page.
func (s *Server) liveSnapshot() []byte {
	if s.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stats, err := s.store.Statistics(ctx)
	if err != nil {
		logger.Warn("[Live] statistics unavailable: %v", err)
		return nil
	}
	return []byte(render.Statistics(toAPIStatistics(stats), true))
}

func (s *Server) broadcastStatistics() {
	if s.hub.Len() == 0 {
		return
	}
	if msg := s.liveSnapshot(); msg != nil {
		s.hub.Broadcast(msg)
	}
}
