package webui

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/kayz/sift/internal/api"
	"github.com/kayz/sift/internal/logger"
	"github.com/kayz/sift/internal/render"
	"github.com/kayz/sift/internal/search"
)

// Fragment handlers always answer 200 so htmx performs the swap. A failed
// action sets HX-Reswap: none, which leaves the target untouched while the
// out-of-band message is still applied.

func (s *Server) handleUISearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeFragment(w, true, render.ErrorMessage("invalid form"))
		return
	}

	objective := strings.TrimSpace(r.PostForm.Get("objective"))
	if objective == "" {
		writeFragment(w, true, render.Message("Please enter a search objective", render.MessageError))
		return
	}
	mode := search.Mode(r.PostForm.Get("mode"))
	if parsed, err := search.ParseMode(string(mode)); err == nil {
		mode = parsed
	}

	resp, err := s.backend.Search(r.Context(), api.SearchRequest{
		Objective:     objective,
		SearchQueries: search.ParseQueries(r.PostForm.Get("search_queries")),
		Mode:          mode,
	})
	if err != nil {
		logger.Warn("[UI] search failed: %v", err)
		writeFragment(w, true, render.ErrorMessage(api.Message(err, api.FallbackSearch)))
		return
	}

	writeFragment(w, false,
		`<h2>Results</h2><div id="results-container">`,
		render.Results(resp.Results, resp.SearchID, objective, mode),
		`</div>`,
		render.Message(render.FoundMessage(len(resp.Results)), render.MessageSuccess),
	)
}

func (s *Server) handleUIFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeFragment(w, true, render.ErrorMessage("invalid form"))
		return
	}

	index, _ := strconv.Atoi(r.PostForm.Get("index"))
	f := render.Feedback{
		Index:       index,
		SearchID:    r.PostForm.Get("search_id"),
		ResultURL:   r.PostForm.Get("result_url"),
		ResultTitle: r.PostForm.Get("result_title"),
		Query:       r.PostForm.Get("query"),
		Mode:        search.Mode(r.PostForm.Get("mode")),
	}

	isCorrect, err := strconv.ParseBool(r.PostForm.Get("is_correct"))
	if err != nil {
		writeFragment(w, false, render.FeedbackGroup(f), render.ErrorMessage("invalid judgment"))
		return
	}

	err = s.backend.Evaluate(r.Context(), api.FeedbackRequest{
		SearchID:    f.SearchID,
		ResultURL:   f.ResultURL,
		ResultTitle: f.ResultTitle,
		IsCorrect:   isCorrect,
		Query:       f.Query,
		Mode:        f.Mode,
	})
	if err != nil {
		logger.Warn("[UI] feedback failed: %v", err)
		writeFragment(w, false, render.FeedbackGroup(f), render.ErrorMessage(api.Message(err, api.FallbackEvaluate)))
		return
	}

	writeFragment(w, false,
		render.FeedbackStatus(isCorrect),
		render.Message("Feedback saved successfully", render.MessageSuccess),
	)
}

func (s *Server) handleUIEvaluations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp, err := s.backend.Evaluations(r.Context(), 0, 0)
	if err != nil {
		logger.Warn("[UI] load evaluations failed: %v", err)
		writeFragment(w, false, render.EvaluationsError(api.Message(err, api.FallbackEvaluations)))
		return
	}

	writeFragment(w, false,
		render.Evaluations(resp.Evaluations, s.opts.Location),
		render.Statistics(resp.Statistics, true),
	)
}

func writeFragment(w http.ResponseWriter, keepTarget bool, parts ...string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if keepTarget {
		w.Header().Set("HX-Reswap", "none")
	}
	w.WriteHeader(http.StatusOK)
	for _, p := range parts {
		_, _ = w.Write([]byte(p))
	}
}
