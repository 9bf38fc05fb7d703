package webui

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/kayz/sift/internal/api"
	"github.com/kayz/sift/internal/persist"
	"github.com/kayz/sift/internal/search"
	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/time/rate"
)

// Searcher runs searches for the JSON API.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Response, error)
}

// EvaluationStore records and reports judgments for the JSON API.
type EvaluationStore interface {
	InsertEvaluation(ctx context.Context, e *persist.Evaluation) error
	ListEvaluations(ctx context.Context, limit, offset int) ([]persist.Evaluation, error)
	Statistics(ctx context.Context) (persist.Statistics, error)
}

// Backend is what the page fragments are built from. *api.Client satisfies it.
type Backend interface {
	Search(ctx context.Context, req api.SearchRequest) (*api.SearchResponse, error)
	Evaluate(ctx context.Context, req api.FeedbackRequest) error
	Evaluations(ctx context.Context, limit, offset int) (*api.EvaluationsResponse, error)
}

type Options struct {
	MaxResults        int
	MaxCharsPerResult int
	// RateLimit is searches per second across all clients. Zero disables it.
	RateLimit float64
	RateBurst int
	// Location renders evaluation timestamps. Nil means time.Local.
	Location *time.Location
}

type Server struct {
	searcher  Searcher
	store     EvaluationStore
	backend   Backend
	opts      Options
	limiter   *rate.Limiter
	hub       *Hub
	startedAt time.Time
}

func NewServer(searcher Searcher, store EvaluationStore, backend Backend, opts Options) *Server {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	s := &Server{
		searcher:  searcher,
		store:     store,
		backend:   backend,
		opts:      opts,
		startedAt: time.Now().UTC(),
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	s.hub = NewHub(s.liveSnapshot)
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/evaluations", s.handleEvaluationsPage)
	mux.HandleFunc("/static/style.css", s.handleStyle)

	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/search", s.handleSearch)
	mux.HandleFunc("/api/evaluate", s.handleEvaluate)
	mux.HandleFunc("/api/evaluations", s.handleEvaluations)

	mux.HandleFunc("/ui/search", s.handleUISearch)
	mux.HandleFunc("/ui/feedback", s.handleUIFeedback)
	mux.HandleFunc("/ui/evaluations", s.handleUIEvaluations)
	mux.Handle("/ui/statistics/live", s.hub)
	return mux
}

// Close disconnects live statistics clients.
func (s *Server) Close() {
	s.hub.Close()
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	status := map[string]any{
		"ok":         true,
		"started_at": s.startedAt.Format(time.RFC3339),
		"uptime_sec": int(time.Since(s.startedAt).Seconds()),
		"live_peers": s.hub.Len(),
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			status["rss_bytes"] = mem.RSS
		}
	}
	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.ErrorResponse{Error: msg})
}
