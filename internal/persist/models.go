package persist

import (
	"time"

	"github.com/kayz/sift/internal/search"
)

// Evaluation is one user judgment on one search result.
type Evaluation struct {
	ID          int64
	SearchID    string
	Query       string
	Mode        search.Mode
	ResultURL   string
	ResultTitle string // empty when the result had no title
	IsCorrect   bool
	CreatedAt   time.Time
}

// ModeStats counts judgments for one mode.
type ModeStats struct {
	Correct   int64 `json:"correct"`
	Incorrect int64 `json:"incorrect"`
}

// Statistics is keyed by mode name and always holds every known mode.
type Statistics map[search.Mode]ModeStats

func newStatistics() Statistics {
	return Statistics{
		search.ModeAgentic: {},
		search.ModeOneShot: {},
	}
}

// scanner interface for both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
