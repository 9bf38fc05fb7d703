package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/kayz/sift/internal/api"
	"github.com/kayz/sift/internal/search"
)

// TimeLayout is how evaluation timestamps are shown.
const TimeLayout = "Jan 2, 2006 3:04 PM"

const statisticsID = "statistics-container"

// Statistics renders the two-mode summary. With oob set the block carries
// hx-swap-oob so it can ride along with another response or a websocket push.
func Statistics(stats api.Statistics, oob bool) string {
	var b strings.Builder
	b.WriteString(`<div id="` + statisticsID + `"`)
	if oob {
		b.WriteString(` hx-swap-oob="true"`)
	}
	b.WriteString(`><div class="statistics-grid">`)
	for _, m := range []struct {
		mode  search.Mode
		label string
	}{
		{search.ModeAgentic, "Agentic"},
		{search.ModeOneShot, "One-Shot"},
	} {
		s := stats[m.mode]
		fmt.Fprintf(&b, `<div class="stat-item"><div class="stat-mode">%s</div><div class="stat-values"><span>Correct: %d</span><span>Incorrect: %d</span></div></div>`,
			m.label, s.Correct, s.Incorrect)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

// Evaluations renders past evaluations in the order given, timestamps in loc.
func Evaluations(evaluations []api.Evaluation, loc *time.Location) string {
	if len(evaluations) == 0 {
		return `<p class="empty-state">No evaluations found</p>`
	}
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	for _, e := range evaluations {
		linkText := api.Deref(e.ResultTitle)
		if linkText == "" {
			linkText = e.ResultURL
		}

		b.WriteString(`<div class="evaluation-item"><div class="evaluation-header"><div>`)
		fmt.Fprintf(&b, `<div class="evaluation-query">%s</div>`, EscapeText(e.Query))
		fmt.Fprintf(&b, `<div class="evaluation-meta">Mode: %s | Search ID: %s | %s</div>`,
			EscapeText(string(e.Mode)), EscapeText(e.SearchID), statusLabel(e.IsCorrect, "Correct", "Incorrect"))
		b.WriteString(`</div>`)
		fmt.Fprintf(&b, `<div class="evaluation-meta">%s</div>`, e.CreatedAt.In(loc).Format(TimeLayout))
		b.WriteString(`</div>`)
		fmt.Fprintf(&b, `<div class="evaluation-result">%s</div>`, link(e.ResultURL, linkText, "evaluation-result-url"))
		b.WriteString(`</div>`)
	}
	return b.String()
}

// EvaluationsError is the inline state shown when the list cannot be loaded.
func EvaluationsError(msg string) string {
	return `<p class="empty-state error">Error loading evaluations: ` + EscapeText(msg) + `</p>`
}
