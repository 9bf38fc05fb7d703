package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kayz/sift/internal/api"
	"github.com/kayz/sift/internal/search"
)

const (
	noTitle  = "No title"
	noDate   = "N/A"
	noResult = `<p class="empty-state">No results found</p>`
)

// Feedback identifies the result a feedback group judges.
type Feedback struct {
	Index       int
	SearchID    string
	ResultURL   string
	ResultTitle string
	Query       string
	Mode        search.Mode
}

// Results renders one card per result in order, or the empty state.
func Results(results []api.SearchResult, searchID, query string, mode search.Mode) string {
	if len(results) == 0 {
		return noResult
	}

	var b strings.Builder
	for i, r := range results {
		title := api.Deref(r.Title)
		if title == "" {
			title = noTitle
		}
		date := api.Deref(r.PublishDate)
		if date == "" {
			date = noDate
		}

		fmt.Fprintf(&b, `<div class="result-card" id="result-%d">`, i)
		b.WriteString(`<div class="result-header"><div>`)
		fmt.Fprintf(&b, `<div class="result-title">%s</div>`, link(r.URL, title, ""))
		fmt.Fprintf(&b, `<div class="result-url">%s</div>`, EscapeText(r.URL))
		fmt.Fprintf(&b, `<div class="result-meta">Published: %s</div>`, EscapeText(date))
		b.WriteString(`</div></div>`)

		if len(r.Excerpts) > 0 {
			b.WriteString(`<div class="result-excerpts">`)
			for _, excerpt := range r.Excerpts {
				fmt.Fprintf(&b, `<div class="excerpt">%s</div>`, EscapeText(excerpt))
			}
			b.WriteString(`</div>`)
		}

		b.WriteString(FeedbackGroup(Feedback{
			Index:       i,
			SearchID:    searchID,
			ResultURL:   r.URL,
			ResultTitle: api.Deref(r.Title),
			Query:       query,
			Mode:        mode,
		}))
		b.WriteString(`</div>`)
	}
	return b.String()
}

// FeedbackGroup renders the two judgment buttons for one card. htmx disables
// the fieldset while the request is in flight and re-enables it afterwards.
func FeedbackGroup(f Feedback) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<form class="feedback-buttons" id="feedback-%d" hx-post="/ui/feedback" hx-swap="outerHTML" hx-disabled-elt="find fieldset">`, f.Index)
	hidden := [][2]string{
		{"index", strconv.Itoa(f.Index)},
		{"search_id", f.SearchID},
		{"result_url", f.ResultURL},
		{"result_title", f.ResultTitle},
		{"query", f.Query},
		{"mode", string(f.Mode)},
	}
	for _, h := range hidden {
		fmt.Fprintf(&b, `<input type="hidden" name="%s" value="%s">`, h[0], EscapeAttr(h[1]))
	}
	b.WriteString(`<fieldset>`)
	b.WriteString(`<button type="submit" class="feedback-btn correct" name="is_correct" value="true">✓ Correct</button>`)
	b.WriteString(`<button type="submit" class="feedback-btn incorrect" name="is_correct" value="false">✗ Incorrect</button>`)
	b.WriteString(`</fieldset></form>`)
	return b.String()
}

// FeedbackStatus replaces a feedback group once the judgment is saved.
func FeedbackStatus(isCorrect bool) string {
	return `<div class="feedback-buttons">` + statusLabel(isCorrect, "Marked as Correct", "Marked as Incorrect") + `</div>`
}

func statusLabel(isCorrect bool, correct, incorrect string) string {
	if isCorrect {
		return `<span class="feedback-status correct">` + correct + `</span>`
	}
	return `<span class="feedback-status incorrect">` + incorrect + `</span>`
}

// FoundMessage is the count shown after a successful search.
func FoundMessage(n int) string {
	return fmt.Sprintf("Found %d result(s)", n)
}
