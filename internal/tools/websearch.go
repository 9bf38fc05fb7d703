package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kayz/sift/internal/persist"
	"github.com/kayz/sift/internal/search"
	"github.com/kayz/sift/internal/security"
	"github.com/mark3labs/mcp-go/mcp"
)

func (t *Toolset) WebSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	objective, _ := req.Params.Arguments["objective"].(string)
	objective = strings.TrimSpace(objective)
	if objective == "" {
		return mcp.NewToolResultError("objective is required"), nil
	}

	queries, _ := req.Params.Arguments["search_queries"].(string)
	modeArg, _ := req.Params.Arguments["mode"].(string)
	mode, err := search.ParseMode(modeArg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if t.searcher == nil {
		return mcp.NewToolResultError("search engines not configured. Set PARALLEL_API_KEY or TAVILY_API_KEY."), nil
	}

	resp, err := t.searcher.Search(ctx, search.Request{
		Objective:         objective,
		Queries:           search.ParseQueries(queries),
		Mode:              mode,
		MaxResults:        t.maxResults,
		MaxCharsPerResult: t.maxCharsPerResult,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return mcp.NewToolResultText(FormatSearchResults(resp)), nil
}

// FormatSearchResults renders a response as plain text for agents and the CLI.
func FormatSearchResults(resp *search.Response) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "search_id: %s\nmode: %s\n", resp.SearchID, resp.Mode)
	if resp.Engine != "" {
		fmt.Fprintf(&sb, "engine: %s\n", resp.Engine)
	}
	if len(resp.Results) == 0 {
		sb.WriteString("\nNo results found\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "\nFound %d result(s)\n", len(resp.Results))
	for i, r := range resp.Results {
		title := r.Title
		if title == "" {
			title = "No title"
		}
		date := r.PublishDate
		if date == "" {
			date = "N/A"
		}
		fmt.Fprintf(&sb, "\n%d. %s\n   %s\n   Published: %s\n", i+1, title, r.URL, date)
		for _, excerpt := range r.Excerpts {
			fmt.Fprintf(&sb, "   > %s\n", strings.ReplaceAll(strings.TrimSpace(excerpt), "\n", "\n     "))
		}
	}
	return sb.String()
}

func (t *Toolset) RecordEvaluation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	searchID, _ := args["search_id"].(string)
	resultURL, _ := args["result_url"].(string)
	title, _ := args["result_title"].(string)
	query, _ := args["query"].(string)
	modeArg, _ := args["mode"].(string)
	isCorrect, ok := args["is_correct"].(bool)

	if strings.TrimSpace(searchID) == "" || strings.TrimSpace(resultURL) == "" || strings.TrimSpace(query) == "" || !ok {
		return mcp.NewToolResultError("Missing required fields"), nil
	}
	mode, err := search.ParseMode(modeArg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := security.ValidateResultURL(resultURL); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid result_url: %v", err)), nil
	}

	e := &persist.Evaluation{
		SearchID:    searchID,
		Query:       query,
		Mode:        mode,
		ResultURL:   strings.TrimSpace(resultURL),
		ResultTitle: title,
		IsCorrect:   isCorrect,
	}
	if err := t.store.InsertEvaluation(ctx, e); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save evaluation: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Evaluation saved (id %d)", e.ID)), nil
}

func (t *Toolset) EvaluationStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.store.Statistics(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load statistics: %v", err)), nil
	}
	return mcp.NewToolResultText(FormatStatistics(stats)), nil
}

// FormatStatistics lists both modes with their counts and accuracy.
func FormatStatistics(stats persist.Statistics) string {
	var sb strings.Builder
	for _, m := range []struct {
		mode  search.Mode
		label string
	}{
		{search.ModeAgentic, "Agentic"},
		{search.ModeOneShot, "One-Shot"},
	} {
		s := stats[m.mode]
		fmt.Fprintf(&sb, "%s: correct %d, incorrect %d", m.label, s.Correct, s.Incorrect)
		if total := s.Correct + s.Incorrect; total > 0 {
			fmt.Fprintf(&sb, " (%.0f%% correct)", float64(s.Correct)*100/float64(total))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
