// Package tools exposes search and evaluation as MCP tools.
package tools

import (
	"context"

	"github.com/kayz/sift/internal/persist"
	"github.com/kayz/sift/internal/search"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ServerName    = "sift"
	ServerVersion = "0.3.0"
)

type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Response, error)
}

type EvaluationStore interface {
	InsertEvaluation(ctx context.Context, e *persist.Evaluation) error
	Statistics(ctx context.Context) (persist.Statistics, error)
}

// Toolset binds the tool handlers to a searcher and a store.
type Toolset struct {
	searcher          Searcher
	store             EvaluationStore
	maxResults        int
	maxCharsPerResult int
}

func New(searcher Searcher, store EvaluationStore, maxResults, maxCharsPerResult int) *Toolset {
	return &Toolset{
		searcher:          searcher,
		store:             store,
		maxResults:        maxResults,
		maxCharsPerResult: maxCharsPerResult,
	}
}

// NewServer returns an MCP server with every tool registered.
func (t *Toolset) NewServer() *server.MCPServer {
	s := server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("web_search",
		mcp.WithDescription("Search the web for an objective and return ranked results with excerpts. The search_id in the output is needed to record evaluations."),
		mcp.WithString("objective", mcp.Required(), mcp.Description("What the search should find")),
		mcp.WithString("search_queries", mcp.Description("Optional comma separated keyword queries")),
		mcp.WithString("mode", mcp.Description("one-shot (default) or agentic"), mcp.Enum(string(search.ModeOneShot), string(search.ModeAgentic))),
	), t.WebSearch)

	s.AddTool(mcp.NewTool("record_evaluation",
		mcp.WithDescription("Record whether a search result was correct for its query"),
		mcp.WithString("search_id", mcp.Required(), mcp.Description("search_id returned by web_search")),
		mcp.WithString("result_url", mcp.Required(), mcp.Description("URL of the judged result")),
		mcp.WithString("result_title", mcp.Description("Title of the judged result")),
		mcp.WithBoolean("is_correct", mcp.Required(), mcp.Description("true when the result answers the query")),
		mcp.WithString("query", mcp.Required(), mcp.Description("The objective that was searched")),
		mcp.WithString("mode", mcp.Description("one-shot (default) or agentic")),
	), t.RecordEvaluation)

	s.AddTool(mcp.NewTool("evaluation_stats",
		mcp.WithDescription("Show correct and incorrect counts per search mode"),
	), t.EvaluationStats)

	return s
}
