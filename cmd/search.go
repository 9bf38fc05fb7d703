package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/kayz/sift/internal/search"
	"github.com/spf13/cobra"
)

var (
	searchQueries string
	searchMode    string
	searchEngine  string
	searchTimeout time.Duration
)

var searchCmd = &cobra.Command{
	Use:   "search <objective>",
	Short: "Run one search and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQueries, "queries", "q", "", "Comma separated keyword queries")
	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", string(search.ModeOneShot), "Search mode: one-shot or agentic")
	searchCmd.Flags().StringVar(&searchEngine, "engine", "", "Use only this engine instead of failing over")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 2*time.Minute, "Give up after this long")
}

func runSearch(cmd *cobra.Command, args []string) error {
	mode, err := search.ParseMode(searchMode)
	if err != nil {
		return err
	}

	manager, err := newSearchManager()
	if err != nil {
		return err
	}

	req := search.Request{
		Objective:         strings.Join(args, " "),
		Queries:           search.ParseQueries(searchQueries),
		Mode:              mode,
		MaxResults:        cfg.Search.MaxResults,
		MaxCharsPerResult: cfg.Search.MaxCharsPerResult,
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), searchTimeout)
	defer cancel()

	fmt.Println("Executing search...")
	var resp *search.Response
	if searchEngine != "" {
		resp, err = manager.SearchWithEngine(ctx, searchEngine, req)
	} else {
		resp, err = manager.Search(ctx, req)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printSearchResults(resp)
	return nil
}

func printSearchResults(resp *search.Response) {
	header := color.New(color.FgCyan, color.Bold).SprintFunc()
	label := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	rule := strings.Repeat("=", 80)
	fmt.Println()
	fmt.Println(rule)
	fmt.Println(header("SEARCH RESULTS"))
	fmt.Println(rule)
	fmt.Printf("Search ID: %s\n", resp.SearchID)
	fmt.Printf("Engine: %s (%s, %v)\n", resp.Engine, resp.Mode, resp.Duration.Round(time.Millisecond))
	if len(resp.Queries) > 0 {
		fmt.Printf("Queries: %s\n", strings.Join(resp.Queries, ", "))
	}
	fmt.Printf("\nFound %d result(s):\n", len(resp.Results))
	fmt.Println(strings.Repeat("-", 80))

	for i, r := range resp.Results {
		title := r.Title
		if title == "" {
			title = "N/A"
		}
		date := r.PublishDate
		if date == "" {
			date = "N/A"
		}
		fmt.Printf("\n%s\n", label(fmt.Sprintf("Result %d:", i+1)))
		fmt.Printf("  URL: %s\n", color.BlueString(r.URL))
		fmt.Printf("  Title: %s\n", title)
		fmt.Printf("  Publish Date: %s\n", date)
		if len(r.Excerpts) == 0 || r.Excerpts[0] == "" {
			fmt.Println("  Excerpts: None")
			continue
		}
		fmt.Printf("  Excerpts: %d excerpt(s)\n", len(r.Excerpts))
		fmt.Printf("  Preview: %s\n", faint(preview(r.Excerpts[0], 300)))
	}
}

// preview shortens s to at most n runes, marking the cut with "...".
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
