package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/kayz/sift/internal/search"
	"github.com/kayz/sift/internal/security"
	"github.com/spf13/cobra"
)

var (
	extractObjective string
	extractTimeout   time.Duration
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>...",
	Short: "Extract page content for one or more URLs",
	Long:  "URLs may be given as separate arguments or comma separated.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractObjective, "objective", "o", "", "What to focus the excerpts on")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 2*time.Minute, "Give up after this long")
}

func runExtract(cmd *cobra.Command, args []string) error {
	urls, err := extractURLs(args)
	if err != nil {
		return err
	}

	manager, err := newSearchManager()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), extractTimeout)
	defer cancel()

	fmt.Println("Extracting content...")
	resp, err := manager.Extract(ctx, search.ExtractRequest{
		URLs:      urls,
		Objective: strings.TrimSpace(extractObjective),
	})
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	printExtractResults(resp)
	return nil
}

// extractURLs flattens comma separated arguments and rejects anything that
// is not an absolute http(s) URL.
func extractURLs(args []string) ([]string, error) {
	urls := search.ParseQueries(strings.Join(args, ","))
	if len(urls) == 0 {
		return nil, search.ErrNoURLs
	}
	for _, u := range urls {
		if err := security.ValidateResultURL(u); err != nil {
			return nil, fmt.Errorf("%s: %w", u, err)
		}
	}
	return urls, nil
}

func printExtractResults(resp *search.ExtractResponse) {
	header := color.New(color.FgCyan, color.Bold).SprintFunc()
	label := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	rule := strings.Repeat("=", 80)
	fmt.Println()
	fmt.Println(rule)
	fmt.Println(header("EXTRACTED CONTENT"))
	fmt.Println(rule)
	fmt.Printf("Extract ID: %s\n", resp.ExtractID)
	fmt.Printf("Engine: %s (%v)\n", resp.Engine, resp.Duration.Round(time.Millisecond))
	fmt.Printf("Extracted %d URL(s):\n", len(resp.Results))
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
		if len(r.Excerpts) > 0 && r.Excerpts[0] != "" {
			fmt.Printf("  Excerpts: %d excerpt(s)\n", len(r.Excerpts))
			fmt.Printf("  Preview: %s\n", faint(preview(r.Excerpts[0], 300)))
		}
		if r.FullContent != "" {
			fmt.Printf("  Full Content Preview: %s\n", faint(preview(r.FullContent, 500)))
		}
	}

	for _, e := range resp.Errors {
		fmt.Printf("\n%s %s: %s %s\n", color.RedString("Failed"), e.URL, e.Type, e.Message)
	}

	if len(resp.Usage) > 0 {
		fmt.Println()
		fmt.Println(strings.Repeat("-", 80))
		fmt.Println("Usage:")
		for _, u := range resp.Usage {
			fmt.Printf("  %s: %d\n", u.Name, u.Count)
		}
	}
}
