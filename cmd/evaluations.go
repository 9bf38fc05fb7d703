package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/kayz/sift/internal/persist"
	"github.com/kayz/sift/internal/render"
	"github.com/kayz/sift/internal/tools"
	"github.com/spf13/cobra"
)

var (
	evalLimit  int
	evalOffset int
	evalID     int64
)

var evaluationsCmd = &cobra.Command{
	Use:   "evaluations",
	Short: "List recorded evaluations, newest first",
	RunE:  runEvaluations,
}

func init() {
	rootCmd.AddCommand(evaluationsCmd)
	evaluationsCmd.Flags().IntVarP(&evalLimit, "limit", "n", 20, "Number of evaluations to show")
	evaluationsCmd.Flags().IntVar(&evalOffset, "offset", 0, "Skip this many evaluations")
	evaluationsCmd.Flags().Int64Var(&evalID, "id", 0, "Show only the evaluation with this id")
}

func runEvaluations(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if evalID > 0 {
		return showEvaluation(ctx, store, evalID)
	}

	stats, err := store.Statistics(ctx)
	if err != nil {
		return err
	}
	list, err := store.ListEvaluations(ctx, evalLimit, evalOffset)
	if err != nil {
		return err
	}

	header := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Println(header("Statistics"))
	fmt.Print(tools.FormatStatistics(stats))
	fmt.Println()
	fmt.Println(header("Evaluations"))

	if len(list) == 0 {
		fmt.Println("No evaluations found")
		return nil
	}
	for _, e := range list {
		printEvaluation(e)
	}
	return nil
}

func showEvaluation(ctx context.Context, store *persist.Store, id int64) error {
	e, err := store.GetEvaluation(ctx, id)
	if errors.Is(err, persist.ErrNotFound) {
		return fmt.Errorf("evaluation %d not found", id)
	}
	if err != nil {
		return err
	}
	printEvaluation(*e)
	return nil
}

func printEvaluation(e persist.Evaluation) {
	status := color.New(color.FgGreen).Sprint("Correct")
	if !e.IsCorrect {
		status = color.New(color.FgRed).Sprint("Incorrect")
	}
	target := e.ResultTitle
	if target == "" {
		target = e.ResultURL
	}
	fmt.Printf("#%d  %s  %s  %s\n", e.ID, e.CreatedAt.Local().Format(render.TimeLayout), status, e.Query)
	fmt.Printf("    %s | %s | %s\n", e.Mode, e.SearchID, strings.TrimSpace(target))
}
