// Package analyze implements the one-shot analysis command.
package analyze

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/siteinsight/cmd/common"
	"github.com/jonesrussell/siteinsight/internal/domain"
)

// commandTimeout bounds one full fetch+model run from the CLI.
const commandTimeout = 2 * time.Minute

// Command returns the analyze cobra command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <url>",
		Short: "Analyze a single website and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0])
		},
	}
}

func run(ctx context.Context, rawURL string) error {
	deps, err := common.NewDeps()
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	result, err := deps.Service.Analyze(runCtx, rawURL)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", rawURL, err)
	}

	render(result)
	return nil
}

// render prints the analysis as a table, criteria in prompt order.
func render(result *domain.AnalysisResult) {
	fmt.Printf("Website: %s\n", result.WebsiteURL)
	fmt.Printf("Analyzed at: %s\n", result.AnalyzedAt.Format(time.RFC3339))
	fmt.Printf("Overall score: %.1f\n\n", result.OverallScore)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Criterion", "Score", "Observations"})

	for _, name := range domain.CriterionNames {
		criterion, ok := result.Criteria[name]
		if !ok {
			continue
		}
		t.AppendRow(table.Row{
			name,
			fmt.Sprintf("%.1f", criterion.Score),
			strings.Join(criterion.Points, "\n"),
		})
		t.AppendSeparator()
	}

	t.Render()
}
