package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/lhdiff/lhdiff/internal/adapters/outbound/config"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/gitinfo"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/markdown"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/report"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/resolver"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/tui"
	"github.com/lhdiff/lhdiff/internal/application"
	"github.com/lhdiff/lhdiff/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newRunCmd builds `compare` (detailed mode) or `matrix`.
func newRunCmd(a *app, mode domain.Mode) *cobra.Command {
	var (
		planPath       string
		jsonOutput     bool
		mdOutput       bool
		ciMode         bool
		minAvg         float64
		noHistory      bool
		concurrency    int
		oldDir         string
		newDir         string
		incompleteRule string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare explicit before/after report pairs page by page",
		Long: "Load each pair's old and new report, print per-metric differences for every page, " +
			"page statistics, a performance analysis and the overall verdict.",
		Args: cobra.NoArgs,
	}
	if mode == domain.ModeMatrix {
		cmd.Use = "matrix"
		cmd.Short = "Match reports by filename pattern and print a page x metric matrix"
		cmd.Long = "Find each pair's reports as *<pattern>.json inside old_dir and new_dir, skip incomplete " +
			"audits, and print one row of differences per page with statistics over every metric."
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		plan, err := config.New().Load(planPath)
		if err != nil {
			return fmt.Errorf("loading plan: %w", err)
		}

		if oldDir != "" {
			if plan.OldDir, err = filepath.Abs(oldDir); err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
		}
		if newDir != "" {
			if plan.NewDir, err = filepath.Abs(newDir); err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
		}
		if incompleteRule != "" {
			plan.IncompleteRule = domain.IncompleteRule(incompleteRule)
			if err := plan.Validate(); err != nil {
				return err
			}
		}

		svc := application.NewCompareService(
			report.New(),
			resolver.NewExplicit(),
			resolver.NewGlob(),
			gitinfo.New(),
			a.logger,
		)
		if concurrency > 0 {
			svc.SetConcurrency(concurrency)
		}

		run, err := svc.Compare(cmd.Context(), plan, mode)
		if err != nil {
			return fmt.Errorf("%s failed: %w", mode, err)
		}

		if !noHistory {
			a.saveRun(cmd.Context(), run) // best-effort
		}

		out := cmd.OutOrStdout()
		switch {
		case jsonOutput:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(run); err != nil {
				return err
			}
		case mdOutput:
			if err := markdown.New(out).Write(run); err != nil {
				return fmt.Errorf("rendering markdown: %w", err)
			}
		case mode == domain.ModeMatrix:
			fmt.Fprint(out, tui.RenderMatrix(run))
		default:
			fmt.Fprint(out, tui.RenderDetailed(run))
		}

		if ciMode && run.OverallAverage() < minAvg {
			a.logger.Info("ci threshold not met", zap.Float64("avg", run.OverallAverage()), zap.Float64("min", minAvg))
			return fmt.Errorf("average diff %.2f is below minimum %.2f", run.OverallAverage(), minAvg)
		}
		return nil
	}

	cmd.Flags().StringVar(&planPath, "plan", ".", "Plan file or directory containing .lhdiff.yaml")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run as JSON")
	cmd.Flags().BoolVar(&mdOutput, "markdown", false, "Output the run as Markdown")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 if the overall average is below --min-avg")
	cmd.Flags().Float64Var(&minAvg, "min-avg", 0, "Minimum overall average diff for CI mode")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in the history database")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Reports loaded in parallel (default 8)")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	if mode == domain.ModeMatrix {
		cmd.Flags().StringVar(&oldDir, "old-dir", "", "Override the plan's old_dir")
		cmd.Flags().StringVar(&newDir, "new-dir", "", "Override the plan's new_dir")
		cmd.Flags().StringVar(&incompleteRule, "incomplete-rule", "", "Override the plan's incomplete_rule (zero, missing, off)")
	}

	return cmd
}
