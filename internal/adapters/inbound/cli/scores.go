package cli

import (
	"encoding/json"
	"fmt"

	"github.com/lhdiff/lhdiff/internal/adapters/outbound/report"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/resolver"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/tui"
	"github.com/lhdiff/lhdiff/internal/application"
	"github.com/lhdiff/lhdiff/internal/domain"
	"github.com/spf13/cobra"
)

type scoresOutput struct {
	Path              string                      `json:"path"`
	FinalURL          string                      `json:"final_url,omitempty"`
	FetchTime         string                      `json:"fetch_time,omitempty"`
	LighthouseVersion string                      `json:"lighthouse_version,omitempty"`
	Scores            map[domain.Category]float64 `json:"scores"`
	Present           map[domain.Category]bool    `json:"present"`
}

func newScoresCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scores <report.json>",
		Short: "Show the category scores of a single report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := application.NewCompareService(report.New(), resolver.NewExplicit(), resolver.NewGlob(), nil, a.logger)

			doc, set, err := svc.Scores(args[0])
			if err != nil {
				return fmt.Errorf("reading report: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(scoresOutput{
					Path:              args[0],
					FinalURL:          doc.FinalURL,
					FetchTime:         doc.FetchTime,
					LighthouseVersion: doc.LighthouseVersion,
					Scores:            set.Values,
					Present:           set.Present,
				})
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderScores(args[0], doc, set))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output scores as JSON")
	return cmd
}
