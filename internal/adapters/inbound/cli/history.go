package cli

import (
	"encoding/json"
	"fmt"

	"github.com/lhdiff/lhdiff/internal/adapters/outbound/history"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/tui"
	"github.com/lhdiff/lhdiff/internal/domain"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit      int
		mode       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous comparison runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := domain.Mode(mode)
			if mode != "" && !domain.IsValidMode(m) {
				return fmt.Errorf("unknown mode %q (valid: detailed, matrix)", mode)
			}

			store, err := history.Open(a.settings.HistoryDir)
			if err != nil {
				return fmt.Errorf("opening history: %w", err)
			}
			defer func() { _ = store.Close() }()

			entries, err := store.List(cmd.Context(), m, limit)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}

			if jsonOutput {
				if entries == nil {
					entries = []domain.RunEntry{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of most recent runs to show (0 for all)")
	cmd.Flags().StringVar(&mode, "mode", "", "Only show runs of this mode (detailed or matrix)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history as JSON")
	return cmd
}
