package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lhdiff/lhdiff/internal/adapters/outbound/config"
	"github.com/lhdiff/lhdiff/internal/domain"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Generate a starter .lhdiff.yaml plan",
		Long:  "Create a .lhdiff.yaml with example pairs that can be edited to point at your reports.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			content, err := config.Marshal(domain.DefaultPlan())
			if err != nil {
				return fmt.Errorf("generating plan: %w", err)
			}

			if err := os.WriteFile(dest, content, 0644); err != nil {
				return fmt.Errorf("writing plan: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .lhdiff.yaml")

	return cmd
}
