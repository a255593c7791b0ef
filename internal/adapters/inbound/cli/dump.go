package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lhdiff/lhdiff/internal/adapters/outbound/textfile"
	"github.com/lhdiff/lhdiff/internal/application"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		encodings  []string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print a generated text file, trying several encodings",
		Long: "Decode a generated file (for example a type-definition file) with the first encoding that works " +
			"and print it. Default order: utf-16 (BOM required), then utf-8. Supported: " +
			strings.Join(textfile.SupportedEncodings, ", ") + ".",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order := encodings
			if !cmd.Flags().Changed("encoding") {
				order = a.settings.Encodings
			}

			res, err := application.NewDumpService(textfile.New(), a.logger).Dump(args[0], order)
			if err != nil {
				return fmt.Errorf("dump failed: %w", err)
			}
			a.logger.Info("file decoded", zap.String("path", res.Path), zap.String("encoding", res.Encoding))

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			fmt.Fprint(cmd.OutOrStdout(), res.Text)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&encodings, "encoding", nil, "Encoding to try, in order (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output path, encoding and text as JSON")
	return cmd
}
