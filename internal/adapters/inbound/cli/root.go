package cli

import (
	"context"
	"fmt"

	"github.com/lhdiff/lhdiff/internal/adapters/outbound/config"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/history"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/logging"
	"github.com/lhdiff/lhdiff/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
)

// app carries the state shared by every command: resolved settings and
// the logger built from them.
type app struct {
	settingsFile string
	logLevel     string
	logFormat    string

	settings config.Settings
	logger   *zap.Logger

	settingsLoader *config.SettingsLoader
	loggerFactory  *logging.Factory
}

func newApp() *app {
	return &app{
		settings:       config.DefaultSettings(),
		logger:         zap.NewNop(),
		settingsLoader: config.NewSettingsLoader(),
		loggerFactory:  logging.New(),
	}
}

// initialize merges settings file, environment and persistent flags, then
// builds the logger.
func (a *app) initialize(cmd *cobra.Command) error {
	s, used, err := a.settingsLoader.Load(a.settingsFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flagChanged(flags, "log-level") {
		s.LogLevel = a.logLevel
	}
	if flagChanged(flags, "log-format") {
		s.LogFormat = a.logFormat
	}

	logger, err := a.loggerFactory.Create(s.LogLevel, s.LogFormat)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	a.settings = s
	a.logger = logger
	a.logger.Debug("settings loaded",
		zap.String("settings_file", used),
		zap.String("log_level", s.LogLevel),
		zap.String("history_dir", s.HistoryDir),
		zap.Strings("encodings", s.Encodings))
	return nil
}

func flagChanged(flags *pflag.FlagSet, name string) bool {
	f := flags.Lookup(name)
	return f != nil && f.Changed
}

// saveRun stores run in the history database. Failures are logged, never
// returned.
func (a *app) saveRun(ctx context.Context, run *domain.ComparisonRun) {
	store, err := history.Open(a.settings.HistoryDir)
	if err != nil {
		a.logger.Warn("history unavailable", zap.Error(err))
		return
	}
	defer func() { _ = store.Close() }()

	id, err := store.Save(ctx, run)
	if err != nil {
		a.logger.Warn("saving run failed", zap.Error(err))
		return
	}
	a.logger.Debug("run saved", zap.Int64("id", id), zap.String("db", store.Path()))
}

func newRootCmd() *cobra.Command {
	a := newApp()

	cmd := &cobra.Command{
		Use:   "lhdiff",
		Short: "Compare Lighthouse audit reports before and after a change",
		Long: "lhdiff reads Lighthouse JSON reports, computes per-page category score differences " +
			"and prints statistics with a verdict.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&a.settingsFile, "settings", "", "Settings file (default $XDG_CONFIG_HOME/lhdiff/settings.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: console or structured")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newRunCmd(a, domain.ModeDetailed))
	cmd.AddCommand(newRunCmd(a, domain.ModeMatrix))
	cmd.AddCommand(newScoresCmd(a))
	cmd.AddCommand(newDumpCmd(a))
	cmd.AddCommand(newHistoryCmd(a))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMCPCmd(a))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
