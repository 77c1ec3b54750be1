package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ledgerlift/statex/internal/buildinfo"
	"github.com/ledgerlift/statex/internal/config"
	"github.com/ledgerlift/statex/internal/importer"
	"github.com/ledgerlift/statex/internal/logging"
	"github.com/ledgerlift/statex/internal/providers"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	registry   *importer.Registry
	configPath string
	logLevel   string
	logFormat  string

	cfg       *config.Config
	cfgLoaded bool
	log       *logrus.Logger
	closeLog  func() error
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{registry: providers.Default()}

	rootCmd := &cobra.Command{
		Use:     "statex",
		Short:   "Convert personal finance statements into normalized CSV",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.closeLog()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.FileName, "config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (text or json)")

	rootCmd.AddCommand(
		newInitCommand(),
		newExtractCommand(a),
		newRunCommand(a),
		newNormalizeCommand(a),
		newCubeCommand(a),
		newFetchCommand(a),
	)

	return rootCmd
}

// setup loads the config when present, applies STATEX_* and flag overrides,
// and builds the logger. A missing default config file is not an error.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	_, statErr := os.Stat(a.configPath)
	switch {
	case statErr == nil:
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg, a.cfgLoaded = loaded, true
	case errors.Is(statErr, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		env, err := config.LoadEnv()
		if err != nil {
			return err
		}
		cfg.ApplyEnv(env)
	default:
		return fmt.Errorf("reading config: %w", statErr)
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	log, closeLog, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.log, a.closeLog = cfg, log, closeLog
	return nil
}
