// Package cli provides the command-line interface for the dream engine.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-dream-engine/config"
	"github.com/gcbaptista/go-dream-engine/internal/engine"
)

// Version is set at build time.
var Version = "0.1.0"

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	verbose    bool

	cfg         config.Config
	logger      *slog.Logger
	closeLogger func() error
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "dream_engine",
		Short: "Korean dream dictionary analyzer",
		Long: `dream_engine reads a free-form Korean dream description, finds the
dream dictionary keywords it mentions, resolves ambiguous words from their
context, and recommends lottery numbers (1-45) from the matched entries.

Run 'dream_engine serve' for the HTTP API or use the analyze, import and
browse commands directly against the local data directory.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.closeLogger != nil {
				if err := a.closeLogger(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to close log file: %v\n", err)
				}
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (yaml or toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newAnalyzeCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newBrowseCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.verbose {
		cfg.LogLevel = "DEBUG"
	}
	a.cfg = cfg

	a.logger, a.closeLogger = config.SetupLogger(cfg.LogFile, cfg.Level())
	return nil
}

// openEngine loads the engine from the configured data directory.
func (a *app) openEngine() (*engine.Engine, error) {
	eng, err := engine.New(a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open engine: %w", err)
	}
	return eng, nil
}

func (a *app) closeEngine(cmd *cobra.Command, eng *engine.Engine) {
	if err := eng.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to close engine: %v\n", err)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dream_engine %s\n", Version)
		},
	}
}
