package cmd

import (
	"fmt"
	"io"
	"os"

	mdwerror "github.com/msto63/minipas/foundation/core/error"
	mdwlog "github.com/msto63/minipas/foundation/core/log"
	"github.com/msto63/minipas/foundation/minipas/messages"
	"github.com/msto63/minipas/foundation/utils/stringx"
	"github.com/msto63/minipas/pkg/core/config"
	"github.com/msto63/minipas/pkg/core/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool

	// set by the persistent pre-run
	cfg    *config.Config
	logger *mdwlog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "minipas",
	Short: "minipas - Pascal subset source analyzer",
	Long: `minipas checks programs written in a small Pascal subset.

The analyzer tokenizes the source, reports misspelled keywords, unknown
characters and '=' used for assignment, and, when the source is lexically
clean, collects the var declarations and reports identifiers used inside
begin ... end without a declaration.

Commands:
  analyze  - Analyze a source file and print a report
  tokens   - Print the token stream of a source file
  inspect  - Browse tokens, diagnostics and symbols interactively
  history  - List, show and prune recorded analysis runs
  serve    - Serve analyses over a websocket`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !isAnalysisFailure(err) {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// ExitCode maps the result of Execute to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./minipas.toml, $"+config.EnvConfigPath+", user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (debug) logging")
}

// setup loads the configuration and builds the logger for every command
func setup(cmd *cobra.Command, args []string) error {
	loaded, path, err := config.Resolve(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.General.LogLevel
	if verbose {
		level = "debug"
	}
	logger = logging.NewLogger(logging.LoggerConfig{
		ServiceName: "minipas",
		Level:       level,
		Format:      cfg.General.LogFormat,
		Output:      cmd.ErrOrStderr(),
	})
	mdwlog.SetDefault(logger)

	logger.Debug("configuration loaded", mdwlog.Fields{
		"path":    stringx.FirstNonBlank(path, "(defaults)"),
		"command": cmd.Name(),
	})
	return nil
}

// resolveLocale picks the flag value, then the configured locale
func resolveLocale(catalog *messages.Catalog, flagValue string) string {
	return catalog.Resolve(stringx.FirstNonBlank(flagValue, cfg.General.Locale))
}

// isAnalysisFailure reports whether err only signals diagnostics that were
// already printed in the report
func isAnalysisFailure(err error) bool {
	return mdwerror.GetCode(err).IsAnalysis()
}

func printError(w io.Writer, err error) {
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
