package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	mdwerror "github.com/msto63/minipas/foundation/core/error"
	mdwlog "github.com/msto63/minipas/foundation/core/log"
	"github.com/msto63/minipas/foundation/minipas"
	"github.com/msto63/minipas/foundation/minipas/messages"
	"github.com/msto63/minipas/foundation/utils/stringx"
	"github.com/msto63/minipas/internal/history"
	"github.com/msto63/minipas/internal/report"
	"github.com/spf13/cobra"
)

var (
	analyzeFormat     string
	analyzeLocale     string
	analyzeTokens     bool
	analyzeNoHistory  bool
	analyzeEchoSource bool
	analyzeNoColor    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Analyze a source file and print a report",
	Long: `Analyzes a source file and prints a report.

Without an argument, or with "-", the source is read from stdin.
The exit status is 1 when the analysis found errors.

Examples:
  minipas analyze program.pas
  minipas analyze --format json program.pas
  minipas analyze --locale pt --echo-source program.pas
  cat program.pas | minipas analyze`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "", "report format: text, json, yaml (default from config)")
	analyzeCmd.Flags().StringVarP(&analyzeLocale, "locale", "l", "", "message locale: en, pt (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeTokens, "tokens", false, "include the token stream")
	analyzeCmd.Flags().BoolVar(&analyzeNoHistory, "no-history", false, "do not record the run")
	analyzeCmd.Flags().BoolVar(&analyzeEchoSource, "echo-source", false, "print the source before the report")
	analyzeCmd.Flags().BoolVar(&analyzeNoColor, "no-color", false, "disable colors")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	name, source, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(stringx.FirstNonBlank(analyzeFormat, cfg.Report.Format))
	if err != nil {
		return err
	}

	catalog, err := messages.Load()
	if err != nil {
		return mdwerror.Wrap(err, "failed to load message catalog").WithCode(mdwerror.CodeInternal)
	}
	locale := resolveLocale(catalog, analyzeLocale)

	res, analysisErr := analyze(name, source, catalog, locale)

	err = report.Render(cmd.OutOrStdout(), res, report.Options{
		Format:     format,
		Locale:     locale,
		Color:      cfg.Report.Color && !analyzeNoColor,
		ShowTokens: analyzeTokens || cfg.Report.ShowTokens,
		Source:     source,
		EchoSource: analyzeEchoSource,
		Catalog:    catalog,
	})
	if err != nil {
		return err
	}

	if cfg.History.Enabled && !analyzeNoHistory {
		recordRun(cmd.Context(), res, source)
	}

	return analysisErr
}

// analyze runs a fresh Analyzer and returns its named result and error
func analyze(name, source string, catalog *messages.Catalog, locale string) (*minipas.Result, error) {
	a := minipas.New(minipas.Options{
		Logger:   logger,
		Renderer: catalog.Renderer(locale),
	})
	a.Analyze(source)

	res := a.Result()
	res.Name = name
	return res, a.Err()
}

// recordRun stores the run in the history database. Failures are logged only.
func recordRun(ctx context.Context, res *minipas.Result, source string) {
	store, err := history.Open(history.Config{Path: cfg.History.Path})
	if err != nil {
		logger.WarnWithErr("history unavailable", err)
		return
	}
	defer store.Close()

	run := history.NewRun(res, source)
	if err := store.Record(ctx, run); err != nil {
		logger.WarnWithErr("failed to record run", err)
		return
	}
	logger.Debug("run recorded", mdwlog.Fields{"id": run.ID})
}

// readSource reads the file named in args, or stdin for no argument or "-"
func readSource(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", mdwerror.Wrap(err, "failed to read stdin").WithCode(mdwerror.CodeInvalidInput)
		}
		return "<stdin>", string(data), nil
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		code := mdwerror.CodeInvalidInput
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return "", "", mdwerror.Wrap(err, "failed to read source").
			WithCode(code).
			WithDetail("path", path)
	}
	return filepath.Base(path), string(data), nil
}
