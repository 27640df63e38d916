package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	mdwerror "github.com/msto63/minipas/foundation/core/error"
	"github.com/msto63/minipas/foundation/minipas"
	"github.com/msto63/minipas/foundation/utils/stringx"
	"github.com/msto63/minipas/internal/history"
	"github.com/msto63/minipas/internal/report"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	historyLimit     int
	historySource    string
	historyStatus    string
	historyFormat    string
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show and prune recorded analysis runs",
	Long: `Every analyze run is recorded in a local SQLite database
(see [history] in the config file) unless --no-history is given.

Examples:
  minipas history list --status failed
  minipas history show 3f2a
  minipas history prune --older-than 168h`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one run (a unique id prefix is enough)",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than a given age",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.PersistentFlags().StringVarP(&historyFormat, "format", "f", "text", "output format: text, json, yaml")

	for _, c := range []*cobra.Command{historyCmd, historyListCmd} {
		c.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs (0 = all)")
		c.Flags().StringVar(&historySource, "source", "", "only runs of this source name")
		c.Flags().StringVar(&historyStatus, "status", "", "only runs with this status: ok, failed")
	}

	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 30*24*time.Hour, "age of the runs to delete")
}

func openHistory() (*history.Store, error) {
	return history.Open(history.Config{Path: cfg.History.Path})
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(historyFormat)
	if err != nil {
		return err
	}

	status := minipas.Status(strings.ToLower(historyStatus))
	if status != "" && status != minipas.StatusOK && status != minipas.StatusFailed {
		return mdwerror.New(fmt.Sprintf("unknown status %q", historyStatus)).
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("status", historyStatus)
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), history.Filter{
		Source: historySource,
		Status: status,
		Limit:  historyLimit,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case report.FormatJSON, report.FormatYAML:
		if runs == nil {
			runs = []*history.Run{}
		}
		return encode(out, format, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			stringx.Truncate(run.ID, 8, ""),
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			stringx.Truncate(run.Source, 32, "..."),
			string(run.Status),
			fmt.Sprint(run.ErrorCount),
			fmt.Sprint(run.SymbolCount),
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TIME", "SOURCE", "STATUS", "ERRORS", "SYMBOLS").
		Rows(rows...)
	fmt.Fprintln(out, tbl.Render())
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(historyFormat)
	if err != nil {
		return err
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != report.FormatText {
		return encode(out, format, run)
	}

	fmt.Fprintf(out, "ID:      %s\n", run.ID)
	fmt.Fprintf(out, "Time:    %s\n", run.Timestamp.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "Source:  %s\n", run.Source)
	fmt.Fprintf(out, "SHA-256: %s\n", run.SourceHash)
	fmt.Fprintf(out, "Status:  %s\n", run.Status)

	if len(run.Errors) > 0 {
		fmt.Fprintf(out, "\nErrors (%d):\n", run.ErrorCount)
		for _, msg := range run.Errors {
			fmt.Fprintf(out, "  - %s\n", msg)
		}
	}
	if len(run.Symbols) > 0 {
		fmt.Fprintf(out, "\nSymbols (%d):\n", run.SymbolCount)
		for _, entry := range run.Symbols {
			fmt.Fprintf(out, "  %s: %s\n", entry.Name, entry.Type)
		}
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := store.Prune(cmd.Context(), historyOlderThan)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d run(s) older than %s.\n", deleted, historyOlderThan)
	return nil
}

func encode(w io.Writer, format report.Format, v interface{}) error {
	if format == report.FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
