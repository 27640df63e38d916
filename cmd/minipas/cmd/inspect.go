// ============================================================================
// minipas - Pascal subset source analyzer
// ============================================================================
//
// Package:     cmd
// Description: CLI command for the inspector TUI
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package cmd

import (
	mdwerror "github.com/msto63/minipas/foundation/core/error"
	"github.com/msto63/minipas/foundation/minipas/messages"
	"github.com/msto63/minipas/internal/tui/inspector"
	"github.com/spf13/cobra"
)

var inspectLocale string

var inspectCmd = &cobra.Command{
	Use:   "inspect [file|-]",
	Short: "Browse tokens, diagnostics and symbols interactively",
	Long: `Analyzes a source file and opens the interactive inspector.

Shortcuts:
  tab / shift+tab  Next / previous tab
  1-3              Tokens, Diagnostics, Symbols
  up/down, PgUp    Scroll
  g / G            Top / Bottom
  q / Ctrl+C       Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectLocale, "locale", "l", "", "message locale: en, pt (default from config)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	name, source, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	catalog, err := messages.Load()
	if err != nil {
		return mdwerror.Wrap(err, "failed to load message catalog").WithCode(mdwerror.CodeInternal)
	}

	res, _ := analyze(name, source, catalog, resolveLocale(catalog, inspectLocale))
	return inspector.Run(res)
}
