package cmd

import (
	"fmt"

	mdwerror "github.com/msto63/minipas/foundation/core/error"
	"github.com/msto63/minipas/foundation/minipas/diag"
	"github.com/msto63/minipas/foundation/minipas/lexer"
	"github.com/msto63/minipas/foundation/minipas/messages"
	"github.com/spf13/cobra"
)

var tokensLocale string

var tokensCmd = &cobra.Command{
	Use:   "tokens [file|-]",
	Short: "Print the token stream of a source file",
	Long: `Tokenizes a source file and prints one token per line:

  Token[Kind=VAR, Text='var', Line=1]
  Token[Kind=ID, Text='x', Line=1]

Lexical errors are printed to stderr; the exit status is 1 if any occurred.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVarP(&tokensLocale, "locale", "l", "", "message locale: en, pt (default from config)")
}

func runTokens(cmd *cobra.Command, args []string) error {
	_, source, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	catalog, err := messages.Load()
	if err != nil {
		return mdwerror.Wrap(err, "failed to load message catalog").WithCode(mdwerror.CodeInternal)
	}

	diags := diag.NewList(catalog.Renderer(resolveLocale(catalog, tokensLocale)))
	tokens := lexer.New(lexer.Options{Logger: logger}).Tokenize(source, diags)

	out := cmd.OutOrStdout()
	for _, tok := range tokens {
		fmt.Fprintln(out, tok.String())
	}

	if diags.Empty() {
		return nil
	}
	for _, msg := range diags.Messages() {
		fmt.Fprintln(cmd.ErrOrStderr(), msg)
	}
	return diags.Items()[0].Err()
}
