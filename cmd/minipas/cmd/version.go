package cmd

import (
	"fmt"
	"runtime"

	"github.com/msto63/minipas/pkg/core/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "minipas v%s\n", info.Application)
		fmt.Fprintf(out, "  Language:   %s\n", info.Language)
		fmt.Fprintf(out, "  Protocol:   %s\n", info.Protocol)
		fmt.Fprintf(out, "  Git Commit: %s\n", info.Commit)
		fmt.Fprintf(out, "  Go Version: %s\n", info.GoVersion)
		fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
