package main

import (
	"os"

	"github.com/msto63/minipas/cmd/minipas/cmd"
)

func main() {
	os.Exit(cmd.ExitCode(cmd.Execute()))
}
