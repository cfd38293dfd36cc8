package main

import (
	"fmt"
	"os"

	"github.com/Inesh-volunteer/graphbook/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Formatted diagnostics go to stdout inside the commands; the
		// terse summary goes to stderr with the mapped exit code.
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
