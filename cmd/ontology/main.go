package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/warpz0ne/openclaw/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		code := cli.GetExitCode(err)
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			// Flag and usage errors never pass through a formatter, so
			// report them here; everything else was already printed.
			fmt.Fprintln(os.Stderr, "Error:", err)
			code = cli.ExitCommandError
		}
		os.Exit(code)
	}
}
