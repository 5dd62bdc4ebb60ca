// Command evm is a standalone driver for the interpreter: it loads a JSON
// state-test vector, runs it against the runtime package's reference Host,
// and reports pass/fail. It is not a consensus test-suite runner.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	cli "github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "evm",
		Usage: "run a single EVM state-test vector",
		Commands: []*cli.Command{
			runCommand,
		},
	}
	err := app.Run(os.Args)
	if err != nil && err.Error() != "" {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
	}
	cli.HandleExitCoder(err)
}
