// Command lox runs the interpreter: with no arguments it starts a REPL, with one argument it
// runs that file.
package main

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"go.lox.dev/internal/driver"
)

func main() {
	root := &cobra.Command{
		Use:   "lox [script]",
		Short: "A tree-walking interpreter for LOX",
		Long: heredoc.Doc(`
			lox runs LOX source files and provides an interactive REPL.

			With no arguments, lox starts a REPL reading from stdin. Given one
			argument, it runs that file and exits with the interpreter's result.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := driver.NewLogger(os.Stderr)
			d := driver.New(log, os.Stdout, os.Stderr)

			if len(args) == 0 {
				return d.RunREPL()
			}
			return d.RunFile(args[0])
		},
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
