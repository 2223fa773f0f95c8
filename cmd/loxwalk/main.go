// Command loxwalk runs or interactively evaluates loxwalk source
// files: `loxwalk run <file>` batch-executes a script, `loxwalk repl`
// opens a line-at-a-time interactive session.
package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/loxwalk/cmd/loxwalk/replconfig"
	"github.com/aledsdavies/loxwalk/pkgs/driver"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "loxwalk",
		Short:         "Run or explore loxwalk programs",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newRunCmd(), newReplCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var watch bool
	var debug bool
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Execute a loxwalk source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := runFile(path, debug); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return watchFile(path, debug)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-run the file whenever it changes on disk")
	cmd.Flags().BoolVar(&debug, "debug", false, "Log parse/run timings to stderr")
	return cmd
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := replconfig.Load()
			return runRepl(cfg)
		},
	}
}

func runFile(path string, debug bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		return err
	}

	d := driver.New(os.Stdout)
	lexErrs := d.Scan(string(content))
	for _, e := range lexErrs {
		d.HandleDiagnostic(e, os.Stderr)
	}
	parseStart := time.Now()
	n, errs := d.Parse()
	if debug {
		fmt.Fprintf(os.Stderr, "loxwalk: parsed %d statement(s) from %s in %s\n", n, path, time.Since(parseStart))
	}
	for _, e := range errs {
		d.HandleDiagnostic(e, os.Stderr)
	}
	if len(lexErrs) > 0 || len(errs) > 0 {
		return fmt.Errorf("%d lexical error(s), %d parse error(s)", len(lexErrs), len(errs))
	}
	runStart := time.Now()
	runErr := d.InterpretAll()
	if debug {
		fmt.Fprintf(os.Stderr, "loxwalk: ran %s in %s\n", path, time.Since(runStart))
	}
	if runErr != nil {
		if diagErr, ok := asDiag(runErr); ok {
			d.HandleDiagnostic(diagErr, os.Stderr)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		}
		return runErr
	}
	return nil
}

func runRepl(cfg *replconfig.Config) error {
	d := driver.New(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stdout, cfg.Prompt)
		if !scanner.Scan() {
			return nil
		}
		line := scanner.Text()
		lexErrs := d.Scan(line + "\n")
		for _, e := range lexErrs {
			d.HandleDiagnostic(e, os.Stderr)
		}
		_, errs := d.Parse()
		for _, e := range errs {
			d.HandleDiagnostic(e, os.Stderr)
		}
		if len(lexErrs) > 0 || len(errs) > 0 {
			continue
		}
		if err := d.InterpretAll(); err != nil {
			if diagErr, ok := asDiag(err); ok {
				d.HandleDiagnostic(diagErr, os.Stderr)
			} else {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}
