// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command intcode runs IntCode programs.
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrInterrupted = errors.New(f("interrupted"))
)

// options shared by every subcommand.
type options struct {
	verbose bool
}

func newRootCommand() *cobra.Command {
	opt := &options{}

	root := &cobra.Command{
		Use:          "intcode",
		Short:        f("IntCode virtual machine"),
		SilenceUsage: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().BoolVarP(&opt.verbose, "verbose", "v", false, f("Verbose mode"))

	root.AddCommand(
		newRunCommand(opt),
		newChainCommand(opt),
		newNetworkCommand(opt),
		newASCIICommand(opt),
		newScriptCommand(opt),
	)

	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
