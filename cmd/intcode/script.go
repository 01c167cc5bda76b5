package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ezrec/intcode/script"
)

func newScriptCommand(opt *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script FILE.star",
		Short: f("Run a Starlark client script"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			_, err = script.ExecContext(ctx, args[0], nil, cmd.OutOrStdout(), script.Verbose(opt.verbose))

			return
		},
	}

	return cmd
}
