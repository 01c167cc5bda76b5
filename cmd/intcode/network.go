package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ezrec/intcode/compose"
	"github.com/ezrec/intcode/vm"
)

func newNetworkCommand(opt *options) *cobra.Command {
	var count int
	var first bool
	var maxRounds int

	cmd := &cobra.Command{
		Use:   "network FILE",
		Short: f("Run a packet network, printing the monitor result"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			prog, err := vm.LoadProgram(args[0])
			if err != nil {
				return
			}

			opts := []compose.NetworkOption{compose.MaxRounds(maxRounds)}
			if first {
				opts = append(opts, compose.StopAtFirstMonitor())
			}

			nw, err := compose.NewNetwork(prog, count, opts...)
			if err != nil {
				return
			}
			nw.Verbose = opt.verbose

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			y, err := nw.Run(ctx)
			if err != nil {
				return
			}

			fmt.Fprintln(cmd.OutOrStdout(), y)

			return
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&count, "count", 50, f("Number of machines"))
	flags.BoolVar(&first, "first", false, f("Stop at the first monitor packet"))
	flags.IntVar(&maxRounds, "max-rounds", 0, f("Round limit, 0 for none"))

	return cmd
}
