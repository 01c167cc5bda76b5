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

func newChainCommand(opt *options) *cobra.Command {
	var phases []int64
	var initial int64

	cmd := &cobra.Command{
		Use:   "chain FILE",
		Short: f("Run a feedback chain, one machine per phase"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			prog, err := vm.LoadProgram(args[0])
			if err != nil {
				return
			}

			ch, err := compose.NewChain(prog, phases)
			if err != nil {
				return
			}
			ch.Verbose = opt.verbose

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			machines := make([]*vm.Vm, ch.Len())
			for n := range machines {
				machines[n] = ch.Machine(n)
			}
			defer haltOnInterrupt(machines...)()

			result, err := ch.RunContext(ctx, initial)
			if err != nil {
				return
			}

			fmt.Fprintln(cmd.OutOrStdout(), result)

			return
		},
	}

	flags := cmd.Flags()
	flags.Int64SliceVar(&phases, "phases", nil, f("Phase settings, such as 9,8,7,6,5"))
	flags.Int64Var(&initial, "signal", 0, f("Initial signal"))
	_ = cmd.MarkFlagRequired("phases")

	return cmd
}
