package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ezrec/intcode/compose"
	"github.com/ezrec/intcode/internal"
	"github.com/ezrec/intcode/port"
	"github.com/ezrec/intcode/vm"
)

func newRunCommand(opt *options) *cobra.Command {
	var inputs []int64
	var stdin bool
	var sparse bool
	var steps int64
	var dump bool

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: f("Run a program to completion, printing its outputs"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			prog, err := vm.LoadProgram(args[0])
			if err != nil {
				return
			}

			values := slices.Values(inputs)
			if stdin {
				values = internal.IterSeqConcat(values, readInts(cmd.InOrStdin()))
			}
			in := port.FromSeq(values)
			defer in.Close()

			out := cmd.OutOrStdout()
			opts := []vm.Option{
				vm.Input(in),
				vm.Output(port.OutputFunc(func(value int64) (err error) {
					_, err = fmt.Fprintln(out, value)
					return
				})),
			}
			if sparse {
				opts = append(opts, vm.SparseMemory())
			}
			if steps > 0 {
				opts = append(opts, vm.StepLimit(steps))
			}

			machine, err := vm.New(prog, opts...)
			if err != nil {
				return
			}
			machine.Verbose = opt.verbose

			stop := haltOnInterrupt(machine)
			_, err = machine.Run()
			stop()
			if err != nil {
				return
			}

			if dump {
				image := make(vm.Program, machine.Memory().Size())
				for addr := range image {
					image[addr], err = machine.GetMemory(int64(addr))
					if err != nil {
						return
					}
				}
				fmt.Fprintln(cmd.ErrOrStderr(), image)
			}

			switch machine.Status() {
			case vm.STATUS_SUSPENDED:
				err = compose.ErrStarved
			case vm.STATUS_STOPPED:
				err = ErrInterrupted
			}

			return
		},
	}

	flags := cmd.Flags()
	flags.Int64SliceVarP(&inputs, "input", "i", nil, f("Input value, may be repeated"))
	flags.BoolVar(&stdin, "stdin", false, f("Read further input values from stdin"))
	flags.BoolVar(&sparse, "sparse", false, f("Use sparse memory"))
	flags.Int64Var(&steps, "steps", 0, f("Step limit, 0 for none"))
	flags.BoolVar(&dump, "dump", false, f("Dump memory to stderr after the run"))

	return cmd
}
