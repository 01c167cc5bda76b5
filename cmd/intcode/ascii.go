package main

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/ezrec/intcode/port"
	"github.com/ezrec/intcode/vm"
)

// console supplies command lines, first from a script then interactively.
type console struct {
	script *bufio.Scanner
	batch  bool
	rl     *readline.Instance
	err    error
}

// Line returns the next command line.
func (con *console) Line() (line string, ok bool) {
	if con.script != nil {
		if con.script.Scan() {
			return con.script.Text(), true
		}
		con.err = con.script.Err()
		con.script = nil
	}

	if con.batch || con.err != nil {
		return
	}

	if con.rl == nil {
		con.rl, con.err = readline.NewEx(&readline.Config{
			Prompt:          "> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if con.err != nil {
			return
		}
	}

	line, err := con.rl.Readline()
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, readline.ErrInterrupt) {
			con.err = err
		}
		con.batch = true
		return
	}

	return line, true
}

// Close releases the console.
func (con *console) Close() (err error) {
	if con.rl != nil {
		err = con.rl.Close()
	}
	return
}

func newASCIICommand(opt *options) *cobra.Command {
	var scriptFile string
	var batch bool

	cmd := &cobra.Command{
		Use:   "ascii FILE",
		Short: f("Run an ASCII protocol program with an interactive console"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			prog, err := vm.LoadProgram(args[0])
			if err != nil {
				return
			}

			con := &console{batch: batch}
			defer con.Close()

			if len(scriptFile) != 0 {
				var inf *os.File
				inf, err = os.Open(scriptFile)
				if err != nil {
					return
				}
				defer inf.Close()
				con.script = bufio.NewScanner(inf)
			}

			in := &port.ASCIIInput{Source: con.Line}
			out := &port.ASCIIOutput{Writer: cmd.OutOrStdout()}

			machine, err := vm.New(prog, vm.Input(in), vm.Output(out))
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

			if con.err != nil {
				return con.err
			}

			if machine.Status() == vm.STATUS_STOPPED {
				err = ErrInterrupted
			}

			return
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&scriptFile, "script", "s", "", f("File of command lines sent before the console"))
	flags.BoolVar(&batch, "batch", false, f("Do not open the console after the script"))

	return cmd
}
