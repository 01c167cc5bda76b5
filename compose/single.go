package compose

import (
	"github.com/ezrec/intcode/vm"
)

// RunSingle runs a fresh machine with the given inputs until it halts, and
// returns its outputs. A machine that suspends for more input fails with
// ErrStarved, along with the outputs produced so far.
func RunSingle(prog vm.Program, inputs ...int64) (outputs []int64, err error) {
	machine, err := vm.New(prog)
	if err != nil {
		return
	}

	return RunMachine(machine, inputs...)
}

// RunMachine is RunSingle on a machine the caller configured. A machine
// stopped by Halt returns the outputs so far without error.
func RunMachine(machine *vm.Vm, inputs ...int64) (outputs []int64, err error) {
	outputs, err = machine.Run(inputs...)
	if err != nil {
		return
	}

	if machine.Awaiting() {
		err = ErrStarved
	}

	return
}
