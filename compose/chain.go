// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package compose

import (
	"context"
	"log"

	"github.com/ezrec/intcode/port"
	"github.com/ezrec/intcode/vm"
)

// Chain is a ring of machines running the same program. Machine i reads
// queue i and writes queue i+1; the final machine writes back to queue 0.
type Chain struct {
	Verbose bool // Set to enable verbose logging, including machine traces.

	phases   []int64
	queues   []*port.Queue
	machines []*vm.Vm
	result   port.Buffer
}

// ChainOption configures a chain.
type ChainOption func(ch *Chain) error

// ChainVmOptions applies machine options to every machine of the chain.
// Input and output options are overridden by the chain wiring.
func ChainVmOptions(opts ...vm.Option) ChainOption {
	return func(ch *Chain) error {
		for _, machine := range ch.machines {
			err := machine.SetOptions(opts...)
			if err != nil {
				return err
			}
		}
		return ch.wire()
	}
}

// NewChain creates a chain with one machine per phase setting.
func NewChain(prog vm.Program, phases []int64, opts ...ChainOption) (ch *Chain, err error) {
	if len(phases) == 0 {
		err = ErrCount
		return
	}

	ch = &Chain{
		phases:   append([]int64{}, phases...),
		queues:   make([]*port.Queue, len(phases)),
		machines: make([]*vm.Vm, len(phases)),
	}

	for n := range phases {
		ch.queues[n] = &port.Queue{}
		ch.machines[n], err = vm.New(prog)
		if err != nil {
			return nil, err
		}
	}

	err = ch.wire()
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		err = opt(ch)
		if err != nil {
			return nil, err
		}
	}

	return
}

// RunChain runs a chain of prog, one machine per phase, with signal 0.
func RunChain(prog vm.Program, phases []int64) (result int64, err error) {
	ch, err := NewChain(prog, phases)
	if err != nil {
		return
	}

	return ch.Run(0)
}

// wire connects the machines to the queues.
func (ch *Chain) wire() (err error) {
	count := len(ch.machines)
	for n, machine := range ch.machines {
		var out port.Output = ch.queues[(n+1)%count]
		if n == count-1 {
			out = port.Tee(out, &ch.result)
		}
		err = machine.SetOptions(vm.Input(ch.queues[n]), vm.Output(out))
		if err != nil {
			return
		}
	}

	return
}

// Len returns the number of machines.
func (ch *Chain) Len() int {
	return len(ch.machines)
}

// Machine returns machine n of the chain.
func (ch *Chain) Machine(n int) *vm.Vm {
	return ch.machines[n]
}

// Outputs returns every value written by the final machine in the last
// run.
func (ch *Chain) Outputs() []int64 {
	return ch.result.Values
}

// reset restarts all machines and seeds the queues.
func (ch *Chain) reset(signal int64) {
	for n, machine := range ch.machines {
		machine.Verbose = ch.Verbose
		machine.Reset()
		ch.queues[n].Reset()
		ch.queues[n].Add(ch.phases[n])
	}
	ch.queues[0].Add(signal)
	ch.result.Reset()
}

// Run restarts the chain, feeds signal to the first machine, and drives the
// machines round-robin until the final machine halts. The result is the
// final machine's last output.
func (ch *Chain) Run(signal int64) (result int64, err error) {
	return ch.RunContext(context.Background(), signal)
}

// RunContext is Run, failing with ctx.Err() when ctx is done. The context
// is checked between rounds; a machine that never yields must also be
// stopped with Halt.
func (ch *Chain) RunContext(ctx context.Context, signal int64) (result int64, err error) {
	ch.reset(signal)

	last := ch.machines[len(ch.machines)-1]
	for round := 0; !last.IsHalted(); round++ {
		err = ctx.Err()
		if err != nil {
			return
		}

		progress := false
		for n, machine := range ch.machines {
			if machine.IsHalted() {
				continue
			}

			steps := machine.Steps()
			_, err = machine.Run()
			if err != nil {
				err = &ErrInstance{Index: n, Err: err}
				return
			}
			if machine.Steps() != steps {
				progress = true
			}
		}

		if ch.Verbose {
			log.Printf("intcode: chain: round %d", round)
		}

		if !progress {
			err = ErrDeadlock
			return
		}
	}

	result, ok := ch.result.Last()
	if !ok {
		err = ErrNoResult
		return
	}

	if ch.Verbose {
		log.Printf("intcode: chain: result %d", result)
	}

	return
}
