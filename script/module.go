package script

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/ezrec/intcode/compose"
	"github.com/ezrec/intcode/vm"
)

// Module is the intcode Starlark module.
var Module = &starlarkstruct.Module{
	Name: "intcode",
	Members: starlark.StringDict{
		"parse":   starlark.NewBuiltin("parse", builtinParse),
		"vm":      starlark.NewBuiltin("vm", builtinVm),
		"run":     starlark.NewBuiltin("run", builtinRun),
		"chain":   starlark.NewBuiltin("chain", builtinChain),
		"network": starlark.NewBuiltin("network", builtinNetwork),
	},
}

// toInt64 converts a Starlark integer.
func toInt64(value starlark.Value) (n int64, err error) {
	i, ok := value.(starlark.Int)
	if !ok {
		err = fmt.Errorf("got %s, want int", value.Type())
		return
	}

	n, ok = i.Int64()
	if !ok {
		err = fmt.Errorf("%v out of range", i)
		return
	}

	return
}

// toInt64s converts a tuple of Starlark integers.
func toInt64s(values starlark.Tuple) (ns []int64, err error) {
	ns = make([]int64, len(values))
	for n, value := range values {
		ns[n], err = toInt64(value)
		if err != nil {
			err = fmt.Errorf("argument %d: %w", n+1, err)
			return
		}
	}
	return
}

// toList converts values to a Starlark list.
func toList(values []int64) *starlark.List {
	elems := make([]starlark.Value, len(values))
	for n, value := range values {
		elems[n] = starlark.MakeInt64(value)
	}
	return starlark.NewList(elems)
}

// parse(text) parses program text into a list of integers.
func builtinParse(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text)
	if err != nil {
		return nil, err
	}

	prog, err := vm.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return toList(prog), nil
}

// vm(text, sparse=False) creates a machine.
func builtinVm(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	var sparse bool
	err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text, "sparse?", &sparse)
	if err != nil {
		return nil, err
	}

	prog, err := vm.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	var opts []vm.Option
	if sparse {
		opts = append(opts, vm.SparseMemory())
	}

	machine, err := vm.New(prog, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	threadHost(thread).track(machine)

	return &Machine{Vm: machine}, nil
}

// run(text, *inputs) runs a program to completion and returns its outputs.
func builtinRun(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}
	if len(args) < 1 {
		return nil, fmt.Errorf("%s: missing argument for text", b.Name())
	}

	text, ok := starlark.AsString(args[0])
	if !ok {
		return nil, fmt.Errorf("%s: for parameter text: got %s, want string", b.Name(), args[0].Type())
	}

	inputs, err := toInt64s(args[1:])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	prog, err := vm.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	machine, err := vm.New(prog)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	h := threadHost(thread)
	h.track(machine)

	outputs, err := compose.RunMachine(machine, inputs...)
	if err == nil {
		err = h.ctx.Err()
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return toList(outputs), nil
}

// chain(text, phases, signal=0) runs a feedback chain.
func builtinChain(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	var phases *starlark.List
	signal := starlark.MakeInt(0)
	err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text, "phases", &phases, "signal?", &signal)
	if err != nil {
		return nil, err
	}

	prog, err := vm.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	values := make(starlark.Tuple, phases.Len())
	for n := range phases.Len() {
		values[n] = phases.Index(n)
	}
	settings, err := toInt64s(values)
	if err != nil {
		return nil, fmt.Errorf("%s: phases: %w", b.Name(), err)
	}

	sig, err := toInt64(signal)
	if err != nil {
		return nil, fmt.Errorf("%s: signal: %w", b.Name(), err)
	}

	ch, err := compose.NewChain(prog, settings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	h := threadHost(thread)
	ch.Verbose = h.verbose
	for n := range ch.Len() {
		h.track(ch.Machine(n))
	}

	result, err := ch.RunContext(h.ctx, sig)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return starlark.MakeInt64(result), nil
}

// network(text, count, max_rounds=0, first=False) runs a packet network.
func builtinNetwork(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	var count, maxRounds int
	var first bool
	err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text, "count", &count, "max_rounds?", &maxRounds, "first?", &first)
	if err != nil {
		return nil, err
	}

	prog, err := vm.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	opts := []compose.NetworkOption{compose.MaxRounds(maxRounds)}
	if first {
		opts = append(opts, compose.StopAtFirstMonitor())
	}

	nw, err := compose.NewNetwork(prog, count, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	h := threadHost(thread)
	nw.Verbose = h.verbose
	for n := range nw.Len() {
		h.track(nw.Machine(n))
	}

	y, err := nw.Run(h.ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return starlark.MakeInt64(y), nil
}
