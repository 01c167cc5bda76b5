package script

import (
	"fmt"
	"slices"

	"go.starlark.net/starlark"

	"github.com/ezrec/intcode/vm"
)

// Machine is a Starlark value wrapping an IntCode machine.
type Machine struct {
	Vm *vm.Vm
}

var _ starlark.HasAttrs = (*Machine)(nil)

var _machine_methods = map[string]*starlark.Builtin{
	"run":       starlark.NewBuiltin("run", machineRun),
	"step":      starlark.NewBuiltin("step", machineStep),
	"reset":     starlark.NewBuiltin("reset", machineReset),
	"get":       starlark.NewBuiltin("get", machineGet),
	"set":       starlark.NewBuiltin("set", machineSet),
	"add_input": starlark.NewBuiltin("add_input", machineAddInput),
	"halt":      starlark.NewBuiltin("halt", machineHalt),
}

var _machine_fields = []string{
	"awaiting",
	"halted",
	"ip",
	"pending",
	"relative_base",
	"status",
	"steps",
}

func (m *Machine) String() string {
	return fmt.Sprintf("<intcode.vm %v ip=%d>", m.Vm.Status(), m.Vm.Ip)
}

func (m *Machine) Type() string {
	return "intcode.vm"
}

func (m *Machine) Freeze() {}

func (m *Machine) Truth() starlark.Bool {
	return starlark.True
}

func (m *Machine) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", m.Type())
}

// Attr returns a field or bound method.
func (m *Machine) Attr(name string) (starlark.Value, error) {
	switch name {
	case "awaiting":
		return starlark.Bool(m.Vm.Awaiting()), nil
	case "halted":
		return starlark.Bool(m.Vm.IsHalted()), nil
	case "ip":
		return starlark.MakeInt64(m.Vm.Ip), nil
	case "pending":
		return starlark.MakeInt(m.Vm.Pending()), nil
	case "relative_base":
		return starlark.MakeInt64(m.Vm.RelativeBase), nil
	case "status":
		return starlark.String(m.Vm.Status().String()), nil
	case "steps":
		return starlark.MakeInt64(m.Vm.Steps()), nil
	}

	if method, ok := _machine_methods[name]; ok {
		return method.BindReceiver(m), nil
	}

	return nil, nil
}

// AttrNames returns the sorted field and method names.
func (m *Machine) AttrNames() (names []string) {
	names = append(names, _machine_fields...)
	for name := range _machine_methods {
		names = append(names, name)
	}
	slices.Sort(names)
	return
}

// run(*inputs) runs until halted or awaiting input, returning the outputs.
func machineRun(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	m := b.Receiver().(*Machine)
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}

	inputs, err := toInt64s(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	outputs, err := m.Vm.Run(inputs...)
	if err == nil {
		err = threadHost(thread).ctx.Err()
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return toList(outputs), nil
}

// step() executes one instruction, returning any output it produced.
func machineStep(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	m := b.Receiver().(*Machine)
	err := starlark.UnpackArgs(b.Name(), args, kwargs)
	if err != nil {
		return nil, err
	}

	err = m.Vm.Step()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return toList(m.Vm.Drain()), nil
}

func machineReset(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	m := b.Receiver().(*Machine)
	err := starlark.UnpackArgs(b.Name(), args, kwargs)
	if err != nil {
		return nil, err
	}

	m.Vm.Reset()

	return starlark.None, nil
}

func machineGet(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	m := b.Receiver().(*Machine)
	var address starlark.Int
	err := starlark.UnpackArgs(b.Name(), args, kwargs, "address", &address)
	if err != nil {
		return nil, err
	}

	addr, err := toInt64(address)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	value, err := m.Vm.GetMemory(addr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return starlark.MakeInt64(value), nil
}

func machineSet(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	m := b.Receiver().(*Machine)
	var address, value starlark.Int
	err := starlark.UnpackArgs(b.Name(), args, kwargs, "address", &address, "value", &value)
	if err != nil {
		return nil, err
	}

	values, err := toInt64s(starlark.Tuple{address, value})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	err = m.Vm.SetMemory(values[0], values[1])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return starlark.None, nil
}

func machineAddInput(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	m := b.Receiver().(*Machine)
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}

	inputs, err := toInt64s(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	m.Vm.AddInputs(inputs...)

	return starlark.None, nil
}

func machineHalt(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	m := b.Receiver().(*Machine)
	err := starlark.UnpackArgs(b.Name(), args, kwargs)
	if err != nil {
		return nil, err
	}

	m.Vm.Halt()

	return starlark.None, nil
}
