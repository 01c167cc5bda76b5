// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"errors"
	"log"
	"sync/atomic"

	"github.com/ezrec/intcode/port"
)

// Vm is an IntCode machine instance.
type Vm struct {
	Verbose bool // Set to enable verbose logging.

	Ip           int64 // Instruction pointer.
	RelativeBase int64 // Base added to relative mode parameters.

	program   Program
	memory    Memory
	newMemory func() Memory

	queue  port.Queue  // Input queue.
	input  port.Input  // External input, consulted before the queue.
	output port.Output // External output, nil to collect outputs.

	emitted   []int64 // Collected outputs not yet returned.
	status    Status
	fault     error
	stop      atomic.Bool
	steps     int64
	stepLimit int64
}

// Option configures a machine.
type Option func(vm *Vm) error

// SparseMemory selects map backed memory, suited to programs that write
// far from their image.
func SparseMemory() Option {
	return func(vm *Vm) error {
		vm.newMemory = func() Memory { return &Sparse{} }
		return nil
	}
}

// Headroom selects slice backed memory with size free cells preallocated
// past the image. The default is DEFAULT_HEADROOM.
func Headroom(size int) Option {
	return func(vm *Vm) error {
		vm.newMemory = func() Memory { return &Dense{Headroom: size} }
		return nil
	}
}

// WithMemory selects a custom memory backend. The factory is called on
// every reset.
func WithMemory(factory func() Memory) Option {
	return func(vm *Vm) error {
		vm.newMemory = factory
		return nil
	}
}

// Input attaches an external input. It is consulted before the input
// queue.
func Input(in port.Input) Option {
	return func(vm *Vm) error {
		vm.input = in
		return nil
	}
}

// Output attaches an external output. Values sent to it are not returned
// from Run.
func Output(out port.Output) Option {
	return func(vm *Vm) error {
		vm.output = out
		return nil
	}
}

// StepLimit bounds the instructions executed by a single Run call. Zero
// means unlimited.
func StepLimit(steps int64) Option {
	return func(vm *Vm) error {
		vm.stepLimit = steps
		return nil
	}
}

// New creates a machine loaded with a copy of prog.
func New(prog Program, opts ...Option) (vm *Vm, err error) {
	vm = &Vm{
		newMemory: func() Memory { return &Dense{Headroom: DEFAULT_HEADROOM} },
	}

	err = vm.SetOptions(opts...)
	if err != nil {
		return nil, err
	}

	vm.Load(prog)

	return
}

// SetOptions sets the provided options. Memory backend changes take
// effect on the next reset.
func (vm *Vm) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(vm); err != nil {
			return err
		}
	}
	return nil
}

// Load replaces the program and resets the machine.
func (vm *Vm) Load(prog Program) {
	vm.program = prog.Clone()
	vm.Reset()
}

// Reset the machine state.
// - Reloads memory from the program.
// - Zeros the IP, relative base and step counter.
// - Drops queued input and uncollected output.
// - Clears halted, stopped and faulted states.
func (vm *Vm) Reset() {
	if vm.Verbose {
		log.Printf("intcode: reset")
	}

	vm.memory = vm.newMemory()
	vm.memory.Load(vm.program)
	vm.Ip = 0
	vm.RelativeBase = 0
	vm.queue.Reset()
	vm.emitted = nil
	vm.status = STATUS_READY
	vm.fault = nil
	vm.stop.Store(false)
	vm.steps = 0
}

// Program returns the loaded program.
func (vm *Vm) Program() Program {
	return vm.program
}

// Memory returns the memory backend.
func (vm *Vm) Memory() Memory {
	return vm.memory
}

// GetMemory returns the value at address.
func (vm *Vm) GetMemory(address int64) (int64, error) {
	return vm.memory.Get(address)
}

// SetMemory stores value at address.
func (vm *Vm) SetMemory(address int64, value int64) error {
	return vm.memory.Set(address, value)
}

// AddInput queues an input value.
func (vm *Vm) AddInput(value int64) {
	vm.queue.Add(value)
}

// AddInputs queues input values in order.
func (vm *Vm) AddInputs(values ...int64) {
	vm.queue.AddAll(values...)
}

// Pending returns the number of queued input values.
func (vm *Vm) Pending() int {
	return vm.queue.Len()
}

// Halt requests that execution stop before the next instruction. It may be
// called from any goroutine. The machine is not halted; a later Run resumes.
func (vm *Vm) Halt() {
	vm.stop.Store(true)
}

// IsHalted returns true once the halt instruction has executed.
func (vm *Vm) IsHalted() bool {
	return vm.status == STATUS_HALTED
}

// Awaiting returns true if the machine is suspended on an input
// instruction.
func (vm *Vm) Awaiting() bool {
	return vm.status == STATUS_SUSPENDED
}

// Status returns the execution state.
func (vm *Vm) Status() Status {
	return vm.status
}

// Steps returns the number of instructions executed since the last reset.
func (vm *Vm) Steps() int64 {
	return vm.steps
}

// Drain returns and forgets the outputs collected by Step.
func (vm *Vm) Drain() (outputs []int64) {
	outputs, vm.emitted = vm.emitted, nil
	return
}

// Run queues inputs, then executes until the machine halts, suspends for
// input, is stopped by Halt or fails. It returns the values output during
// the call, unless an external output is attached.
//
// Run on a halted machine does nothing.
func (vm *Vm) Run(inputs ...int64) (outputs []int64, err error) {
	if vm.status == STATUS_HALTED {
		return
	}
	if vm.fault != nil {
		err = errors.Join(ErrFaulted, vm.fault)
		return
	}

	vm.AddInputs(inputs...)

	var ran int64
	for {
		if vm.stop.Swap(false) {
			vm.status = STATUS_STOPPED
			break
		}
		if vm.stepLimit > 0 && ran >= vm.stepLimit {
			vm.status = STATUS_STOPPED
			err = ErrStepLimit
			break
		}

		err = vm.Step()
		if err != nil {
			break
		}
		ran++

		if vm.status == STATUS_HALTED || vm.status == STATUS_SUSPENDED {
			break
		}
	}

	outputs = vm.Drain()

	if vm.Verbose {
		log.Printf("intcode: %v after %v steps", vm.status, ran)
	}

	return
}

// Step executes a single instruction. A suspended input instruction is
// retried. Outputs are collected for Drain unless an external output is
// attached.
func (vm *Vm) Step() (err error) {
	if vm.fault != nil {
		return errors.Join(ErrFaulted, vm.fault)
	}
	if vm.status == STATUS_HALTED {
		return
	}

	ip := vm.Ip
	var word int64
	defer func() {
		if err != nil {
			err = &ErrRuntime{Ip: ip, Word: word, Err: err}
			vm.fault = err
			vm.status = STATUS_FAULTED
		}
	}()

	word, err = vm.memory.Get(ip)
	if err != nil {
		return
	}

	ins, err := Decode(word)
	if err != nil {
		if eo, ok := err.(ErrOpcode); ok {
			eo.Ip = ip
			err = eo
		}
		return
	}

	if vm.Verbose {
		log.Printf("intcode: %04d: %v", ip, ins)
	}

	vm.status = STATUS_RUNNING
	next_ip := ip + ins.Opcode.Size()

	switch ins.Opcode {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		var a, b, dst int64
		a, err = vm.read(ins, 1)
		if err != nil {
			return
		}
		b, err = vm.read(ins, 2)
		if err != nil {
			return
		}
		dst, err = vm.address(ins, 3)
		if err != nil {
			return
		}
		err = vm.memory.Set(dst, vm.doAlu(ins.Opcode, a, b))
		if err != nil {
			return
		}
	case OP_IN:
		var dst int64
		dst, err = vm.address(ins, 1)
		if err != nil {
			return
		}
		value, ok := vm.receive()
		if !ok {
			// Don't advance to next IP.
			vm.status = STATUS_SUSPENDED
			if vm.Verbose {
				log.Printf("intcode: %04d: awaiting input", ip)
			}
			return
		}
		err = vm.memory.Set(dst, value)
		if err != nil {
			return
		}
	case OP_OUT:
		var a int64
		a, err = vm.read(ins, 1)
		if err != nil {
			return
		}
		err = vm.send(a)
		if err != nil {
			return
		}
	case OP_JT, OP_JF:
		var a, target int64
		a, err = vm.read(ins, 1)
		if err != nil {
			return
		}
		target, err = vm.read(ins, 2)
		if err != nil {
			return
		}
		if (a != 0) == (ins.Opcode == OP_JT) {
			next_ip = target
		}
	case OP_ARB:
		var a int64
		a, err = vm.read(ins, 1)
		if err != nil {
			return
		}
		vm.RelativeBase += a
	case OP_HALT:
		vm.status = STATUS_HALTED
		vm.steps++
		return
	}

	vm.Ip = next_ip
	vm.steps++

	return
}

// param returns the raw word of the n-th (one based) parameter.
func (vm *Vm) param(n int) (int64, error) {
	return vm.memory.Get(vm.Ip + int64(n))
}

// read returns the value of the n-th parameter according to its mode.
func (vm *Vm) read(ins Instruction, n int) (value int64, err error) {
	raw, err := vm.param(n)
	if err != nil {
		return
	}

	switch mode := ins.Modes[n-1]; mode {
	case MODE_POSITION:
		value, err = vm.memory.Get(raw)
	case MODE_IMMEDIATE:
		value = raw
	case MODE_RELATIVE:
		value, err = vm.memory.Get(raw + vm.RelativeBase)
	default:
		err = ErrMode{Param: n, Mode: mode}
	}

	return
}

// address returns the target address of the n-th parameter.
func (vm *Vm) address(ins Instruction, n int) (address int64, err error) {
	raw, err := vm.param(n)
	if err != nil {
		return
	}

	switch mode := ins.Modes[n-1]; mode {
	case MODE_POSITION:
		address = raw
	case MODE_RELATIVE:
		address = raw + vm.RelativeBase
	default:
		err = ErrMode{Param: n, Mode: mode, Write: true}
	}

	return
}

// doAlu performs an arithmetic or comparison opcode.
func (vm *Vm) doAlu(op Opcode, a int64, b int64) (output int64) {
	switch op {
	case OP_ADD:
		output = a + b
	case OP_MUL:
		output = a * b
	case OP_LT:
		if a < b {
			output = 1
		}
	case OP_EQ:
		if a == b {
			output = 1
		}
	}

	return
}

// receive gets the next input, from the external input first and then
// from the queue.
func (vm *Vm) receive() (value int64, ok bool) {
	if vm.input != nil {
		value, ok = vm.input.Receive()
		if ok {
			return
		}
	}

	return vm.queue.Receive()
}

// send delivers an output value.
func (vm *Vm) send(value int64) error {
	if vm.output != nil {
		return vm.output.Send(value)
	}

	vm.emitted = append(vm.emitted, value)
	return nil
}
