// Package port provides the input and output endpoints a machine exchanges
// values through. It includes FIFO queues, output recorders, callback
// adapters, ASCII text protocols and a multi-value record assembler.
package port

// Input supplies values to a machine's input instruction.
type Input interface {
	// Receive returns the next value. ok is false when no value is
	// available, which suspends the machine.
	Receive() (value int64, ok bool)
}

// Output consumes values emitted by a machine, in program order.
type Output interface {
	// Send delivers a single value. An error aborts execution.
	Send(value int64) error
}

// InputFunc adapts a function to the Input interface.
type InputFunc func() (value int64, ok bool)

var _ Input = InputFunc(nil)

// Receive calls fn().
func (fn InputFunc) Receive() (value int64, ok bool) {
	return fn()
}

// OutputFunc adapts a function to the Output interface.
type OutputFunc func(value int64) error

var _ Output = OutputFunc(nil)

// Send calls fn(value).
func (fn OutputFunc) Send(value int64) error {
	return fn(value)
}
