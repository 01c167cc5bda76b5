// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package script runs Starlark client programs with access to IntCode
// machines through the predeclared intcode module.
package script

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/intcode/vm"
)

// _local_host is the thread local key of the run's host state.
const _local_host = "intcode.host"

// host is the state a run shares with the intcode builtins.
type host struct {
	ctx     context.Context
	verbose bool

	lock     sync.Mutex
	machines []*vm.Vm // Machines created by the program, halted on cancel.
}

// Option configures a script run.
type Option func(h *host)

// Verbose enables verbose logging on every machine the program creates.
func Verbose(enable bool) Option {
	return func(h *host) {
		h.verbose = enable
	}
}

// track applies the run's settings to machine and registers it to be
// halted when the run is cancelled.
func (h *host) track(machine *vm.Vm) {
	machine.Verbose = h.verbose

	h.lock.Lock()
	h.machines = append(h.machines, machine)
	h.lock.Unlock()

	if h.ctx.Err() != nil {
		machine.Halt()
	}
}

// halt stops every tracked machine.
func (h *host) halt() {
	h.lock.Lock()
	defer h.lock.Unlock()

	for _, machine := range h.machines {
		machine.Halt()
	}
}

// Exec runs a Starlark program. src may be anything accepted by
// starlark.ExecFileOptions, or nil to read filename. print() writes to out.
// It returns the program's globals.
func Exec(filename string, src any, out io.Writer, opts ...Option) (globals starlark.StringDict, err error) {
	return ExecContext(context.Background(), filename, src, out, opts...)
}

// ExecContext is Exec, cancelled when ctx is done. Machines and networks
// started by the program stop with ctx.
func ExecContext(ctx context.Context, filename string, src any, out io.Writer, opts ...Option) (globals starlark.StringDict, err error) {
	h := &host{ctx: ctx}
	for _, opt := range opts {
		opt(h)
	}

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(out, msg)
		},
	}
	thread.SetLocal(_local_host, h)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
			h.halt()
		case <-done:
		}
	}()

	fileOpts := syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}

	predeclared := starlark.StringDict{
		"intcode": Module,
	}

	return starlark.ExecFileOptions(&fileOpts, thread, filename, src, predeclared)
}

// threadHost returns the host of the run executing thread.
func threadHost(thread *starlark.Thread) *host {
	if h, ok := thread.Local(_local_host).(*host); ok {
		return h
	}
	return &host{ctx: context.Background()}
}
