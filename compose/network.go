// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package compose

import (
	"context"
	"log"

	"github.com/ezrec/intcode/port"
	"github.com/ezrec/intcode/vm"
)

const (
	MONITOR_ADDRESS = 255 // Default address of the network monitor.
	NIC_EMPTY       = -1  // Value received by a machine with no pending packet.
)

// nic is the network interface of a single machine.
type nic struct {
	address int64
	queue   port.Queue
	packets port.Triple
	outbox  [][3]int64 // Packets sent during the current run, as (dest, x, y).
	machine *vm.Vm
}

var _ port.Input = (*nic)(nil)

// Receive returns the next queued value. When none is queued, it returns
// NIC_EMPTY and asks the machine to yield after the current instruction.
func (ni *nic) Receive() (value int64, ok bool) {
	value, ok = ni.queue.Receive()
	if ok {
		return
	}

	ni.machine.Halt()

	return NIC_EMPTY, true
}

// Network is a set of machines exchanging (destination, x, y) packets.
//
// Packets to the monitor address are held by the monitor, each replacing
// the one before. When a round ends with no machine holding pending input
// and the monitor holding a packet, the network is idle: the held packet
// is delivered to machine 0. The network stops when the monitor delivers
// the same y value twice in a row.
type Network struct {
	Verbose bool // Set to enable verbose logging.

	nics []*nic

	monitorAddress int64
	firstMonitor   bool
	maxRounds      int
	onPacket       func(src, dest, x, y int64)

	held      bool
	monitor   [2]int64
	delivered bool
	lastY     int64
	first     bool
	firstY    int64
	rounds    int
}

// NetworkOption configures a network.
type NetworkOption func(nw *Network) error

// MonitorAddress sets the address of the monitor. The default is
// MONITOR_ADDRESS.
func MonitorAddress(address int64) NetworkOption {
	return func(nw *Network) error {
		nw.monitorAddress = address
		return nil
	}
}

// StopAtFirstMonitor stops the network at the first packet sent to the
// monitor, returning its y value.
func StopAtFirstMonitor() NetworkOption {
	return func(nw *Network) error {
		nw.firstMonitor = true
		return nil
	}
}

// MaxRounds bounds the number of rounds a run may take. Zero means
// unlimited.
func MaxRounds(rounds int) NetworkOption {
	return func(nw *Network) error {
		nw.maxRounds = rounds
		return nil
	}
}

// OnPacket calls fn for every packet sent, before it is routed.
func OnPacket(fn func(src, dest, x, y int64)) NetworkOption {
	return func(nw *Network) error {
		nw.onPacket = fn
		return nil
	}
}

// NetworkVmOptions applies machine options to every machine of the
// network. Input and output options are overridden by the network wiring.
func NetworkVmOptions(opts ...vm.Option) NetworkOption {
	return func(nw *Network) error {
		for _, ni := range nw.nics {
			err := ni.machine.SetOptions(opts...)
			if err != nil {
				return err
			}
			err = nw.wire(ni)
			if err != nil {
				return err
			}
		}
		return nil
	}
}

// NewNetwork creates a network of count machines running prog, with
// addresses 0 to count-1.
func NewNetwork(prog vm.Program, count int, opts ...NetworkOption) (nw *Network, err error) {
	if count <= 0 {
		err = ErrCount
		return
	}

	nw = &Network{
		nics:           make([]*nic, count),
		monitorAddress: MONITOR_ADDRESS,
	}

	for n := range count {
		ni := &nic{address: int64(n)}
		ni.machine, err = vm.New(prog)
		if err != nil {
			return nil, err
		}
		err = nw.wire(ni)
		if err != nil {
			return nil, err
		}
		nw.nics[n] = ni
	}

	for _, opt := range opts {
		err = opt(nw)
		if err != nil {
			return nil, err
		}
	}

	return
}

// RunNetwork runs a network of count machines running prog, until the
// monitor repeats a y value.
func RunNetwork(ctx context.Context, prog vm.Program, count int) (y int64, err error) {
	nw, err := NewNetwork(prog, count)
	if err != nil {
		return
	}

	return nw.Run(ctx)
}

// wire connects a machine to its interface. Packets wait in the outbox
// until the machine's run returns.
func (nw *Network) wire(ni *nic) error {
	ni.packets.Handler = func(dest, x, y int64) error {
		ni.outbox = append(ni.outbox, [3]int64{dest, x, y})
		if nw.firstMonitor && dest == nw.monitorAddress {
			ni.machine.Halt()
		}
		return nil
	}
	return ni.machine.SetOptions(vm.Input(ni), vm.Output(&ni.packets))
}

// Len returns the number of machines.
func (nw *Network) Len() int {
	return len(nw.nics)
}

// Machine returns the machine at address n.
func (nw *Network) Machine(n int) *vm.Vm {
	return nw.nics[n].machine
}

// Rounds returns the number of rounds run by the last run.
func (nw *Network) Rounds() int {
	return nw.rounds
}

// Monitor returns the packet held by the monitor, if any.
func (nw *Network) Monitor() (x, y int64, ok bool) {
	return nw.monitor[0], nw.monitor[1], nw.held
}

// route delivers a packet sent by machine src.
func (nw *Network) route(src, dest, x, y int64) error {
	if nw.Verbose {
		log.Printf("intcode: network: %d -> %d (%d, %d)", src, dest, x, y)
	}

	if nw.onPacket != nil {
		nw.onPacket(src, dest, x, y)
	}

	if dest == nw.monitorAddress {
		nw.monitor = [2]int64{x, y}
		nw.held = true
		if nw.firstMonitor && !nw.first {
			nw.first = true
			nw.firstY = y
		}
		return nil
	}

	if dest < 0 || dest >= int64(len(nw.nics)) {
		return ErrPacket{Source: src, Destination: dest}
	}

	nw.nics[dest].queue.AddAll(x, y)

	return nil
}

// idle returns true when no machine has pending input and the monitor
// holds a packet.
func (nw *Network) idle() bool {
	if !nw.held {
		return false
	}

	for _, ni := range nw.nics {
		if ni.queue.Len() > 0 {
			return false
		}
	}

	return true
}

// reset restarts every machine and seeds it with its address.
func (nw *Network) reset() {
	for _, ni := range nw.nics {
		ni.machine.Reset()
		ni.packets.Reset()
		ni.outbox = nil
		ni.queue.Reset()
		ni.queue.Add(ni.address)
	}

	nw.held = false
	nw.monitor = [2]int64{}
	nw.delivered = false
	nw.lastY = 0
	nw.first = false
	nw.firstY = 0
	nw.rounds = 0
}

// Run restarts the network and drives it round-robin, each round running
// every machine once in address order. The packets a machine sends are
// routed when its run returns, before the next machine runs.
//
// Run returns the y value the monitor delivers twice in a row, or with
// StopAtFirstMonitor, the y value of the first monitor packet. It fails
// with ctx.Err() when ctx is done and with ErrRoundLimit when the round
// limit is reached.
func (nw *Network) Run(ctx context.Context) (y int64, err error) {
	nw.reset()

	for {
		err = ctx.Err()
		if err != nil {
			return
		}

		if nw.maxRounds > 0 && nw.rounds >= nw.maxRounds {
			err = ErrRoundLimit
			return
		}
		nw.rounds++

		alive := 0
		for n, ni := range nw.nics {
			if ni.machine.IsHalted() {
				continue
			}
			alive++

			_, err = ni.machine.Run()
			if err != nil {
				err = &ErrInstance{Index: n, Err: err}
				return
			}

			outbox := ni.outbox
			ni.outbox = nil
			for _, packet := range outbox {
				err = nw.route(ni.address, packet[0], packet[1], packet[2])
				if err != nil {
					err = &ErrInstance{Index: n, Err: err}
					return
				}
			}

			if nw.first {
				y = nw.firstY
				return
			}
		}

		if alive == 0 {
			err = ErrDeadlock
			return
		}

		if !nw.idle() {
			continue
		}

		mx, my := nw.monitor[0], nw.monitor[1]
		nw.held = false

		if nw.Verbose {
			log.Printf("intcode: network: idle after round %d, wake (%d, %d)", nw.rounds, mx, my)
		}

		nw.nics[0].queue.AddAll(mx, my)

		if nw.delivered && nw.lastY == my {
			y = my
			return
		}
		nw.delivered = true
		nw.lastY = my
	}
}
