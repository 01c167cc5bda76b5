// Package compose drives one or more IntCode machines as a unit.
//
// Machines exchange values only through ports. A scheduler runs each
// machine until it halts, suspends for input or is stopped, then moves on
// to the next, so a single goroutine drives the whole composition.
//
// Three compositions are provided:
//   - RunSingle runs one machine to completion.
//   - Chain connects machines in a ring of queues, each seeded with a
//     phase setting, and reports the last output of the final machine.
//   - Network routes (destination, x, y) packets between machines, with a
//     monitor that wakes the network when it goes idle.
package compose
