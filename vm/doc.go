// Package vm implements the IntCode virtual machine.
//
// A machine holds a private zero-initialized memory loaded from a Program,
// an instruction pointer (IP) and a relative base register. Instructions
// encode an opcode in their two low decimal digits and one addressing mode
// digit per parameter above it: position, immediate or relative.
//
// Execution suspends, without error, when an input instruction finds no
// value available. Calling Run again after supplying input resumes at the
// same instruction, which lets callers drive many machines cooperatively
// from a single goroutine.
package vm
