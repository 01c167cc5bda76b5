package vm

import (
	"fmt"
	"strings"
)

// Opcode is the operation selected by the two low decimal digits of an
// instruction word.
type Opcode int64

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_ADD  = Opcode(1)  // add
	OP_MUL  = Opcode(2)  // mul
	OP_IN   = Opcode(3)  // in
	OP_OUT  = Opcode(4)  // out
	OP_JT   = Opcode(5)  // jt
	OP_JF   = Opcode(6)  // jf
	OP_LT   = Opcode(7)  // lt
	OP_EQ   = Opcode(8)  // eq
	OP_ARB  = Opcode(9)  // arb
	OP_HALT = Opcode(99) // halt
)

// Mode is a parameter addressing mode.
type Mode int64

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_POSITION  = Mode(0) // pos
	MODE_IMMEDIATE = Mode(1) // imm
	MODE_RELATIVE  = Mode(2) // rel
)

const (
	MAX_PARAMS = 3 // Most parameters taken by any opcode.
)

// opcodeShape describes the parameters of an opcode.
type opcodeShape struct {
	params int // Number of parameters.
	write  int // One based index of the write target parameter, or 0.
}

var _opcode_shape = map[Opcode]opcodeShape{
	OP_ADD:  {params: 3, write: 3},
	OP_MUL:  {params: 3, write: 3},
	OP_IN:   {params: 1, write: 1},
	OP_OUT:  {params: 1},
	OP_JT:   {params: 2},
	OP_JF:   {params: 2},
	OP_LT:   {params: 3, write: 3},
	OP_EQ:   {params: 3, write: 3},
	OP_ARB:  {params: 1},
	OP_HALT: {params: 0},
}

// Valid returns true for a known addressing mode.
func (mode Mode) Valid() bool {
	return mode >= MODE_POSITION && mode <= MODE_RELATIVE
}

// Params returns the number of parameters taken by the opcode.
func (op Opcode) Params() int {
	return _opcode_shape[op].params
}

// Size returns the number of words, including the opcode word, that the
// instruction occupies.
func (op Opcode) Size() int64 {
	return int64(op.Params()) + 1
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Word   int64
	Opcode Opcode
	Modes  [MAX_PARAMS]Mode
}

// Decode splits an instruction word into its opcode and the addressing
// modes of the parameters the opcode uses. Mode digits past the opcode's
// parameter count are ignored.
func Decode(word int64) (ins Instruction, err error) {
	ins.Word = word
	ins.Opcode = Opcode(word % 100)

	shape, ok := _opcode_shape[ins.Opcode]
	if !ok || word < 0 {
		err = ErrOpcode{Opcode: int64(ins.Opcode)}
		return
	}

	div := word / 100
	for n := range shape.params {
		mode := Mode(div % 10)
		div /= 10
		ins.Modes[n] = mode
		write := shape.write == n+1
		if !mode.Valid() || (write && mode == MODE_IMMEDIATE) {
			err = ErrMode{Param: n + 1, Mode: mode, Write: write}
			return
		}
	}

	return
}

// Writes returns the one based index of the write target parameter, or 0.
func (ins Instruction) Writes() int {
	return _opcode_shape[ins.Opcode].write
}

// String returns a mnemonic rendering, such as "add.pos.imm.rel".
func (ins Instruction) String() string {
	words := []string{ins.Opcode.String()}
	for n := range ins.Opcode.Params() {
		words = append(words, ins.Modes[n].String())
	}
	return strings.Join(words, ".")
}

// Disassemble renders the instruction with its parameter words.
func (ins Instruction) Disassemble(params []int64) string {
	var sb strings.Builder
	sb.WriteString(ins.Opcode.String())
	for n, param := range params {
		switch ins.Modes[n] {
		case MODE_POSITION:
			fmt.Fprintf(&sb, " [%d]", param)
		case MODE_IMMEDIATE:
			fmt.Fprintf(&sb, " %d", param)
		case MODE_RELATIVE:
			fmt.Fprintf(&sb, " [rb%+d]", param)
		}
	}
	return sb.String()
}
