package vm

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	table := [](struct {
		word   int64
		opcode Opcode
		modes  [MAX_PARAMS]Mode
		text   string
	}){
		{1, OP_ADD, [3]Mode{}, "add.pos.pos.pos"},
		{1002, OP_MUL, [3]Mode{MODE_POSITION, MODE_IMMEDIATE, MODE_POSITION}, "mul.pos.imm.pos"},
		{21101, OP_ADD, [3]Mode{MODE_IMMEDIATE, MODE_IMMEDIATE, MODE_RELATIVE}, "add.imm.imm.rel"},
		{203, OP_IN, [3]Mode{MODE_RELATIVE}, "in.rel"},
		{104, OP_OUT, [3]Mode{MODE_IMMEDIATE}, "out.imm"},
		{1105, OP_JT, [3]Mode{MODE_IMMEDIATE, MODE_IMMEDIATE}, "jt.imm.imm"},
		{6, OP_JF, [3]Mode{}, "jf.pos.pos"},
		{21107, OP_LT, [3]Mode{MODE_IMMEDIATE, MODE_IMMEDIATE, MODE_RELATIVE}, "lt.imm.imm.rel"},
		{8, OP_EQ, [3]Mode{}, "eq.pos.pos.pos"},
		{209, OP_ARB, [3]Mode{MODE_RELATIVE}, "arb.rel"},
		{99, OP_HALT, [3]Mode{}, "halt"},
		// Mode digits past the parameter count are ignored.
		{99999, OP_HALT, [3]Mode{}, "halt"},
		{90104, OP_OUT, [3]Mode{MODE_IMMEDIATE}, "out.imm"},
	}

	for _, entry := range table {
		assert := assert.New(t)

		ins, err := Decode(entry.word)
		assert.NoError(err, entry.word)
		assert.Equal(entry.word, ins.Word)
		assert.Equal(entry.opcode, ins.Opcode, entry.word)
		assert.Equal(entry.modes, ins.Modes, entry.word)
		assert.Equal(entry.text, ins.String(), entry.word)
	}
}

func TestDecodeError(t *testing.T) {
	table := [](struct {
		word   int64
		target error
	}){
		{0, ErrOpcodeInvalid},
		{10, ErrOpcodeInvalid},
		{98, ErrOpcodeInvalid},
		{-1, ErrOpcodeInvalid},
		{-99, ErrOpcodeInvalid},
		{301, ErrModeInvalid},
		{4002, ErrModeInvalid},
		{10001, ErrModeWrite},
		{103, ErrModeWrite},
		{11108, ErrModeWrite},
	}

	for _, entry := range table {
		assert := assert.New(t)

		_, err := Decode(entry.word)
		assert.ErrorIs(err, entry.target, entry.word)
	}

	// Immediate write targets are both invalid and specifically a write error.
	_, err := Decode(10001)
	assert.ErrorIs(t, err, ErrModeInvalid)
	var em ErrMode
	assert.True(t, errors.As(err, &em))
	assert.Equal(t, 3, em.Param)

	// A bad read mode is not a write error.
	_, err = Decode(301)
	assert.NotErrorIs(t, err, ErrModeWrite)
}

func TestOpcodeSize(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(int64(4), OP_ADD.Size())
	assert.Equal(int64(2), OP_IN.Size())
	assert.Equal(int64(3), OP_JF.Size())
	assert.Equal(int64(1), OP_HALT.Size())
	assert.Equal(3, Instruction{Opcode: OP_EQ}.Writes())
	assert.Equal(0, Instruction{Opcode: OP_OUT}.Writes())
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	ins, err := Decode(21001)
	assert.NoError(err)
	assert.Equal("add [4] 5 [rb-3]", ins.Disassemble([]int64{4, 5, -3}))

	ins, err = Decode(99)
	assert.NoError(err)
	assert.Equal("halt", ins.Disassemble(nil))
}

func TestStrings(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("arb", OP_ARB.String())
	assert.Equal("Opcode(42)", Opcode(42).String())
	assert.Equal("rel", MODE_RELATIVE.String())
	assert.Equal("suspended", STATUS_SUSPENDED.String())
}

// FuzzStep executes arbitrary programs a bounded number of steps, checking
// that the machine never panics, that faults are sticky and that both
// memory backends agree.
func FuzzStep(f *testing.F) {
	f.Add(int64(1), int64(0), int64(0), int64(0), int64(99))
	f.Add(int64(3), int64(9), int64(8), int64(9), int64(10))
	f.Add(int64(109), int64(-1), int64(204), int64(-1), int64(99))
	f.Add(int64(1105), int64(1), int64(-3), int64(0), int64(0))
	f.Add(int64(21101), int64(1<<62), int64(1<<62), int64(1<<40), int64(99))
	f.Add(int64(1101), int64(1), int64(1), int64(math.MaxInt64), int64(99))

	f.Fuzz(func(t *testing.T, a, b, c, d, e int64) {
		var outputs [2][]int64
		var status [2]Status

		for n, opt := range []Option{Headroom(0), SparseMemory()} {
			vm, err := New(Program{a, b, c, d, e}, opt, StepLimit(64))
			if err != nil {
				t.Fatal(err)
			}

			outputs[n], err = vm.Run(1, 2, 3)
			status[n] = vm.Status()
			switch vm.Status() {
			case STATUS_FAULTED:
				var rt *ErrRuntime
				if !errors.As(err, &rt) {
					t.Fatalf("fault without runtime error: %v", err)
				}
				if err = vm.Step(); !errors.Is(err, ErrFaulted) {
					t.Fatalf("fault not sticky: %v", err)
				}
			case STATUS_STOPPED:
				if !errors.Is(err, ErrStepLimit) {
					t.Fatalf("stopped without step limit: %v", err)
				}
			case STATUS_HALTED, STATUS_SUSPENDED:
				if err != nil {
					t.Fatalf("%v with error: %v", vm.Status(), err)
				}
			default:
				t.Fatalf("unexpected status %v", vm.Status())
			}
		}

		if status[0] != status[1] {
			t.Fatalf("dense %v, sparse %v", status[0], status[1])
		}
		if !slices.Equal(outputs[0], outputs[1]) {
			t.Fatalf("dense %v, sparse %v", outputs[0], outputs[1])
		}
	})
}
