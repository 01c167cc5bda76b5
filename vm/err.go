package vm

import (
	"errors"
	"strconv"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

// num renders a value in plain decimal, without locale digit grouping.
func num[T ~int | ~int64](value T) string {
	return strconv.FormatInt(int64(value), 10)
}

var (
	// Loader errors
	ErrParse = errors.New(f("not an integer"))

	// Memory errors
	ErrAddressNegative = errors.New(f("negative address"))

	// Instruction decode errors
	ErrOpcodeInvalid = errors.New(f("opcode invalid"))
	ErrModeInvalid   = errors.New(f("addressing mode invalid"))
	ErrModeWrite     = errors.New(f("immediate mode write target"))

	// Execution errors
	ErrFaulted   = errors.New(f("machine faulted, reset required"))
	ErrStepLimit = errors.New(f("step limit exceeded"))
)

// ErrSyntax reports a program text token that is not an integer.
type ErrSyntax struct {
	Index int    // Zero based token index.
	Token string // Token text, whitespace trimmed.
	Err   error
}

func (err *ErrSyntax) Error() string {
	return f("token %s '%v' %v", num(err.Index), err.Token, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrAddress is a negative memory address.
type ErrAddress int64

func (ea ErrAddress) Error() string {
	return f("address %s is negative", num(ea))
}

func (ea ErrAddress) Is(err error) bool {
	return err == ErrAddressNegative
}

// ErrOpcode is an instruction word whose opcode is unknown.
type ErrOpcode struct {
	Ip     int64
	Opcode int64
}

func (eo ErrOpcode) Error() string {
	return f("bad opcode %s at ip %s", num(eo.Opcode), num(eo.Ip))
}

func (eo ErrOpcode) Is(err error) bool {
	return err == ErrOpcodeInvalid
}

// ErrMode is a parameter with an unusable addressing mode.
type ErrMode struct {
	Param int // One based parameter index.
	Mode  Mode
	Write bool // Set if the parameter is a write target.
}

func (em ErrMode) Error() string {
	if em.Write && em.Mode == MODE_IMMEDIATE {
		return f("parameter %s: immediate mode write target", num(em.Param))
	}
	return f("parameter %s: bad mode %s", num(em.Param), num(em.Mode))
}

func (em ErrMode) Is(err error) bool {
	if err == ErrModeInvalid {
		return true
	}
	return err == ErrModeWrite && em.Write && em.Mode == MODE_IMMEDIATE
}

// ErrRuntime indicates the location of a fatal runtime error.
type ErrRuntime struct {
	Ip   int64
	Word int64
	Err  error
}

func (err *ErrRuntime) Error() string {
	return f("ip %s word %s: %v", num(err.Ip), num(err.Word), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
