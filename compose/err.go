package compose

import (
	"errors"
	"strconv"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrStarved       = errors.New(f("machine suspended for input"))
	ErrDeadlock      = errors.New(f("no machine can make progress"))
	ErrNoResult      = errors.New(f("final machine produced no output"))
	ErrCount         = errors.New(f("machine count invalid"))
	ErrRoundLimit    = errors.New(f("round limit exceeded"))
	ErrPacketAddress = errors.New(f("packet address invalid"))
)

// ErrInstance indicates which machine of a composition failed.
type ErrInstance struct {
	Index int
	Err   error
}

func (err *ErrInstance) Error() string {
	return f("machine %s: %v", strconv.Itoa(err.Index), err.Err)
}

func (err *ErrInstance) Unwrap() error {
	return err.Err
}

// ErrPacket is a packet sent to an address with no machine.
type ErrPacket struct {
	Source      int64
	Destination int64
}

func (err ErrPacket) Error() string {
	return f("packet from %s to unknown address %s", strconv.FormatInt(err.Source, 10), strconv.FormatInt(err.Destination, 10))
}

func (err ErrPacket) Is(target error) bool {
	return target == ErrPacketAddress
}
