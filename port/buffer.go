package port

import (
	"errors"
)

// Buffer records every value sent to it.
type Buffer struct {
	Values []int64
}

var _ Output = (*Buffer)(nil)

// Send records a value.
func (buf *Buffer) Send(value int64) error {
	buf.Values = append(buf.Values, value)
	return nil
}

// Last returns the most recently recorded value.
func (buf *Buffer) Last() (value int64, ok bool) {
	if len(buf.Values) == 0 {
		return
	}
	return buf.Values[len(buf.Values)-1], true
}

// Reset drops the recorded values.
func (buf *Buffer) Reset() {
	buf.Values = nil
}

type tee []Output

// Tee returns an Output that sends each value to every output in turn.
// All outputs see every value; their errors are joined.
func Tee(outputs ...Output) Output {
	return tee(outputs)
}

func (t tee) Send(value int64) (err error) {
	var errs []error
	for _, out := range t {
		errs = append(errs, out.Send(value))
	}
	return errors.Join(errs...)
}
