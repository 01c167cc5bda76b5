package port

import (
	"iter"
)

// Seq is an Input pulling values from an iterator. Once the iterator is
// exhausted every Receive reports no value.
type Seq struct {
	next func() (int64, bool)
	stop func()
}

var _ Input = (*Seq)(nil)

// FromSeq creates a Seq input. Close releases the iterator if it is not
// consumed to the end.
func FromSeq(seq iter.Seq[int64]) *Seq {
	next, stop := iter.Pull(seq)
	return &Seq{next: next, stop: stop}
}

// Receive returns the next value of the iterator.
func (s *Seq) Receive() (value int64, ok bool) {
	if s.next == nil {
		return
	}
	value, ok = s.next()
	if !ok {
		s.Close()
	}
	return
}

// Close stops the iterator.
func (s *Seq) Close() error {
	if s.stop != nil {
		s.stop()
	}
	s.next = nil
	s.stop = nil
	return nil
}
