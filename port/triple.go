package port

// TripleState is the field a Triple expects next.
type TripleState int

//go:generate go tool stringer -linecomment -type=TripleState
const (
	TRIPLE_X = TripleState(0) // x
	TRIPLE_Y = TripleState(1) // y
	TRIPLE_Z = TripleState(2) // z
)

// Triple assembles consecutive output values into (x, y, z) records,
// such as (destination, x, y) packets or (x, y, tile) screen updates, and
// hands each complete record to Handler.
type Triple struct {
	Handler func(x, y, z int64) error

	State TripleState
	x, y  int64
}

var _ Output = (*Triple)(nil)

// Send stores value in the expected field and advances the state.
func (tr *Triple) Send(value int64) (err error) {
	switch tr.State {
	case TRIPLE_X:
		tr.x = value
		tr.State = TRIPLE_Y
	case TRIPLE_Y:
		tr.y = value
		tr.State = TRIPLE_Z
	case TRIPLE_Z:
		tr.State = TRIPLE_X
		if tr.Handler != nil {
			err = tr.Handler(tr.x, tr.y, value)
		}
	default:
		err = ErrRecordLength
	}

	return
}

// Partial returns true if a record has been started but not completed.
func (tr *Triple) Partial() bool {
	return tr.State != TRIPLE_X
}

// Reset discards any partial record.
func (tr *Triple) Reset() {
	tr.State = TRIPLE_X
	tr.x, tr.y = 0, 0
}
