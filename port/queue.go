package port

// Queue is a FIFO of values. It is both an Input and an Output, so the
// output of one machine can be the input of another.
type Queue struct {
	data []int64
	head int
}

var _ Input = (*Queue)(nil)
var _ Output = (*Queue)(nil)

// Add appends a value.
func (q *Queue) Add(value int64) {
	q.data = append(q.data, value)
}

// AddAll appends values in order.
func (q *Queue) AddAll(values ...int64) {
	q.data = append(q.data, values...)
}

// Len returns the number of pending values.
func (q *Queue) Len() int {
	return len(q.data) - q.head
}

// Values returns a copy of the pending values.
func (q *Queue) Values() []int64 {
	return append([]int64{}, q.data[q.head:]...)
}

// Receive removes and returns the oldest value.
func (q *Queue) Receive() (value int64, ok bool) {
	if q.Len() == 0 {
		return
	}

	value, ok = q.data[q.head], true
	q.head++

	// Compact once the consumed prefix dominates.
	if q.head == len(q.data) {
		q.data = q.data[:0]
		q.head = 0
	} else if q.head > 64 && q.head*2 > len(q.data) {
		q.data = append(q.data[:0], q.data[q.head:]...)
		q.head = 0
	}

	return
}

// Send appends a value.
func (q *Queue) Send(value int64) error {
	q.Add(value)
	return nil
}

// Reset drops all pending values.
func (q *Queue) Reset() {
	q.data = q.data[:0]
	q.head = 0
}
