package port

import (
	"fmt"
	"io"
)

const (
	ASCII_NEWLINE = 10  // Line terminator of the ASCII protocol.
	ASCII_LIMIT   = 128 // Values at or above this are not characters.
)

// ASCIIInput feeds text lines as character codes, each line terminated by
// a newline. When no text is queued and Source is set, the next line is
// pulled from Source.
type ASCIIInput struct {
	Source func() (line string, ok bool)

	queue Queue
}

var _ Input = (*ASCIIInput)(nil)

// WriteLine queues line followed by a newline.
func (in *ASCIIInput) WriteLine(line string) (err error) {
	for n := range len(line) {
		if line[n] >= ASCII_LIMIT {
			return fmt.Errorf("%w: %q", ErrNotASCII, line)
		}
	}

	for n := range len(line) {
		in.queue.Add(int64(line[n]))
	}
	in.queue.Add(ASCII_NEWLINE)

	return
}

// Len returns the number of queued character codes.
func (in *ASCIIInput) Len() int {
	return in.queue.Len()
}

// Receive returns the next character code.
func (in *ASCIIInput) Receive() (value int64, ok bool) {
	for in.queue.Len() == 0 {
		if in.Source == nil {
			return
		}
		line, more := in.Source()
		if !more {
			in.Source = nil
			return
		}
		if in.WriteLine(line) != nil {
			// Skip lines that cannot be encoded.
			continue
		}
	}

	return in.queue.Receive()
}

// ASCIIOutput writes character codes as text. Values that are not
// characters are recorded in Values and written in decimal on their own
// line.
type ASCIIOutput struct {
	Writer io.Writer
	Values []int64
}

var _ Output = (*ASCIIOutput)(nil)

// Send writes or records a value.
func (out *ASCIIOutput) Send(value int64) (err error) {
	if value >= 0 && value < ASCII_LIMIT {
		if out.Writer != nil {
			_, err = out.Writer.Write([]byte{byte(value)})
		}
		return
	}

	out.Values = append(out.Values, value)
	if out.Writer != nil {
		_, err = fmt.Fprintf(out.Writer, "%d\n", value)
	}

	return
}
