package vm

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	pkgerrors "github.com/pkg/errors"
)

// zstdMagic is the frame header of a zstd compressed stream.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Program is the immutable initial memory image of a machine.
type Program []int64

// Parse parses comma separated base-10 integers. Whitespace around each
// token is ignored; a whitespace-only text is an empty program.
func Parse(text string) (prog Program, err error) {
	if strings.TrimSpace(text) == "" {
		return Program{}, nil
	}

	tokens := strings.Split(text, ",")
	prog = make(Program, 0, len(tokens))
	for n, token := range tokens {
		token = strings.TrimSpace(token)
		var value int64
		value, err = strconv.ParseInt(token, 10, 64)
		if err != nil {
			err = &ErrSyntax{Index: n, Token: token, Err: errors.Join(ErrParse, err)}
			return nil, err
		}
		prog = append(prog, value)
	}

	return
}

// ReadProgram reads and parses a whole program text stream. Streams that
// start with a zstd frame header are decompressed first.
func ReadProgram(r io.Reader) (prog Program, err error) {
	br := bufio.NewReader(r)

	head, _ := br.Peek(len(zstdMagic))
	var in io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		var dec *zstd.Decoder
		dec, err = zstd.NewReader(br)
		if err != nil {
			return
		}
		defer dec.Close()
		in = dec
	}

	text, err := io.ReadAll(in)
	if err != nil {
		return
	}

	return Parse(string(text))
}

// LoadProgram loads a program from file fileName.
func LoadProgram(fileName string) (Program, error) {
	inf, err := os.Open(fileName)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "LoadProgram")
	}
	defer inf.Close()

	prog, err := ReadProgram(inf)
	if err != nil {
		return nil, pkgerrors.Wrap(err, fileName)
	}

	return prog, nil
}

// Clone returns a deep copy of the program.
func (prog Program) Clone() Program {
	if prog == nil {
		return nil
	}
	return append(Program{}, prog...)
}

// String returns the canonical comma separated text of the program.
func (prog Program) String() string {
	var sb strings.Builder
	for n, value := range prog {
		if n > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(value, 10))
	}
	return sb.String()
}
