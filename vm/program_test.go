package vm

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	table := [](struct {
		text    string
		program Program
		index   int
	}){
		{"1,0,0,0,99", Program{1, 0, 0, 0, 99}, -1},
		{" 1 , -2,\t3 \n", Program{1, -2, 3}, -1},
		{"104,1125899906842624,99", Program{104, 1125899906842624, 99}, -1},
		{"", Program{}, -1},
		{" \n\t", Program{}, -1},
		{"42", Program{42}, -1},
		{"+7", Program{7}, -1},
		{"1,,2", nil, 1},
		{"1,2,", nil, 2},
		{"1 2", nil, 0},
		{"1,x,3", nil, 1},
		{"0x10", nil, 0},
		{"9223372036854775808", nil, 0},
	}

	for _, entry := range table {
		assert := assert.New(t)

		prog, err := Parse(entry.text)
		if entry.index < 0 {
			assert.NoError(err, entry.text)
			assert.Equal(entry.program, prog, entry.text)
			continue
		}

		assert.ErrorIs(err, ErrParse, entry.text)
		assert.Nil(prog, entry.text)

		var es *ErrSyntax
		if assert.True(errors.As(err, &es), entry.text) {
			assert.Equal(entry.index, es.Index, entry.text)
		}
	}
}

func TestProgramString(t *testing.T) {
	assert := assert.New(t)

	prog, err := Parse(quine)
	assert.NoError(err)
	assert.Equal(quine, prog.String())

	assert.Equal("", Program{}.String())
}

func TestProgramClone(t *testing.T) {
	assert := assert.New(t)

	prog := Program{1, 2, 3}
	clone := prog.Clone()
	clone[0] = 9
	assert.Equal(Program{1, 2, 3}, prog)
	assert.Nil(Program(nil).Clone())
}

func TestReadProgram(t *testing.T) {
	assert := assert.New(t)

	prog, err := ReadProgram(strings.NewReader("1,0,0,0,99\n"))
	assert.NoError(err)
	assert.Equal(Program{1, 0, 0, 0, 99}, prog)

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	assert.NoError(err)
	_, err = enc.Write([]byte(quine))
	assert.NoError(err)
	assert.NoError(enc.Close())

	prog, err = ReadProgram(&buf)
	assert.NoError(err)
	assert.Equal(quine, prog.String())

	// Shorter than the frame header.
	prog, err = ReadProgram(strings.NewReader("9"))
	assert.NoError(err)
	assert.Equal(Program{9}, prog)
}

func TestLoadProgram(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "prog.txt")
	assert.NoError(os.WriteFile(path, []byte("104,5,99\n"), 0o644))

	prog, err := LoadProgram(path)
	assert.NoError(err)
	assert.Equal(Program{104, 5, 99}, prog)

	bad := filepath.Join(dir, "bad.txt")
	assert.NoError(os.WriteFile(bad, []byte("104,five,99"), 0o644))
	_, err = LoadProgram(bad)
	assert.ErrorIs(err, ErrParse)
	assert.Contains(err.Error(), bad)

	_, err = LoadProgram(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(err, os.ErrNotExist)
}
