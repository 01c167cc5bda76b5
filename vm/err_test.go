package vm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorText(t *testing.T) {
	table := [](struct {
		err  error
		text string
	}){
		{ErrOpcode{Ip: 12345, Opcode: 1234}, "bad opcode 1234 at ip 12345"},
		{ErrAddress(-1000000), "address -1000000 is negative"},
		{ErrMode{Param: 2, Mode: 7}, "parameter 2: bad mode 7"},
		{ErrMode{Param: 3, Mode: MODE_IMMEDIATE, Write: true}, "parameter 3: immediate mode write target"},
		{&ErrRuntime{Ip: 40000, Word: 21101, Err: ErrAddress(-5000)}, "ip 40000 word 21101: address -5000 is negative"},
		{&ErrSyntax{Index: 1500, Token: "x", Err: errors.New("bad")}, "token 1500 'x' bad"},
	}

	for _, entry := range table {
		assert := assert.New(t)
		assert.Equal(entry.text, entry.err.Error())
	}
}
