package port

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Protocol errors
	ErrNotASCII     = errors.New(f("not ascii"))
	ErrRecordLength = errors.New(f("record length invalid"))
)
