package vm

// Status is the execution state of a machine between calls.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	STATUS_READY     = Status(0) // ready
	STATUS_RUNNING   = Status(1) // running
	STATUS_SUSPENDED = Status(2) // suspended
	STATUS_STOPPED   = Status(3) // stopped
	STATUS_HALTED    = Status(4) // halted
	STATUS_FAULTED   = Status(5) // faulted
)
