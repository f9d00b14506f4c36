package emulator

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	ErrConfigRegisters = errors.New(f("register count must be positive"))
	ErrConfigMemory    = errors.New(f("memory size must be positive"))
)

// ErrPresetRange is a preset vector that does not fit in memory.
type ErrPresetRange string

func (err ErrPresetRange) Error() string {
	return f("preset %v outside of memory", string(err))
}

// ErrRuntime indicates the source location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
