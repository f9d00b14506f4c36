package cpu

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Instruction decode errors
	ErrOpcodeDecode   = errors.New(f("decode"))
	ErrOperandInvalid = errors.New(f("operand invalid"))

	// Cpu errors
	ErrRegisterInvalid = errors.New(f("register out of range"))
	ErrMemoryInvalid   = errors.New(f("memory out of range"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
)

// ErrOpcodeTag is an undefined opcode tag.
type ErrOpcodeTag Opcode

func (eo ErrOpcodeTag) Error() string {
	return f("unknown opcode tag %d", uint8(eo))
}

func (eo ErrOpcodeTag) Is(err error) bool {
	return err == ErrOpcodeDecode
}

// ErrTruncated indicates fewer bytes remain than the instruction needs.
type ErrTruncated struct {
	Offset int
	Opcode Opcode
	Need   int
	Have   int
}

func (err *ErrTruncated) Error() string {
	if err.Have == 0 {
		return f("truncated instruction at offset %d", err.Offset)
	}
	return f("truncated %v at offset %d: need %d bytes, have %d", err.Opcode, err.Offset, err.Need, err.Have)
}

// ErrInstructionUnknown is an unrecognised mnemonic.
type ErrInstructionUnknown string

func (err ErrInstructionUnknown) Error() string {
	return f("unknown instruction '%v'", string(err))
}

// ErrParseNumber is an operand that is not a base-10 unsigned integer.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

func (err ErrParseNumber) Is(target error) bool {
	return target == ErrOperandInvalid
}

// ErrOperandMissing names the operand absent from an instruction line.
type ErrOperandMissing string

func (err ErrOperandMissing) Error() string {
	return f("operand %v missing", string(err))
}

func (err ErrOperandMissing) Is(target error) bool {
	return target == ErrOperandInvalid
}

// ErrOperandWidth is an operand too large for its encoded field.
type ErrOperandWidth struct {
	Opcode  Opcode
	Operand string
	Value   uint64
	Width   uint
}

func (err *ErrOperandWidth) Error() string {
	return f("%v operand %v %d exceeds %d bits", err.Opcode, err.Operand, err.Value, err.Width)
}

func (err *ErrOperandWidth) Is(target error) bool {
	return target == ErrOperandInvalid
}

// ErrParseExpression is a $(...) expression that does not yield an unsigned integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

func (err ErrParseExpression) Is(target error) bool {
	return target == ErrOperandInvalid
}

// ErrRegisterRange is a register index outside the register bank.
type ErrRegisterRange uint64

func (err ErrRegisterRange) Error() string {
	return f("register %d out of range", uint64(err))
}

func (err ErrRegisterRange) Is(target error) bool {
	return target == ErrRegisterInvalid
}

// ErrMemoryRange is a memory address outside the memory array.
type ErrMemoryRange uint64

func (err ErrMemoryRange) Error() string {
	return f("memory address %d out of range", uint64(err))
}

func (err ErrMemoryRange) Is(target error) bool {
	return target == ErrMemoryInvalid
}

// ErrRangeInvalid is a malformed or out of bounds memory dump range.
type ErrRangeInvalid struct {
	Start int
	End   int
}

func (err *ErrRangeInvalid) Error() string {
	return f("invalid memory range %d..%d", err.Start, err.End)
}

// ErrSyntax locates an assembly error in the source.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrRuntime locates an execution error in the binary.
type ErrRuntime struct {
	Pc     int
	Opcode Opcode
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("pc %d %v: %v", err.Pc, err.Opcode, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
