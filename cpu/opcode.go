package cpu

import (
	"fmt"
)

// Opcode is the 3-bit instruction tag held in the low bits of the first byte.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_STORE_MEM  = Opcode(0) // STORE_MEM
	OP_LOAD_CONST = Opcode(2) // LOAD_CONST
	OP_EQ         = Opcode(3) // EQ
	OP_LOAD_MEM   = Opcode(4) // LOAD_MEM
)

const (
	OPCODE_BITS = 3                      // Width of the opcode tag.
	OPCODE_MASK = (1 << OPCODE_BITS) - 1 // Mask of the opcode tag.
)

// Opcodes lists every defined opcode, in tag order.
var Opcodes = []Opcode{OP_STORE_MEM, OP_LOAD_CONST, OP_EQ, OP_LOAD_MEM}

// layout is the fixed encoding shape of an opcode.
type layout struct {
	size   int  // Encoded size in bytes.
	bWidth uint // Width of operand B in bits.
	cWidth uint // Width of operand C in bits.
}

// layouts is indexed by opcode tag; a zero size marks an undefined tag.
var layouts = [1 << OPCODE_BITS]layout{
	OP_STORE_MEM:  {size: 5, bWidth: 26, cWidth: 6},
	OP_LOAD_CONST: {size: 4, bWidth: 6, cWidth: 17},
	OP_EQ:         {size: 2, bWidth: 6, cWidth: 6},
	OP_LOAD_MEM:   {size: 5, bWidth: 6, cWidth: 26},
}

// Valid returns true if the opcode is one of the defined tags.
func (op Opcode) Valid() bool {
	return int(op) < len(layouts) && layouts[op].size != 0
}

// Size returns the encoded size in bytes, or 0 for an undefined opcode.
func (op Opcode) Size() int {
	if !op.Valid() {
		return 0
	}
	return layouts[op].size
}

// Widths returns the bit widths of the B and C operands.
func (op Opcode) Widths() (b, c uint) {
	if !op.Valid() {
		return
	}
	return layouts[op].bWidth, layouts[op].cWidth
}

// Limits returns the largest encodable B and C operands.
func (op Opcode) Limits() (b, c uint64) {
	bw, cw := op.Widths()
	return (1 << bw) - 1, (1 << cw) - 1
}

// mnemonicMap maps upper case mnemonics to opcodes.
var mnemonicMap = func() map[string]Opcode {
	m := make(map[string]Opcode, len(Opcodes))
	for _, op := range Opcodes {
		m[op.String()] = op
	}
	return m
}()

// LookupOpcode finds the opcode for an upper case mnemonic.
func LookupOpcode(mnemonic string) (op Opcode, ok bool) {
	op, ok = mnemonicMap[mnemonic]
	return
}

// Instruction is a decoded instruction: the opcode tag and its two operands.
type Instruction struct {
	Opcode Opcode
	B      uint64
	C      uint64
}

// Check verifies the opcode is defined and both operands fit their widths.
func (ins Instruction) Check() (err error) {
	if !ins.Opcode.Valid() {
		err = ErrOpcodeTag(ins.Opcode)
		return
	}

	bmax, cmax := ins.Opcode.Limits()
	bw, cw := ins.Opcode.Widths()
	switch {
	case ins.B > bmax:
		err = &ErrOperandWidth{Opcode: ins.Opcode, Operand: "B", Value: ins.B, Width: bw}
	case ins.C > cmax:
		err = &ErrOperandWidth{Opcode: ins.Opcode, Operand: "C", Value: ins.C, Width: cw}
	}

	return
}

// Masked returns the instruction with both operands truncated to their widths.
func (ins Instruction) Masked() Instruction {
	bmax, cmax := ins.Opcode.Limits()
	ins.B &= bmax
	ins.C &= cmax
	return ins
}

// Encode packs the instruction into its fixed size byte sequence.
//
// Bits 0..2 hold the opcode, followed by B, then C, least significant bit
// first. The packed value is written least significant byte first.
func (ins Instruction) Encode() (code []byte, err error) {
	err = ins.Check()
	if err != nil {
		return
	}

	bw, _ := ins.Opcode.Widths()
	word := uint64(ins.Opcode) | (ins.B << OPCODE_BITS) | (ins.C << (OPCODE_BITS + bw))

	code = make([]byte, ins.Opcode.Size())
	for n := range code {
		code[n] = byte(word >> (8 * n))
	}

	return
}

// String returns the assembly language representation of the instruction.
func (ins Instruction) String() string {
	return fmt.Sprintf("%v %d %d", ins.Opcode, ins.B, ins.C)
}

// Decode unpacks the instruction starting at offset in code, returning the
// number of bytes it occupies.
func Decode(code []byte, offset int) (ins Instruction, size int, err error) {
	if offset < 0 || offset >= len(code) {
		err = &ErrTruncated{Offset: offset, Need: 1, Have: 0}
		return
	}

	op := Opcode(code[offset] & OPCODE_MASK)
	if !op.Valid() {
		err = ErrOpcodeTag(op)
		return
	}

	size = op.Size()
	have := len(code) - offset
	if have < size {
		err = &ErrTruncated{Offset: offset, Opcode: op, Need: size, Have: have}
		size = 0
		return
	}

	var word uint64
	for n := range size {
		word |= uint64(code[offset+n]) << (8 * n)
	}

	bw, cw := op.Widths()
	ins = Instruction{
		Opcode: op,
		B:      (word >> OPCODE_BITS) & ((1 << bw) - 1),
		C:      (word >> (OPCODE_BITS + bw)) & ((1 << cw) - 1),
	}

	return
}
