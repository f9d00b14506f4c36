package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op     Opcode
		name   string
		size   int
		bWidth uint
		cWidth uint
	}){
		{OP_STORE_MEM, "STORE_MEM", 5, 26, 6},
		{OP_LOAD_CONST, "LOAD_CONST", 4, 6, 17},
		{OP_EQ, "EQ", 2, 6, 6},
		{OP_LOAD_MEM, "LOAD_MEM", 5, 6, 26},
	}

	for _, entry := range table {
		assert.True(entry.op.Valid(), entry.name)
		assert.Equal(entry.name, entry.op.String())
		assert.Equal(entry.size, entry.op.Size(), entry.name)
		bw, cw := entry.op.Widths()
		assert.Equal(entry.bWidth, bw, entry.name)
		assert.Equal(entry.cWidth, cw, entry.name)

		op, ok := LookupOpcode(entry.name)
		assert.True(ok, entry.name)
		assert.Equal(entry.op, op)
	}

	for _, tag := range []Opcode{1, 5, 6, 7} {
		assert.False(tag.Valid())
		assert.Equal(0, tag.Size())
	}

	_, ok := LookupOpcode("load_const")
	assert.False(ok)
}

func TestEncode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		ins  Instruction
		code []byte
	}){
		// 2 | 52<<3 | 473<<9
		{Instruction{OP_LOAD_CONST, 52, 473}, []byte{0xa2, 0xb3, 0x03, 0x00}},
		// 0 | 500<<3 | 52<<29
		{Instruction{OP_STORE_MEM, 500, 52}, []byte{0xa0, 0x0f, 0x00, 0x80, 0x06}},
		// 3 | 60<<3 | 9<<9
		{Instruction{OP_EQ, 60, 9}, []byte{0xe3, 0x13}},
		// 4 | 41<<3 | 387<<9
		{Instruction{OP_LOAD_MEM, 41, 387}, []byte{0x4c, 0x07, 0x03, 0x00, 0x00}},
		{Instruction{OP_EQ, 0, 0}, []byte{0x03, 0x00}},
		{Instruction{OP_LOAD_CONST, 63, 0x1ffff}, []byte{0xfa, 0xff, 0xff, 0x03}},
		{Instruction{OP_STORE_MEM, 0x3ffffff, 63}, []byte{0xf8, 0xff, 0xff, 0xff, 0x07}},
		{Instruction{OP_LOAD_MEM, 63, 0x3ffffff}, []byte{0xfc, 0xff, 0xff, 0xff, 0x07}},
	}

	for _, entry := range table {
		code, err := entry.ins.Encode()
		assert.NoError(err, entry.ins.String())
		assert.Equal(entry.code, code, entry.ins.String())
		assert.Equal(entry.ins.Opcode, Opcode(code[0]&OPCODE_MASK), entry.ins.String())

		ins, size, err := Decode(code, 0)
		assert.NoError(err, entry.ins.String())
		assert.Equal(entry.ins, ins)
		assert.Equal(len(entry.code), size)
	}
}

func TestEncodeRange(t *testing.T) {
	assert := assert.New(t)

	table := []Instruction{
		{OP_LOAD_CONST, 64, 0},
		{OP_LOAD_CONST, 0, 0x20000},
		{OP_STORE_MEM, 0x4000000, 0},
		{OP_STORE_MEM, 0, 64},
		{OP_EQ, 64, 0},
		{OP_EQ, 0, 64},
		{OP_LOAD_MEM, 64, 0},
		{OP_LOAD_MEM, 0, 0x4000000},
	}

	for _, ins := range table {
		code, err := ins.Encode()
		assert.Nil(code, ins.String())
		assert.ErrorIs(err, ErrOperandInvalid, ins.String())
		var ew *ErrOperandWidth
		assert.True(errors.As(err, &ew), ins.String())
	}

	_, err := Instruction{Opcode: 7}.Encode()
	assert.ErrorIs(err, ErrOpcodeDecode)
}

func TestMasked(t *testing.T) {
	assert := assert.New(t)

	ins := Instruction{OP_LOAD_CONST, 64 + 5, 0x20000 + 7}.Masked()
	assert.Equal(Instruction{OP_LOAD_CONST, 5, 7}, ins)

	code, err := ins.Encode()
	assert.NoError(err)
	assert.Equal(4, len(code))

	ins = Instruction{OP_STORE_MEM, 1 << 26, 65}.Masked()
	assert.Equal(Instruction{OP_STORE_MEM, 0, 1}, ins)
}

func TestDecodeErrors(t *testing.T) {
	assert := assert.New(t)

	for _, tag := range []byte{1, 5, 6, 7} {
		_, size, err := Decode([]byte{tag, 0, 0, 0, 0}, 0)
		assert.ErrorIs(err, ErrOpcodeDecode)
		assert.Equal(ErrOpcodeTag(tag), err)
		assert.Equal(0, size)
	}

	table := [](struct {
		code   []byte
		offset int
		need   int
		have   int
	}){
		{[]byte{0x02, 0x00, 0x00}, 0, 4, 3},
		{[]byte{0x00, 0x00, 0x00, 0x00}, 0, 5, 4},
		{[]byte{0x04}, 0, 5, 1},
		{[]byte{0x03, 0x00, 0x03}, 2, 2, 1},
		{[]byte{0x03, 0x00}, 2, 1, 0},
		{[]byte{}, 0, 1, 0},
	}

	for _, entry := range table {
		_, _, err := Decode(entry.code, entry.offset)
		var et *ErrTruncated
		if assert.True(errors.As(err, &et), "%#v", entry.code) {
			assert.Equal(entry.offset, et.Offset)
			assert.Equal(entry.need, et.Need)
			assert.Equal(entry.have, et.Have)
		}
	}
}

func TestDecodeSequence(t *testing.T) {
	assert := assert.New(t)

	program := []Instruction{
		{OP_LOAD_CONST, 10, 100},
		{OP_LOAD_MEM, 1, 100},
		{OP_LOAD_MEM, 2, 200},
		{OP_EQ, 1, 2},
		{OP_STORE_MEM, 200, 1},
	}

	var code []byte
	for _, ins := range program {
		enc, err := ins.Encode()
		assert.NoError(err)
		code = append(code, enc...)
	}
	assert.Equal(4+5+5+2+5, len(code))

	var decoded []Instruction
	pc := 0
	for pc < len(code) {
		ins, size, err := Decode(code, pc)
		if !assert.NoError(err) {
			break
		}
		decoded = append(decoded, ins)
		pc += size
	}

	assert.Equal(len(code), pc)
	assert.Equal(program, decoded)
}

func FuzzCodec(f *testing.F) {
	for _, op := range Opcodes {
		f.Add(uint8(op), uint64(0), uint64(0))
		f.Add(uint8(op), ^uint64(0), ^uint64(0))
		f.Add(uint8(op), uint64(63), uint64(1023))
	}

	f.Fuzz(func(t *testing.T, tag uint8, b uint64, c uint64) {
		assert := assert.New(t)

		ins := Instruction{Opcode: Opcode(tag & OPCODE_MASK), B: b, C: c}
		if !ins.Opcode.Valid() {
			_, err := ins.Encode()
			assert.ErrorIs(err, ErrOpcodeDecode)
			return
		}

		bmax, cmax := ins.Opcode.Limits()
		code, err := ins.Encode()
		if b > bmax || c > cmax {
			assert.ErrorIs(err, ErrOperandInvalid, ins.String())
			ins = ins.Masked()
			code, err = ins.Encode()
		}
		assert.NoError(err, ins.String())
		assert.Equal(ins.Opcode.Size(), len(code), ins.String())

		out, size, err := Decode(code, 0)
		assert.NoError(err, ins.String())
		assert.Equal(ins, out)
		assert.Equal(len(code), size)
	})
}
