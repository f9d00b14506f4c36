package cpu

import (
	"encoding/hex"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/zeebo/blake3"
)

// Record is the audit form of an assembled instruction.
type Record struct {
	A uint8  `json:"A"`
	B uint64 `json:"B"`
	C uint64 `json:"C"`
}

// Statement is one instruction of a program with its source location.
type Statement struct {
	LineNo int      // Source line, 0 when disassembled.
	Offset int      // Byte offset of the encoding in the binary.
	Words  []string // Source words.
	Instruction
	Code []byte // Encoded bytes.
}

// Record returns the audit record of the statement.
func (st *Statement) Record() Record {
	return Record{A: uint8(st.Opcode), B: st.B, C: st.C}
}

// Program is an assembled or disassembled instruction stream, in binary order.
type Program struct {
	Statements []Statement
}

// Debug locates a byte offset within a program.
type Debug struct {
	*Statement     // Statement covering the offset, or nil.
	Index      int // Byte index of the offset within the statement's code.
}

// Debug finds the statement whose encoding covers byte offset pc.
func (prog *Program) Debug(pc int) (dbg Debug) {
	for n, st := range prog.Statements {
		if pc >= st.Offset && pc < st.Offset+len(st.Code) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     pc - st.Offset,
			}
			break
		}
	}

	return
}

// Size returns the size of the binary image in bytes.
func (prog *Program) Size() (size int) {
	for _, st := range prog.Statements {
		size += len(st.Code)
	}
	return
}

// Binary returns the concatenated instruction encodings.
func (prog *Program) Binary() (code []byte) {
	code = make([]byte, 0, prog.Size())
	for _, st := range prog.Statements {
		code = append(code, st.Code...)
	}

	return
}

// Audit returns the audit records, in program order.
func (prog *Program) Audit() (records []Record) {
	records = make([]Record, 0, len(prog.Statements))
	for n := range prog.Statements {
		records = append(records, prog.Statements[n].Record())
	}

	return
}

// Instructions iterates over the byte offset and instruction of each statement.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(offset int, ins Instruction) bool) {
		for _, st := range prog.Statements {
			if !yield(st.Offset, st.Instruction) {
				return
			}
		}
	}
}

// Digest returns the hex BLAKE3 digest of the binary image.
func (prog *Program) Digest() string {
	sum := blake3.Sum256(prog.Binary())
	return hex.EncodeToString(sum[:])
}

// String returns a listing of the program.
func (prog *Program) String() string {
	var sb strings.Builder
	for _, st := range prog.Statements {
		fmt.Fprintf(&sb, "%06x: %-10s %v\n", st.Offset, hex.EncodeToString(st.Code), st.Instruction)
	}
	return sb.String()
}

// Disassemble decodes a binary image from offset 0 until its end.
// A trailing partial instruction is an error.
func Disassemble(code []byte) (prog *Program, err error) {
	prog = &Program{}

	for pc := 0; pc < len(code); {
		var ins Instruction
		var size int
		ins, size, err = Decode(code, pc)
		if err != nil {
			prog = nil
			return
		}
		prog.Statements = append(prog.Statements, Statement{
			Offset:      pc,
			Words:       strings.Fields(ins.String()),
			Instruction: ins,
			Code:        slices.Clone(code[pc : pc+size]),
		})
		pc += size
	}

	return
}
