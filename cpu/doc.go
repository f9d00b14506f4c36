// Package cpu implements the instruction codec, assembler and interpreter
// for the uvm bytecode.
//
// Every instruction is an opcode tag and two unsigned operands, B and C,
// packed least significant bit first into a fixed number of bytes. The low
// three bits of the first byte hold the tag, and the tag alone determines how
// many bytes the instruction occupies:
//
//	LOAD_CONST (2)  4 bytes  B:6  C:17  register[B] = C
//	STORE_MEM  (0)  5 bytes  B:26 C:6   memory[B] = register[C]
//	EQ         (3)  2 bytes  B:6  C:6   register[B] = register[B] == register[C]
//	LOAD_MEM   (4)  5 bytes  B:6  C:26  register[B] = memory[C]
//
// A binary image is a plain concatenation of encoded instructions, executed
// from offset 0 until the program counter reaches the end of the image.
package cpu
