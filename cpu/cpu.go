package cpu

import (
	"fmt"
	"log"
	"strings"
)

const (
	REGISTER_COUNT = 64   // Default register bank size.
	MEMORY_SIZE    = 1024 // Default memory size.
)

// Cpu is the simulation context for the virtual machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pc       int     // Byte offset of the next instruction.
	Register []int64 // Register bank.
	Memory   []int64 // Memory cells.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU with a specifically sized register bank and memory.
func NewCpu(registers, memory int) (cpu *Cpu) {
	cpu = &Cpu{
		Register: make([]int64, registers),
		Memory:   make([]int64, memory),
	}

	return
}

// Reset the CPU state: zeros the registers, memory, pc and tick counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register)
	clear(cpu.Memory)
	cpu.Pc = 0
	cpu.Ticks = 0
}

// String returns the current CPU state as a string.
// Only non-zero registers are shown.
func (cpu *Cpu) String() (text string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%5s: %d\n", "pc", cpu.Pc)
	for n, val := range cpu.Register {
		if val == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%5s: %d\n", fmt.Sprintf("r%d", n), val)
	}

	return sb.String()
}

// Halted returns true once the pc has consumed all of code.
func (cpu *Cpu) Halted(code []byte) bool {
	return cpu.Pc >= len(code)
}

// checkRegister validates a register index.
func (cpu *Cpu) checkRegister(index uint64) (err error) {
	if index >= uint64(len(cpu.Register)) {
		err = ErrRegisterRange(index)
	}
	return
}

// checkMemory validates a memory address.
func (cpu *Cpu) checkMemory(addr uint64) (err error) {
	if addr >= uint64(len(cpu.Memory)) {
		err = ErrMemoryRange(addr)
	}
	return
}

// Fetch decodes the instruction at the current pc.
func (cpu *Cpu) Fetch(code []byte) (ins Instruction, size int, err error) {
	return Decode(code, cpu.Pc)
}

// Execute executes a single decoded instruction.
// A failing instruction leaves the registers and memory untouched.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: %04x: %v", cpu.Pc, ins)
	}

	switch ins.Opcode {
	case OP_LOAD_CONST:
		err = cpu.checkRegister(ins.B)
		if err != nil {
			return
		}
		cpu.Register[ins.B] = int64(ins.C)
	case OP_LOAD_MEM:
		err = cpu.checkMemory(ins.C)
		if err != nil {
			return
		}
		err = cpu.checkRegister(ins.B)
		if err != nil {
			return
		}
		cpu.Register[ins.B] = cpu.Memory[ins.C]
	case OP_STORE_MEM:
		// B is the memory address, C the register.
		err = cpu.checkMemory(ins.B)
		if err != nil {
			return
		}
		err = cpu.checkRegister(ins.C)
		if err != nil {
			return
		}
		cpu.Memory[ins.B] = cpu.Register[ins.C]
	case OP_EQ:
		err = cpu.checkRegister(ins.B)
		if err != nil {
			return
		}
		err = cpu.checkRegister(ins.C)
		if err != nil {
			return
		}
		var result int64
		if cpu.Register[ins.B] == cpu.Register[ins.C] {
			result = 1
		}
		cpu.Register[ins.B] = result
	default:
		err = ErrOpcodeTag(ins.Opcode)
		return
	}

	cpu.Ticks += 1

	return
}

// Tick executes the instruction at the pc, then advances the pc past it.
// done is set once the pc has reached the end of code.
func (cpu *Cpu) Tick(code []byte) (done bool, err error) {
	if cpu.Halted(code) {
		done = true
		return
	}

	ins, size, err := cpu.Fetch(code)
	if err != nil {
		err = &ErrRuntime{Pc: cpu.Pc, Opcode: Opcode(code[cpu.Pc] & OPCODE_MASK), Err: err}
		return
	}

	err = cpu.Execute(ins)
	if err != nil {
		err = &ErrRuntime{Pc: cpu.Pc, Opcode: ins.Opcode, Err: err}
		return
	}

	cpu.Pc += size
	done = cpu.Halted(code)

	return
}

// Run executes code from the current pc until it halts.
func (cpu *Cpu) Run(code []byte) (err error) {
	for done := cpu.Halted(code); !done; {
		done, err = cpu.Tick(code)
		if err != nil {
			return
		}
	}

	return
}

// Dump returns memory[start..end], inclusive.
func (cpu *Cpu) Dump(start, end int) (values []int64, err error) {
	if start < 0 || end >= len(cpu.Memory) || start > end {
		err = &ErrRangeInvalid{Start: start, End: end}
		return
	}

	values = make([]int64, end-start+1)
	copy(values, cpu.Memory[start:end+1])

	return
}
