// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/internal"
)

// Preset is a fixed vector written into memory at every reset.
type Preset struct {
	Name   string  // Equate prefix, ie VECTOR_A gives VECTOR_A_BASE and VECTOR_A_LEN.
	Base   int     // Memory address of the first value.
	Values []int64 // Values to write.
}

var (
	// VectorA is the first default preset.
	VectorA = Preset{Name: "VECTOR_A", Base: 100, Values: []int64{10, 20, 30, 40, 50, 60, 70, 80}}
	// VectorB is the second default preset.
	VectorB = Preset{Name: "VECTOR_B", Base: 200, Values: []int64{10, 20, 35, 40, 55, 60, 70, 85}}
)

// Config sizes the machine and lists its presets.
type Config struct {
	Registers int      // Register bank size.
	Memory    int      // Memory size, in cells.
	Presets   []Preset // Applied in order on reset.
}

// DefaultConfig returns a 64 register, 1024 cell machine with VectorA and
// VectorB preset.
func DefaultConfig() Config {
	return Config{
		Registers: cpu.REGISTER_COUNT,
		Memory:    cpu.MEMORY_SIZE,
		Presets:   []Preset{VectorA, VectorB},
	}
}

// Check validates the configuration.
func (cfg Config) Check() (err error) {
	if cfg.Registers <= 0 {
		err = ErrConfigRegisters
		return
	}
	if cfg.Memory <= 0 {
		err = ErrConfigMemory
		return
	}
	for _, preset := range cfg.Presets {
		if preset.Base < 0 || preset.Base+len(preset.Values) > cfg.Memory {
			err = ErrPresetRange(preset.Name)
			return
		}
	}

	return
}

// Emulator state. CPU + presets + the binary being executed.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Config   Config       // Machine configuration.
	Program  *cpu.Program // Optional source listing, for line numbers.
	Code     []byte       // Binary image being executed.
}

// NewEmulator creates a new emulator, reset and ready to load code.
func NewEmulator(config Config) (emu *Emulator, err error) {
	err = config.Check()
	if err != nil {
		return
	}

	emu = &Emulator{
		Cpu:    cpu.NewCpu(config.Registers, config.Memory),
		Config: config,
	}

	emu.Reset()

	return
}

// Defines returns an iterator over the equates describing the machine, for
// use as assembler predefines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	sizes := map[string]string{
		"REGISTER_COUNT": fmt.Sprintf("%d", emu.Config.Registers),
		"MEMORY_SIZE":    fmt.Sprintf("%d", emu.Config.Memory),
	}

	seqs := []iter.Seq2[string, string]{maps.All(sizes)}
	for _, preset := range emu.Config.Presets {
		seqs = append(seqs, maps.All(map[string]string{
			preset.Name + "_BASE": fmt.Sprintf("%d", preset.Base),
			preset.Name + "_LEN":  fmt.Sprintf("%d", len(preset.Values)),
		}))
	}

	return internal.Concat2(seqs...)
}

// Reset zeros the machine, re-applies the presets, and rewinds to offset 0.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	for _, preset := range emu.Config.Presets {
		if emu.Verbose {
			log.Printf("emulator: preset %v at %d: %v", preset.Name, preset.Base, preset.Values)
		}
		copy(emu.Cpu.Memory[preset.Base:], preset.Values)
	}
}

// Load resets the machine and installs a binary image.
func (emu *Emulator) Load(code []byte) {
	emu.Program = nil
	emu.Code = code
	emu.Reset()
}

// LoadProgram resets the machine and installs an assembled program.
func (emu *Emulator) LoadProgram(prog *cpu.Program) {
	emu.Load(prog.Binary())
	emu.Program = prog
}

// LineNo returns the source line number for the executing instruction, or
// 0 if not known.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil && lineno != 0 {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	done, err = emu.Cpu.Tick(emu.Code)

	return
}

// Run executes the loaded code until it halts.
func (emu *Emulator) Run() (err error) {
	for done := emu.Cpu.Halted(emu.Code); !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	if emu.Verbose {
		log.Printf("emulator: halted at %d after %d instructions", emu.Cpu.Pc, emu.Cpu.Ticks)
	}

	return
}

// Run executes code on a default machine, and returns memory[start..end].
func Run(code []byte, start, end int) (values []int64, err error) {
	emu, err := NewEmulator(DefaultConfig())
	if err != nil {
		return
	}

	emu.Load(code)

	err = emu.Run()
	if err != nil {
		return
	}

	values, err = emu.Cpu.Dump(start, end)

	return
}
