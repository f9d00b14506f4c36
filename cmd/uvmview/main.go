// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/emulator"
)

func main() {
	var input string
	var memStart int
	var memEnd int

	flag.StringVar(&input, "i", "", "binary image to view")
	flag.IntVar(&memStart, "memstart", emulator.VectorA.Base, "First memory cell to show")
	flag.IntVar(&memEnd, "memend", emulator.VectorB.Base+len(emulator.VectorB.Values)-1, "Last memory cell to show")

	flag.Parse()

	log.SetFlags(0)

	if flag.NArg() != 0 {
		atexit.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(input) == 0 {
		flag.Usage()
		atexit.Exit(2)
	}

	code, err := os.ReadFile(input)
	if err != nil {
		atexit.Fatal(err)
	}

	prog, err := cpu.Disassemble(code)
	if err != nil {
		atexit.Fatalf("%v: %v", input, err)
	}

	emu, err := emulator.NewEmulator(emulator.DefaultConfig())
	if err != nil {
		atexit.Fatal(err)
	}
	emu.LoadProgram(prog)

	_, err = emu.Cpu.Dump(memStart, memEnd)
	if err != nil {
		atexit.Fatal(err)
	}

	viewer := NewViewer(emu, memStart, memEnd)
	err = viewer.Run()
	if err != nil {
		atexit.Fatal(err)
	}

	atexit.Exit(0)
}
