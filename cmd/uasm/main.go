// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/emulator"
	uvmio "github.com/ezrec/uvm/io"
)

type options struct {
	input    string
	output   string
	logfile  string
	truncate bool
	verbose  bool
}

// assemble writes the binary image and audit log, or neither.
func assemble(opt options, arts *uvmio.Artifacts) (prog *cpu.Program, err error) {
	emu, err := emulator.NewEmulator(emulator.DefaultConfig())
	if err != nil {
		return
	}

	asm := &cpu.Assembler{
		Verbose:  opt.verbose,
		Truncate: opt.truncate,
	}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}

	inf, err := os.Open(opt.input)
	if err != nil {
		return
	}
	defer inf.Close()

	prog, err = asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", opt.input, err)
		return
	}

	bin, err := arts.Create(opt.output)
	if err != nil {
		return
	}
	_, err = bin.Write(prog.Binary())
	if err != nil {
		return
	}

	audit, err := arts.Create(opt.logfile)
	if err != nil {
		return
	}
	err = uvmio.WriteJSON(audit, prog.Audit())
	if err != nil {
		return
	}

	err = arts.Commit()

	return
}

func main() {
	var opt options

	flag.StringVar(&opt.input, "i", "", ".asm source file to assemble")
	flag.StringVar(&opt.output, "o", "", "binary image to write")
	flag.StringVar(&opt.logfile, "l", "", "JSON audit log to write")
	flag.BoolVar(&opt.truncate, "truncate", false, "Mask oversized operands instead of rejecting them")
	flag.BoolVar(&opt.verbose, "v", false, "Verbose mode")

	flag.Parse()

	log.SetFlags(0)

	if flag.NArg() != 0 {
		atexit.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(opt.input) == 0 || len(opt.output) == 0 || len(opt.logfile) == 0 {
		flag.Usage()
		atexit.Exit(2)
	}

	arts := &uvmio.Artifacts{Verbose: opt.verbose}
	atexit.Register(func() {
		err := arts.Discard()
		if err != nil {
			log.Print(err)
		}
	})

	prog, err := assemble(opt, arts)
	if err != nil {
		atexit.Fatal(err)
	}

	if opt.verbose {
		log.Printf("%v: %d bytes, blake3 %v", opt.output, prog.Size(), prog.Digest())
		log.Print(prog.String())
	}

	atexit.Exit(0)
}
