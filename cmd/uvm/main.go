// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/ezrec/uvm/emulator"
	uvmio "github.com/ezrec/uvm/io"
)

type options struct {
	input     string
	result    string
	memStart  int
	memEnd    int
	registers int
	memory    int
	verbose   bool
}

// missing returns the named flags that were not set on the command line.
func missing(flags *flag.FlagSet, names ...string) (unset []string) {
	set := map[string]bool{}
	flags.Visit(func(fl *flag.Flag) {
		set[fl.Name] = true
	})

	for _, name := range names {
		if !set[name] {
			unset = append(unset, name)
		}
	}

	return
}

// execute runs the binary image and writes memory[memStart..memEnd] as the
// JSON result.
func execute(opt options, arts *uvmio.Artifacts) (values []int64, err error) {
	code, err := os.ReadFile(opt.input)
	if err != nil {
		return
	}

	config := emulator.DefaultConfig()
	config.Registers = opt.registers
	config.Memory = opt.memory

	emu, err := emulator.NewEmulator(config)
	if err != nil {
		return
	}
	emu.Verbose = opt.verbose

	emu.Load(code)

	err = emu.Run()
	if err != nil {
		return
	}

	values, err = emu.Cpu.Dump(opt.memStart, opt.memEnd)
	if err != nil {
		return
	}

	result, err := arts.Create(opt.result)
	if err != nil {
		return
	}
	err = uvmio.WriteJSON(result, values)
	if err != nil {
		return
	}

	err = arts.Commit()

	return
}

func main() {
	var opt options

	flag.StringVar(&opt.input, "i", "", "binary image to execute")
	flag.StringVar(&opt.result, "r", "", "JSON result file to write")
	flag.IntVar(&opt.memStart, "memstart", 0, "First memory cell of the result")
	flag.IntVar(&opt.memEnd, "memend", 0, "Last memory cell of the result, inclusive")
	flag.IntVar(&opt.registers, "registers", 64, "Register count")
	flag.IntVar(&opt.memory, "memory", 1024, "Memory size, in cells")
	flag.BoolVar(&opt.verbose, "v", false, "Verbose mode")

	flag.Parse()

	log.SetFlags(0)

	if flag.NArg() != 0 {
		atexit.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	unset := missing(flag.CommandLine, "i", "r", "memstart", "memend")
	if len(unset) != 0 {
		log.Printf("%v: missing flags: %v", os.Args[0], unset)
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

	values, err := execute(opt, arts)
	if err != nil {
		atexit.Fatalf("%v: %v", opt.input, err)
	}

	if opt.verbose {
		log.Printf("%v: memory[%d..%d] = %v", opt.result, opt.memStart, opt.memEnd, values)
	}

	atexit.Exit(0)
}
