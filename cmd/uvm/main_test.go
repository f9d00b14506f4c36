package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/uvm/cpu"
	uvmio "github.com/ezrec/uvm/io"
)

func testOptions(t *testing.T, source string) (opt options) {
	dir := t.TempDir()

	opt = options{
		input:     filepath.Join(dir, "in.bin"),
		result:    filepath.Join(dir, "result.json"),
		registers: cpu.REGISTER_COUNT,
		memory:    cpu.MEMORY_SIZE,
	}

	code, _, err := cpu.Assemble(source)
	if err != nil {
		t.Fatal(err)
	}

	err = os.WriteFile(opt.input, code, 0o644)
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestExecute(t *testing.T) {
	assert := assert.New(t)

	opt := testOptions(t, "LOAD_CONST 52 473\nSTORE_MEM 500 52\n")
	opt.memStart = 499
	opt.memEnd = 501

	values, err := execute(opt, &uvmio.Artifacts{})
	assert.NoError(err)
	assert.Equal([]int64{0, 473, 0}, values)

	data, err := os.ReadFile(opt.result)
	assert.NoError(err)
	assert.Equal("[\n  0,\n  473,\n  0\n]\n", string(data))
}

func TestExecuteFailure(t *testing.T) {
	assert := assert.New(t)

	// Bad range.
	opt := testOptions(t, "LOAD_CONST 1 1\n")
	opt.memStart = 10
	opt.memEnd = 9
	_, err := execute(opt, &uvmio.Artifacts{})
	var ri *cpu.ErrRangeInvalid
	assert.ErrorAs(err, &ri)
	_, err = os.Stat(opt.result)
	assert.ErrorIs(err, os.ErrNotExist)

	// Out of range memory for a small machine.
	opt = testOptions(t, "LOAD_MEM 1 900\n")
	opt.memory = 512
	_, err = execute(opt, &uvmio.Artifacts{})
	assert.ErrorIs(err, cpu.ErrMemoryInvalid)
	_, err = os.Stat(opt.result)
	assert.ErrorIs(err, os.ErrNotExist)

	// Truncated binary.
	opt = testOptions(t, "LOAD_CONST 1 1\n")
	assert.NoError(os.WriteFile(opt.input, []byte{0x02, 0x00}, 0o644))
	_, err = execute(opt, &uvmio.Artifacts{})
	var et *cpu.ErrTruncated
	assert.ErrorAs(err, &et)

	entries, err := os.ReadDir(filepath.Dir(opt.input))
	assert.NoError(err)
	assert.Len(entries, 1)
}

func TestMissing(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		args  []string
		unset []string
	}){
		{nil, []string{"i", "r", "memstart", "memend"}},
		{[]string{"-i", "in.bin", "-r", "out.json"}, []string{"memstart", "memend"}},
		{[]string{"-i", "in.bin", "-r", "out.json", "--memstart", "0"}, []string{"memend"}},
		{[]string{"-i", "in.bin", "-r", "out.json", "--memstart", "0", "--memend", "0"}, nil},
	}

	for _, entry := range table {
		flags := flag.NewFlagSet("uvm", flag.ContinueOnError)
		flags.SetOutput(io.Discard)
		flags.String("i", "", "")
		flags.String("r", "", "")
		flags.Int("memstart", 0, "")
		flags.Int("memend", 0, "")

		assert.NoError(flags.Parse(entry.args))
		assert.Equal(entry.unset, missing(flags, "i", "r", "memstart", "memend"), entry.args)
	}
}
