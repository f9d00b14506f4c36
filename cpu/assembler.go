// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const (
	COMMENT_CHAR = "#"    // Starts a comment, running to end of line.
	EQUATE_CMD   = ".equ" // Equate directive.
	EXPR_START   = "$("   // Starts a compile-time expression.
)

// Assembler is a single pass assembler for the uvm instruction set.
//
// Each source line holds one instruction: a mnemonic followed by its B and C
// operands. Anything after the C operand is ignored.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Truncate  bool        // If set, masks oversized operands instead of rejecting them.
	Statement []Statement // List of generated statements.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate, for all
// subsequent calls to Parse.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a base-10 operand word.
func (asm *Assembler) valueOf(word string) (value uint64, err error) {
	value, err = strconv.ParseUint(word, 10, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 uint64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeUint64(value64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Uint64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// splitWords splits a line at white space, keeping each $(...) expression,
// spaces included, inside its word.
func splitWords(line string) (words []string) {
	var word strings.Builder
	depth := 0

	for n, r := range line {
		switch {
		case depth == 0 && strings.HasPrefix(line[n:], EXPR_START):
			depth = 1
		case depth > 0 && r == '(' && line[n-1] != '$':
			depth++
		case depth > 0 && r == ')':
			depth--
		case depth == 0 && unicode.IsSpace(r):
			if word.Len() != 0 {
				words = append(words, word.String())
				word.Reset()
			}
			continue
		}
		word.WriteRune(r)
	}

	if word.Len() != 0 {
		words = append(words, word.String())
	}

	return
}

// expandWord replaces every $(...) expression in word with its value.
func (asm *Assembler) expandWord(word string) (expanded string, err error) {
	var out strings.Builder

	for {
		before, after, found := strings.Cut(word, EXPR_START)
		out.WriteString(before)
		if !found {
			break
		}

		depth := 1
		end := strings.IndexFunc(after, func(r rune) bool {
			switch r {
			case '(':
				depth++
			case ')':
				depth--
			}
			return depth == 0
		})
		if end < 0 {
			err = ErrParseExpression(after)
			return
		}

		var value uint64
		value, err = asm.parenEval(after[:end])
		if err != nil {
			return
		}
		fmt.Fprintf(&out, "%d", value)

		word = after[end+1:]
	}

	expanded = out.String()

	return
}

// parseLine splits a single line into words, handling comments, $(...)
// expressions, equate definitions and equate substitution. Only the two
// operand words are expanded; anything after them is ignored.
func (asm *Assembler) parseLine(line string) (words []string, err error) {
	line, _, _ = strings.Cut(line, COMMENT_CHAR)

	words = splitWords(line)
	if len(words) == 0 {
		return
	}

	for n := 1; n < len(words) && n <= len(operandNames); n++ {
		words[n], err = asm.expandWord(words[n])
		if err != nil {
			return
		}
	}

	// .equ NAME VALUE
	if strings.EqualFold(words[0], EQUATE_CMD) {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words[1:] {
		equate, ok := asm.Equate[word]
		if ok {
			words[1+n] = equate
		}
	}

	return
}

// currentOffset gets the byte offset of the next statement.
func (asm *Assembler) currentOffset() int {
	if len(asm.Statement) == 0 {
		return 0
	}

	last := asm.Statement[len(asm.Statement)-1]

	return last.Offset + len(last.Code)
}

// operandNames are the operand fields, in source order.
var operandNames = []string{"B", "C"}

// parseWords evaluates the words of an instruction line.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	op, ok := LookupOpcode(strings.ToUpper(words[0]))
	if !ok {
		err = ErrInstructionUnknown(words[0])
		return
	}

	var values [2]uint64
	for n, name := range operandNames {
		if 1+n >= len(words) {
			err = ErrOperandMissing(name)
			return
		}
		values[n], err = asm.valueOf(words[1+n])
		if err != nil {
			return
		}
	}

	ins := Instruction{Opcode: op, B: values[0], C: values[1]}
	if asm.Truncate {
		masked := ins.Masked()
		if asm.Verbose && masked != ins {
			log.Printf("asm: %v: %v truncated to %v", lineno, ins, masked)
		}
		ins = masked
	}

	code, err := ins.Encode()
	if err != nil {
		return
	}

	asm.Statement = append(asm.Statement, Statement{
		LineNo:      lineno,
		Offset:      asm.currentOffset(),
		Words:       slices.Clone(words[:1+len(operandNames)]),
		Instruction: ins,
		Code:        code,
	})

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Statement = asm.Statement[:0]
	asm.Equate = maps.Clone(asm.predefine)
	if asm.Equate == nil {
		asm.Equate = map[string]string{}
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		line = strings.TrimSpace(text)
		if len(line) == 0 || strings.HasPrefix(line, COMMENT_CHAR) {
			continue
		}

		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, line)
		}

		var words []string
		words, err = asm.parseLine(line)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		lineno += 1
		line = ""
		return
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
	}

	return
}

// Assemble translates source text into a binary image and its audit records.
func Assemble(source string) (code []byte, audit []Record, err error) {
	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(source))
	if err != nil {
		return
	}

	code = prog.Binary()
	audit = prog.Audit()

	return
}
