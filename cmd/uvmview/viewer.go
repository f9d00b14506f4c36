package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ezrec/uvm/emulator"
)

// Viewer single-steps an emulator in the terminal.
type Viewer struct {
	app *tview.Application

	registers *tview.Table
	memory    *tview.Table
	listing   *tview.TextView
	status    *tview.TextView

	emu      *emulator.Emulator
	memStart int
	memEnd   int

	done bool
	err  error
}

// NewViewer builds the viewer for a loaded emulator, showing
// memory[memStart..memEnd].
func NewViewer(emu *emulator.Emulator, memStart, memEnd int) (v *Viewer) {
	v = &Viewer{
		emu:      emu,
		memStart: memStart,
		memEnd:   memEnd,
	}

	v.registers = tview.NewTable().SetBorders(false)
	v.registers.SetTitle("Registers").SetBorder(true)

	v.memory = tview.NewTable().SetBorders(false)
	v.memory.SetTitle(fmt.Sprintf("Memory %d..%d", memStart, memEnd)).SetBorder(true)

	v.listing = tview.NewTextView().SetDynamicColors(true)
	v.listing.SetTitle("Program").SetBorder(true)

	v.status = tview.NewTextView().SetDynamicColors(true)

	help := tview.NewTextView().
		SetText("n/space: step  r: run  R: reset  q/esc: quit")

	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.listing, 0, 1, false).
		AddItem(v.status, 1, 0, false).
		AddItem(help, 1, 0, false)

	root := tview.NewFlex().
		AddItem(left, 0, 2, false).
		AddItem(v.registers, 0, 1, false).
		AddItem(v.memory, 0, 1, false)

	v.app = tview.NewApplication().
		SetRoot(root, true).
		SetInputCapture(v.onKey)

	v.Reset()

	return
}

// Run the terminal application until the user quits.
func (v *Viewer) Run() error {
	return v.app.Run()
}

// Reset rewinds the emulator to its initial state.
func (v *Viewer) Reset() {
	v.emu.Reset()
	v.done = v.emu.Cpu.Halted(v.emu.Code)
	v.err = nil
	v.refresh()
}

// Step executes a single instruction, unless halted or failed.
func (v *Viewer) Step() {
	if v.done || v.err != nil {
		return
	}

	v.done, v.err = v.emu.Tick()
	v.refresh()
}

// RunToHalt steps until the emulator halts or fails.
func (v *Viewer) RunToHalt() {
	for !v.done && v.err == nil {
		v.done, v.err = v.emu.Tick()
	}
	v.refresh()
}

func (v *Viewer) onKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyEscape {
		v.app.Stop()
		return nil
	}

	switch event.Rune() {
	case 'q':
		v.app.Stop()
	case 'n', ' ':
		v.Step()
	case 'r':
		v.RunToHalt()
	case 'R':
		v.Reset()
	default:
		return event
	}

	return nil
}

func valueCell(value int64) (cell *tview.TableCell) {
	cell = tview.NewTableCell(fmt.Sprintf("%d", value)).SetAlign(tview.AlignRight)
	if value != 0 {
		cell.SetTextColor(tcell.ColorYellow)
	}
	return
}

func (v *Viewer) refresh() {
	v.registers.Clear()
	for n, value := range v.emu.Cpu.Register {
		v.registers.SetCell(n, 0, tview.NewTableCell(fmt.Sprintf("r%d", n)))
		v.registers.SetCell(n, 1, valueCell(value))
	}

	v.memory.Clear()
	start := max(v.memStart, 0)
	for addr := start; addr <= v.memEnd && addr < len(v.emu.Cpu.Memory); addr++ {
		row := addr - start
		v.memory.SetCell(row, 0, tview.NewTableCell(fmt.Sprintf("%d", addr)))
		v.memory.SetCell(row, 1, valueCell(v.emu.Cpu.Memory[addr]))
	}

	pc := v.emu.Cpu.Pc
	current := 0
	var text strings.Builder
	if v.emu.Program != nil {
		for n, st := range v.emu.Program.Statements {
			line := fmt.Sprintf("%06x: %v", st.Offset, st.Instruction)
			if st.Offset == pc {
				current = n
				line = "[::r]" + line + "[::-]"
			}
			text.WriteString(line + "\n")
		}
	}
	v.listing.SetText(text.String())
	v.listing.ScrollTo(current, 0)

	state := "ready"
	switch {
	case v.err != nil:
		state = "[red]" + tview.Escape(v.err.Error()) + "[-]"
	case v.done:
		state = "[green]halted[-]"
	}
	v.status.SetText(fmt.Sprintf("pc %06x  ticks %d  %s", pc, v.emu.Cpu.Ticks, state))
}
