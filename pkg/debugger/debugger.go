// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package debugger

import (
	"fmt"
	"io"
	"os"

	"github.com/lassandro/gorpn/pkg/machine"
	"github.com/lassandro/gorpn/pkg/program"
)

func (dbg *Debugger) out() io.Writer {
	if dbg.Output == nil {
		return os.Stdout
	}

	return dbg.Output
}

func (dbg *Debugger) Step(pc int, in program.Instruction, mc *machine.Machine) error {
	if dbg.Quit {
		return ErrQuit
	}

	if dbg.Break {
		dbg.handleBreak(pc, mc)
	} else {
		for _, breakpoint := range dbg.Breakpoints {
			if pc == breakpoint.PC {
				dbg.handleBreak(pc, mc)
				break
			}
		}
	}

	if dbg.Quit {
		return ErrQuit
	}

	return nil
}

func (dbg *Debugger) handleBreak(pc int, mc *machine.Machine) {
	if dbg.HandleBreak != nil {
		dbg.HandleBreak(pc, dbg, mc)
	}
}

func (dbg *Debugger) Read(index uint8, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if index == watchpoint.Index && dbg.HandleRead != nil {
			dbg.HandleRead(index, dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Write(index uint8, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if index == watchpoint.Index && dbg.HandleWrite != nil {
			dbg.HandleWrite(index, dbg, mc)
			break
		}
	}
}

// Lists count instructions starting at pc.
func (dbg *Debugger) PrintProgram(pc int, count int) {
	w := dbg.out()

	if len(dbg.Program) == 0 {
		fmt.Fprintln(w, "No program loaded")
		return
	}

	if pc < 0 || pc >= len(dbg.Program) {
		fmt.Fprintf(w, "No instruction found at %d\n", pc)
		return
	}

	for i := pc; i < pc+count && i < len(dbg.Program); i++ {
		marker := "  "

		for _, breakpoint := range dbg.Breakpoints {
			if breakpoint.PC == i {
				marker = "\033[31m*\033[0m "
				break
			}
		}

		fmt.Fprintf(w, "%s\033[1m[%04d]\033[0m %s\n", marker, i, dbg.Program[i])
	}
}

// Prints the top count entries of the logical stack, most recent first.
func (dbg *Debugger) PrintStack(mc *machine.MachineState, count int) {
	w := dbg.out()

	if count > machine.MEMORY_SIZE {
		count = machine.MEMORY_SIZE
	}

	fmt.Fprintf(w, "\033[1mcursor:\033[0m %#02x\n", mc.Cursor)

	for depth := 0; depth < count; depth++ {
		index := mc.Cursor - 1 - uint8(depth)
		fmt.Fprintf(
			w, "\033[1m%3d [%#02x]\033[0m %d\n", depth, index, mc.Memory[index],
		)
	}
}

// Dumps count cells starting at index, four per row.
func (dbg *Debugger) PrintMem(mc *machine.MachineState, index uint8, count int) {
	w := dbg.out()

	for i := 0; i < count; i++ {
		cell := index + uint8(i)

		if i == 0 {
			fmt.Fprintf(w, "\033[1m[%#02x]\033[0m ", cell)
		} else if i%4 == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "\033[1m[%#02x]\033[0m ", cell)
		}

		result := uint32(mc.Memory[cell])

		if result == 0 {
			fmt.Fprintf(w, "\033[1;30m%#08x\033[0m ", result)
		} else {
			fmt.Fprintf(w, "%#08x ", result)
		}
	}

	fmt.Fprintln(w)
}
