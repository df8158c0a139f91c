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

package main

import (
	"bufio"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lassandro/gorpn/pkg/config"
	"github.com/lassandro/gorpn/pkg/debugger"
	"github.com/lassandro/gorpn/pkg/encoding"
	"github.com/lassandro/gorpn/pkg/machine"
	"github.com/lassandro/gorpn/pkg/program"
)

var lastcmd []string
var scanner = bufio.NewScanner(os.Stdin)

// Renders samples as text so the REPL and the output can share a terminal.
func debugRun(runner *program.Runner, dbg *debugger.Debugger, cfg *config.Config) error {
	output := cfg.OutputMode()

	for i := 0; i < cfg.Count; i++ {
		t := cfg.Start + int32(i)

		if err := runner.Run(t); err != nil {
			return err
		}

		// Sample extraction pops through the machine and may trip watches
		switch output {
		case program.OUTPUT_UINT32:
			fmt.Printf("\033[1mt=%d:\033[0m %#08x\n", t, uint32(runner.Machine.PopUint32()))
		case program.OUTPUT_FLOAT32:
			fmt.Printf("\033[1mt=%d:\033[0m %g\n", t, runner.Machine.PopFloat32())
		case program.OUTPUT_FLOAT32BYTE:
			fmt.Printf("\033[1mt=%d:\033[0m %g\n", t, runner.Machine.PopFloat32Byte())
		default:
			fmt.Printf("\033[1mt=%d:\033[0m %#02x\n", t, runner.Machine.PopByte())
		}

		if dbg.Quit {
			return debugger.ErrQuit
		}
	}

	return nil
}

func debugBreak(dbg *debugger.Debugger, args []string) {
	const usage = "break [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		pc, err := strconv.Atoi(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		if pc < 0 || pc >= len(dbg.Program) {
			log.Println("Invalid instruction number")
			return
		}

		for _, breakpoint := range dbg.Breakpoints {
			if breakpoint.PC == pc {
				return
			}
		}

		dbg.Breakpoints = append(dbg.Breakpoints, debugger.Breakpoint{PC: pc})
		fmt.Printf("Breakpoint added [%04d] %s\n", pc, dbg.Program[pc])

	case "l", "ls", "list":
		fmtstring := listFormat(len(dbg.Breakpoints), "%04d\n")

		for i, breakpoint := range dbg.Breakpoints {
			log.Printf(fmtstring, i, breakpoint.PC)
		}

	case "r", "rm", "remove":
		i, ok := listIndex(args, len(dbg.Breakpoints), "break remove [#]")

		if !ok {
			return
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = nil
		fmt.Println("Breakpoints reset")

	default:
		log.Printf("break: '%s' is not a valid command\n", cmd)
		log.Println(usage)
	}
}

var watchNames = map[debugger.WatchpointType]string{
	debugger.ReadWatch:      "read",
	debugger.WriteWatch:     "write",
	debugger.ReadWriteWatch: "readwrite",
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [0x##] [read|write|readwrite]"

		if len(args) != 2 {
			log.Println(usage)
			return
		}

		index, err := encoding.DecodeHex(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			log.Println(usage)
			return
		}

		for _, watchpoint := range dbg.Watchpoints {
			if watchpoint.Index == index && watchpoint.Type == wtype {
				return
			}
		}

		dbg.Watchpoints = append(
			dbg.Watchpoints,
			debugger.Watchpoint{Index: index, Type: wtype},
		)

		fmt.Printf("Watchpoint added [%#02x] (%s)\n", index, watchNames[wtype])

	case "l", "ls", "list":
		fmtstring := listFormat(len(dbg.Watchpoints), "%#02x %s\n")

		for i, watchpoint := range dbg.Watchpoints {
			log.Printf(fmtstring, i, watchpoint.Index, watchNames[watchpoint.Type])
		}

	case "r", "rm", "remove":
		i, ok := listIndex(args, len(dbg.Watchpoints), "watch remove [#]")

		if !ok {
			return
		}

		dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
		dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = nil
		fmt.Println("Watchpoints reset")

	default:
		log.Printf("watch: '%s' is not a valid command\n", cmd)
		log.Println(usage)
	}
}

func listFormat(count int, suffix string) string {
	digits := math.Floor(math.Log10(float64(count + 1)))
	return fmt.Sprintf("#%%0%dd: %s", int64(digits)+1, suffix)
}

func listIndex(args []string, count int, usage string) (int, bool) {
	if len(args) != 1 {
		log.Println(usage)
		return 0, false
	}

	i, err := strconv.Atoi(args[0])

	if err != nil {
		log.Println(err)
		return 0, false
	}

	if i < 0 || i >= count {
		log.Println("Invalid list number")
		return 0, false
	}

	return i, true
}

func debugStack(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "stack [#]"

	count := 8

	if len(args) > 1 {
		log.Println(usage)
		return
	} else if len(args) == 1 {
		value, err := strconv.Atoi(args[0])

		if err != nil || value < 0 {
			log.Println(usage)
			return
		}

		count = value
	}

	dbg.PrintStack(mc, count)
}

func debugMemory(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "memory [0x##] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	index := mc.Cursor
	count := 4

	if len(args) > 0 {
		value, err := encoding.DecodeHex(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		index = value
	}

	if len(args) > 1 {
		value, err := strconv.Atoi(args[1])

		if err != nil || value < 0 || value > machine.MEMORY_SIZE {
			log.Println(usage)
			return
		}

		count = value
	}

	dbg.PrintMem(mc, index, count)
}

func debugSet(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "set [0x##] [#]"

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	index, err := encoding.DecodeHex(args[0])

	if err != nil {
		log.Println(err)
		return
	}

	value, err := encoding.DecodeInt(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	mc.Memory[index] = value
	dbg.PrintMem(mc, index, 1)
}

func debugPush(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "push [#]"

	if len(args) != 1 {
		log.Println(usage)
		return
	}

	value, err := encoding.DecodeInt(args[0])

	if err != nil {
		log.Println(err)
		return
	}

	quietly(mc, func() { mc.Push(value) })
	dbg.PrintStack(&mc.State, 1)
}

// Runs fn with watch points disabled so REPL edits don't re-enter the REPL.
func quietly(mc *machine.Machine, fn func()) {
	saved := mc.Debugger
	mc.Debugger = nil
	defer func() { mc.Debugger = saved }()
	fn()
}

func debugList(dbg *debugger.Debugger, pc int, args []string) {
	const usage = "list [#] [#]"

	count := 8

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	if len(args) > 0 {
		value, err := strconv.Atoi(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		pc = value
	}

	if len(args) > 1 {
		value, err := strconv.Atoi(args[1])

		if err != nil {
			log.Println(err)
			return
		}

		count = value
	}

	dbg.PrintProgram(pc, count)
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine, pc int) {
	for {
		fmt.Print("\033[1;30m(dbg)\033[0m ")

		if !scanner.Scan() {
			fmt.Println()
			dbg.Quit = true
			return
		}

		args := strings.Fields(scanner.Text())

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "s", "stack":
			debugStack(dbg, &mc.State, args)

		case "m", "mem", "memory":
			debugMemory(dbg, &mc.State, args)

		case "set":
			debugSet(dbg, &mc.State, args)

		case "push":
			debugPush(dbg, mc, args)

		case "pop":
			quietly(mc, func() { fmt.Println(mc.Pop()) })

		case "l", "ls", "list":
			debugList(dbg, pc, args)

		case "c", "continue":
			dbg.Break = false
			return

		case "n", "next":
			dbg.Break = true
			return

		case "q", "quit", "exit":
			dbg.Quit = true
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		case "reset":
			mc.Reset()
			fmt.Println("Machine reset")

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func handleBreak(pc int, dbg *debugger.Debugger, mc *machine.Machine) {
	if !dbg.Break {
		fmt.Println()
		fmt.Println("Program stopped")
	}

	dbg.PrintProgram(pc, 1)
	debugREPL(dbg, mc, pc)
}

func handleRead(index uint8, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Cell read")
	dbg.PrintMem(&mc.State, index, 1)
	debugREPL(dbg, mc, 0)
}

func handleWrite(index uint8, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Cell written")
	dbg.PrintMem(&mc.State, index, 1)
	debugREPL(dbg, mc, 0)
}
