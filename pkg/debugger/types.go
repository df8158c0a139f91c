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
	"errors"
	"io"

	"github.com/lassandro/gorpn/pkg/machine"
	"github.com/lassandro/gorpn/pkg/program"
)

var ErrQuit = errors.New("Debugger quit")

type WatchpointType uint

const (
	ReadWatch WatchpointType = iota
	WriteWatch
	ReadWriteWatch
)

type Watchpoint struct {
	Index uint8
	Type  WatchpointType
}

type Breakpoint struct {
	PC int
}

// Debugger implements both machine.MachineDebugger, for cell watch points,
// and program.Tracer, for break points on instruction indices.
type Debugger struct {
	// Break stops before the next instruction regardless of break points.
	Break bool
	// Quit aborts the current run with ErrQuit.
	Quit bool

	Breakpoints []Breakpoint
	Watchpoints []Watchpoint

	Program program.Program
	Output  io.Writer

	HandleBreak func(int, *Debugger, *machine.Machine)
	HandleRead  func(uint8, *Debugger, *machine.Machine)
	HandleWrite func(uint8, *Debugger, *machine.Machine)
}
