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

package machine

// MachineState is the whole observable state of a stack machine. The zero
// value is the initial state: every cell zero and the cursor at slot 0.
//
// Cursor is the next free slot. Being a uint8 it can never leave [0, 256),
// and every increment or decrement wraps.
type MachineState struct {
	Memory [MEMORY_SIZE]int32
	Cursor uint8
}

// MachineDebugger receives the index of every cell the machine reads or
// writes.
type MachineDebugger interface {
	Read(index uint8, mc *Machine)
	Write(index uint8, mc *Machine)
}

// Machine is not safe for concurrent use; callers driving one machine from
// several goroutines must synchronise themselves.
type Machine struct {
	State    MachineState
	Debugger MachineDebugger
}
