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

package program

import (
	"errors"

	"github.com/lassandro/gorpn/pkg/machine"
)

var (
	ErrIllegalOpcode = errors.New("Illegal opcode")
	ErrInvalidOutput = errors.New("Invalid output mode")
)

// Instruction is a single program step. Imm is only meaningful for
// machine.OP_PUSH.
type Instruction struct {
	Op  uint8
	Imm int32
}

type Program []Instruction

// Tracer observes each instruction before the runner executes it. A
// non-nil error stops the run and is returned from Run.
type Tracer interface {
	Step(pc int, in Instruction, mc *machine.Machine) error
}

type Runner struct {
	Program Program
	Machine *machine.Machine
	Tracer  Tracer

	// Reset clears the machine before every Run. Without it, whatever a
	// program leaves on the stack carries into the next sample.
	Reset bool
}

// Output selects how a sample is popped off the machine.
type Output uint8

const (
	OUTPUT_BYTE Output = iota
	OUTPUT_UINT32
	OUTPUT_FLOAT32
	OUTPUT_FLOAT32BYTE
)
