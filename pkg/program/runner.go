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
	"encoding/binary"
	"fmt"
	"math"

	"github.com/lassandro/gorpn/pkg/machine"
)

var outputNames = map[Output]string{
	OUTPUT_BYTE:        "byte",
	OUTPUT_UINT32:      "uint32",
	OUTPUT_FLOAT32:     "float32",
	OUTPUT_FLOAT32BYTE: "float32byte",
}

func ParseOutput(s string) (Output, error) {
	for output, name := range outputNames {
		if name == s {
			return output, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidOutput, s)
}

func (o Output) String() string {
	if name, exists := outputNames[o]; exists {
		return name
	}

	return fmt.Sprintf("Output(%d)", uint8(o))
}

// Size is the number of bytes AppendSample writes per sample.
func (o Output) Size() int {
	if o == OUTPUT_BYTE {
		return 1
	}

	return 4
}

// AppendSample pops one sample off mc and appends it to buf, little-endian
// for the four byte formats.
func AppendSample(buf []byte, mc *machine.Machine, o Output) []byte {
	switch o {
	case OUTPUT_UINT32:
		return binary.LittleEndian.AppendUint32(buf, uint32(mc.PopUint32()))
	case OUTPUT_FLOAT32:
		return binary.LittleEndian.AppendUint32(
			buf, math.Float32bits(mc.PopFloat32()),
		)
	case OUTPUT_FLOAT32BYTE:
		return binary.LittleEndian.AppendUint32(
			buf, math.Float32bits(mc.PopFloat32Byte()),
		)
	default:
		return append(buf, mc.PopByte())
	}
}

// Run evaluates the program once with t bound to the given sample index.
func (r *Runner) Run(t int32) error {
	mc := r.Machine

	if r.Reset {
		mc.Reset()
	}

	for pc, in := range r.Program {
		if r.Tracer != nil {
			if err := r.Tracer.Step(pc, in, mc); err != nil {
				return err
			}
		}

		switch in.Op {
		case machine.OP_T:
			mc.Push(t)

		case machine.OP_PUSH:
			mc.Push(in.Imm)

		default:
			if err := mc.Step(in.Op); err != nil {
				return fmt.Errorf("pc %d: %w %#02x", pc, err, in.Op)
			}
		}
	}

	return nil
}

// Render runs the program for t and appends the resulting sample to buf.
func (r *Runner) Render(buf []byte, t int32, o Output) ([]byte, error) {
	if err := r.Run(t); err != nil {
		return buf, err
	}

	return AppendSample(buf, r.Machine, o), nil
}
