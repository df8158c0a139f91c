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

// Package program holds the host side of the stack machine: binary
// programs of opcodes and immediates, and a runner that evaluates a
// program once per sample index t.
//
// The binary form is one opcode byte per instruction. machine.OP_PUSH is
// followed by its immediate as signed LEB128.
package program

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lassandro/gorpn/pkg/encoding"
	"github.com/lassandro/gorpn/pkg/machine"
)

func IsValidOpcode(op uint8) bool {
	_, exists := machine.Mnemonics[op]
	return exists
}

func (in Instruction) String() string {
	if in.Op == machine.OP_PUSH {
		return strconv.FormatInt(int64(in.Imm), 10)
	}

	if name, exists := machine.Mnemonics[in.Op]; exists {
		return name
	}

	return fmt.Sprintf("<%#02x>", in.Op)
}

// String lists the program in RPN order, e.g. "t 10 >> 42 & t *".
func (p Program) String() string {
	parts := make([]string, len(p))

	for i, in := range p {
		parts[i] = in.String()
	}

	return strings.Join(parts, " ")
}

func (p Program) Append(buf []byte) []byte {
	for _, in := range p {
		buf = append(buf, in.Op)

		if in.Op == machine.OP_PUSH {
			buf = encoding.AppendSLEB128(buf, in.Imm)
		}
	}

	return buf
}

func (p Program) Encode(w io.Writer) error {
	_, err := w.Write(p.Append(nil))
	return err
}

func Decode(reader io.Reader) (Program, error) {
	r, ok := reader.(io.ByteReader)

	if !ok {
		r = bufio.NewReader(reader)
	}

	var result Program

	for offset := 0; ; offset++ {
		op, err := r.ReadByte()

		if err == io.EOF {
			return result, nil
		} else if err != nil {
			return nil, err
		}

		if !IsValidOpcode(op) {
			return nil, fmt.Errorf(
				"offset %d: %w %#02x", offset, ErrIllegalOpcode, op,
			)
		}

		in := Instruction{Op: op}

		if op == machine.OP_PUSH {
			counter := &countingReader{r: r}

			if in.Imm, err = encoding.DecodeSLEB128(counter); err != nil {
				if errors.Is(err, io.EOF) {
					err = io.ErrUnexpectedEOF
				}

				return nil, fmt.Errorf("offset %d: %w", offset, err)
			}

			offset += counter.n
		}

		result = append(result, in)
	}
}

type countingReader struct {
	r io.ByteReader
	n int
}

func (cr *countingReader) ReadByte() (byte, error) {
	b, err := cr.r.ReadByte()

	if err == nil {
		cr.n++
	}

	return b, err
}

// Builder assembles programs from Go code.
type Builder struct {
	program Program
}

func (b *Builder) T() *Builder {
	return b.Op(machine.OP_T)
}

func (b *Builder) Push(value int32) *Builder {
	b.program = append(b.program, Instruction{Op: machine.OP_PUSH, Imm: value})
	return b
}

func (b *Builder) Op(opcodes ...uint8) *Builder {
	for _, op := range opcodes {
		b.program = append(b.program, Instruction{Op: op})
	}

	return b
}

func (b *Builder) Build() Program {
	result := make(Program, len(b.program))
	copy(result, b.program)
	return result
}
