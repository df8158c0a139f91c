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

// Package machine implements a fixed-capacity RPN stack machine over a
// 256-cell ring of signed 32-bit integers.
//
// Nothing in the machine is bounds checked. Popping past the bottom of the
// stack returns whatever the wrapped slot holds, and pushing past 256 live
// values overwrites the oldest. Integer division or modulo by zero and
// negative shift amounts panic with the Go runtime error; shift amounts of
// 32 or more yield 0 (or -1 for an arithmetic right shift of a negative
// value).
package machine

import (
	"errors"

	"github.com/lassandro/gorpn/pkg/encoding"
)

var ErrIllegalOpcode = errors.New("Illegal opcode")

func (mc *MachineState) Reset() {
	for i, _ := range mc.Memory {
		mc.Memory[i] = 0
	}

	mc.Cursor = 0
}

func (mc *Machine) Reset() {
	mc.State.Reset()
}

func (mc *Machine) read(index uint8) int32 {
	if mc.Debugger != nil {
		mc.Debugger.Read(index, mc)
	}

	return mc.State.Memory[index]
}

func (mc *Machine) write(index uint8, value int32) {
	mc.State.Memory[index] = value

	if mc.Debugger != nil {
		mc.Debugger.Write(index, mc)
	}
}

// Push writes value into the free slot and advances the cursor.
func (mc *Machine) Push(value int32) {
	mc.write(mc.State.Cursor, value)
	mc.State.Cursor++
}

// Pop retreats the cursor and returns the cell it lands on.
func (mc *Machine) Pop() int32 {
	mc.State.Cursor--
	return mc.read(mc.State.Cursor)
}

// Peek returns the cell depth slots below the top of the stack without
// moving the cursor or notifying the debugger. Peek(0) is the top.
func (mc *Machine) Peek(depth uint8) int32 {
	return mc.State.Memory[mc.State.Cursor-1-depth]
}

func (mc *Machine) Add() {
	mc.Push(mc.Pop() + mc.Pop())
}

func (mc *Machine) Subtract() {
	x := mc.Pop()
	mc.Push(mc.Pop() - x)
}

func (mc *Machine) Multiply() {
	mc.Push(mc.Pop() * mc.Pop())
}

// Divide truncates toward zero. A zero divisor panics.
func (mc *Machine) Divide() {
	x := mc.Pop()
	mc.Push(mc.Pop() / x)
}

// Modulo takes the sign of the dividend. A zero divisor panics.
func (mc *Machine) Modulo() {
	x := mc.Pop()
	mc.Push(mc.Pop() % x)
}

func (mc *Machine) BitwiseInvert() {
	mc.Push(^mc.Pop())
}

func (mc *Machine) ShiftRight() {
	x := mc.Pop()
	mc.Push(mc.Pop() >> x)
}

func (mc *Machine) ShiftLeft() {
	x := mc.Pop()
	mc.Push(mc.Pop() << x)
}

func (mc *Machine) BitwiseAnd() {
	mc.Push(mc.Pop() & mc.Pop())
}

func (mc *Machine) BitwiseOr() {
	mc.Push(mc.Pop() | mc.Pop())
}

func (mc *Machine) BitwiseXor() {
	mc.Push(mc.Pop() ^ mc.Pop())
}

func (mc *Machine) GreaterThan() {
	x := mc.Pop()
	mc.Push(boolean(mc.Pop() > x))
}

func (mc *Machine) LessThan() {
	x := mc.Pop()
	mc.Push(boolean(mc.Pop() < x))
}

func (mc *Machine) Equal() {
	x := mc.Pop()
	mc.Push(boolean(mc.Pop() == x))
}

func boolean(cond bool) int32 {
	if cond {
		return TRUE
	}

	return FALSE
}

func (mc *Machine) Drop() {
	mc.Pop()
}

func (mc *Machine) Dup() {
	x := mc.Pop()
	mc.Push(x)
	mc.Push(x)
}

func (mc *Machine) Swap() {
	x := mc.Pop()
	y := mc.Pop()
	mc.Push(x)
	mc.Push(y)
}

// Pick pops n and pushes a copy of the cell n slots below the new cursor.
func (mc *Machine) Pick() {
	x := mc.Pop()
	mc.Push(mc.read(uint8((int32(mc.State.Cursor) - x) & MEMORY_MASK)))
}

// Put pops a value and stores it at the depth named by the cell now on top
// of the stack. The depth cell itself stays where it is.
func (mc *Machine) Put() {
	x := mc.Pop()
	depth := mc.read(mc.State.Cursor - 1)
	mc.write(uint8((int32(mc.State.Cursor)-depth-1)&MEMORY_MASK), x)
}

func (mc *Machine) PopByte() uint8 {
	return uint8(mc.Pop() & 0xFF)
}

// PopUint32 returns the cell verbatim; callers reinterpret it as unsigned.
func (mc *Machine) PopUint32() int32 {
	return mc.Pop()
}

func (mc *Machine) PopFloat32() float32 {
	return encoding.DecodeFloat32(mc.Pop())
}

func (mc *Machine) PopFloat32Byte() float32 {
	return encoding.DecodeFloat32Byte(mc.PopByte())
}

// Step executes a single stack opcode.
func (mc *Machine) Step(opcode uint8) error {
	switch opcode {
	// +    | b a -- b+a |
	case OP_ADD:
		mc.Add()

	// -    | b a -- b-a |
	case OP_SUB:
		mc.Subtract()

	// *    | b a -- b*a |
	case OP_MUL:
		mc.Multiply()

	// /    | b a -- b/a |
	case OP_DIV:
		mc.Divide()

	// %    | b a -- b%a |
	case OP_MOD:
		mc.Modulo()

	// ~    | a -- ^a |
	case OP_NOT:
		mc.BitwiseInvert()

	// >>   | b a -- b>>a |
	case OP_SHR:
		mc.ShiftRight()

	// <<   | b a -- b<<a |
	case OP_SHL:
		mc.ShiftLeft()

	// &    | b a -- b&a |
	case OP_AND:
		mc.BitwiseAnd()

	// |    | b a -- b|a |
	case OP_OR:
		mc.BitwiseOr()

	// ^    | b a -- b^a |
	case OP_XOR:
		mc.BitwiseXor()

	// >    | b a -- b>a |
	case OP_GREAT:
		mc.GreaterThan()

	// <    | b a -- b<a |
	case OP_LESS:
		mc.LessThan()

	// =    | b a -- b=a |
	case OP_EQ:
		mc.Equal()

	// drop | a -- |
	case OP_DROP:
		mc.Drop()

	// dup  | a -- a a |
	case OP_DUP:
		mc.Dup()

	// swap | b a -- a b |
	case OP_SWAP:
		mc.Swap()

	// pick | ... n -- ... x |
	case OP_PICK:
		mc.Pick()

	// put  | ... d v -- ... d |
	case OP_PUT:
		mc.Put()

	default:
		return ErrIllegalOpcode
	}

	return nil
}
