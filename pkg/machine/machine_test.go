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

package machine_test

import (
	"errors"
	"math"
	"testing"

	"github.com/lassandro/gorpn/pkg/machine"
)

type testMachineState struct {
	Cursor uint8
	Memory map[uint8]int32
}

type testCase struct {
	Name    string
	Opcodes []uint8
	Input   testMachineState
	Output  testMachineState
}

func testMachineSuccess(t *testing.T, test *testCase) {
	if len(test.Opcodes) == 0 {
		panic("No opcodes provided")
	}

	var mc machine.Machine

	mc.State.Cursor = test.Input.Cursor

	for index, value := range test.Input.Memory {
		mc.State.Memory[index] = value
	}

	for _, opcode := range test.Opcodes {
		if err := mc.Step(opcode); err != nil {
			t.Fatalf("Step(%q): %v", opcode, err)
		}
	}

	if have := mc.State.Cursor; have != test.Output.Cursor {
		t.Errorf(
			"Cursor mismatch"+
				"\nwant:%#02x (test.Output.Cursor)\nhave:%#02x",
			test.Output.Cursor,
			have,
		)
	}

	for i, value := range mc.State.Memory {
		input, expectingInput := test.Input.Memory[uint8(i)]
		output, expectingOutput := test.Output.Memory[uint8(i)]

		if expectingOutput {
			// Value was supposed to change
			if value != output {
				t.Fatalf(
					"Memory value mismatch"+
						"\nwant:%d (test.Output.Memory[%#02x])\nhave:%d",
					output,
					i,
					value,
				)
			}
		} else if expectingInput {
			// Value was supposed to remain
			if value != input {
				t.Fatalf(
					"Memory value mismatch"+
						"\nwant:%d (test.Input.Memory[%#02x])\nhave:%d",
					input,
					i,
					value,
				)
			}
		} else if value != 0 {
			t.Fatalf(
				"Memory unexpectedly changed"+
					"\nwant:0 (test.Output.Memory[%#02x])\nhave:%d",
				i,
				value,
			)
		}
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testMachineSuccess(t, &test)
			})
		}
	})
}

// Builds a two operand case: b is pushed first, a second.
func binary(name string, opcode uint8, b, a, result int32) testCase {
	return testCase{
		Name:    name,
		Opcodes: []uint8{opcode},
		Input: testMachineState{
			Cursor: 2,
			Memory: map[uint8]int32{0: b, 1: a},
		},
		Output: testMachineState{
			Cursor: 1,
			Memory: map[uint8]int32{0: result},
		},
	}
}

func TestArithmetic(t *testing.T) {
	testSuccess(t, []testCase{
		binary("ADD", machine.OP_ADD, 3, 4, 7),
		binary("ADD Negative", machine.OP_ADD, -3, 1, -2),
		binary("ADD Overflow", machine.OP_ADD, math.MaxInt32, 1, math.MinInt32),
		binary("SUB", machine.OP_SUB, 10, 3, 7),
		binary("SUB Negative", machine.OP_SUB, 3, 10, -7),
		binary("SUB Underflow", machine.OP_SUB, math.MinInt32, 1, math.MaxInt32),
		binary("MUL", machine.OP_MUL, 5, 5, 25),
		binary("MUL Overflow", machine.OP_MUL, 1<<16, 1<<16, 0),
		binary("DIV", machine.OP_DIV, 10, 3, 3),
		binary("DIV Truncates Toward Zero", machine.OP_DIV, -7, 2, -3),
		binary("DIV Negative Divisor", machine.OP_DIV, 7, -2, -3),
		binary("DIV MinInt32", machine.OP_DIV, math.MinInt32, -1, math.MinInt32),
		binary("MOD", machine.OP_MOD, 10, 3, 1),
		binary("MOD Negative Dividend", machine.OP_MOD, -7, 2, -1),
		binary("MOD Negative Divisor", machine.OP_MOD, 7, -2, 1),
		{
			Name:    "SUB Wrapped Operand",
			Opcodes: []uint8{machine.OP_SUB},
			Input: testMachineState{
				Cursor: 1,
				Memory: map[uint8]int32{0: 5},
			},
			Output: testMachineState{
				Cursor: 0,
				Memory: map[uint8]int32{0xFF: -5},
			},
		},
	})
}

func TestBitwise(t *testing.T) {
	testSuccess(t, []testCase{
		binary("AND", machine.OP_AND, 0x0F0F, 0x00FF, 0x000F),
		binary("OR", machine.OP_OR, 0x0F0F, 0x00FF, 0x0FFF),
		binary("XOR", machine.OP_XOR, 0x0F0F, 0x00FF, 0x0FF0),
		binary("XOR Self", machine.OP_XOR, -1, -1, 0),
		binary("SHR", machine.OP_SHR, 16, 2, 4),
		binary("SHR Sign Extends", machine.OP_SHR, -8, 1, -4),
		binary("SHR Wide Negative", machine.OP_SHR, -1, 40, -1),
		binary("SHR Wide Positive", machine.OP_SHR, 1<<30, 32, 0),
		binary("SHL", machine.OP_SHL, 1, 4, 16),
		binary("SHL Into Sign", machine.OP_SHL, 1, 31, math.MinInt32),
		binary("SHL Wide", machine.OP_SHL, 1, 32, 0),
		{
			Name:    "NOT Zero",
			Opcodes: []uint8{machine.OP_NOT},
			Input: testMachineState{
				Cursor: 1,
				Memory: map[uint8]int32{0: 0},
			},
			Output: testMachineState{
				Cursor: 1,
				Memory: map[uint8]int32{0: -1},
			},
		},
		{
			Name:    "NOT Pattern",
			Opcodes: []uint8{machine.OP_NOT},
			Input: testMachineState{
				Cursor: 1,
				Memory: map[uint8]int32{0: 0x0F0F0F0F},
			},
			Output: testMachineState{
				Cursor: 1,
				Memory: map[uint8]int32{0: -0x0F0F0F10},
			},
		},
	})
}

func TestComparison(t *testing.T) {
	testSuccess(t, []testCase{
		binary("GREAT True", machine.OP_GREAT, 5, 3, machine.TRUE),
		binary("GREAT False", machine.OP_GREAT, 3, 5, machine.FALSE),
		binary("GREAT Equal", machine.OP_GREAT, 3, 3, machine.FALSE),
		binary("GREAT Signed", machine.OP_GREAT, 0, -1, machine.TRUE),
		binary("LESS True", machine.OP_LESS, 3, 5, machine.TRUE),
		binary("LESS False", machine.OP_LESS, 5, 3, machine.FALSE),
		binary("LESS Equal", machine.OP_LESS, 3, 3, machine.FALSE),
		binary("EQ True", machine.OP_EQ, 3, 3, machine.TRUE),
		binary("EQ False", machine.OP_EQ, 3, 4, machine.FALSE),
		{
			Name:    "EQ Composes With AND",
			Opcodes: []uint8{machine.OP_EQ, machine.OP_AND},
			Input: testMachineState{
				Cursor: 3,
				Memory: map[uint8]int32{0: 0x1234, 1: 7, 2: 7},
			},
			Output: testMachineState{
				Cursor: 1,
				Memory: map[uint8]int32{0: 0x1234, 1: machine.TRUE},
			},
		},
	})
}

func TestStackManipulation(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:    "DROP",
			Opcodes: []uint8{machine.OP_DROP},
			Input: testMachineState{
				Cursor: 1,
				Memory: map[uint8]int32{0: 9},
			},
			Output: testMachineState{
				Cursor: 0,
			},
		},
		{
			Name:    "DROP Empty",
			Opcodes: []uint8{machine.OP_DROP},
			Input: testMachineState{
				Cursor: 0,
			},
			Output: testMachineState{
				Cursor: 0xFF,
			},
		},
		{
			Name:    "DUP",
			Opcodes: []uint8{machine.OP_DUP},
			Input: testMachineState{
				Cursor: 1,
				Memory: map[uint8]int32{0: 9},
			},
			Output: testMachineState{
				Cursor: 2,
				Memory: map[uint8]int32{1: 9},
			},
		},
		{
			Name:    "DUP Wrapped",
			Opcodes: []uint8{machine.OP_DUP},
			Input: testMachineState{
				Cursor: 0,
				Memory: map[uint8]int32{0xFF: 9},
			},
			Output: testMachineState{
				Cursor: 1,
				Memory: map[uint8]int32{0x00: 9},
			},
		},
		{
			Name:    "SWAP",
			Opcodes: []uint8{machine.OP_SWAP},
			Input: testMachineState{
				Cursor: 2,
				Memory: map[uint8]int32{0: 1, 1: 2},
			},
			Output: testMachineState{
				Cursor: 2,
				Memory: map[uint8]int32{0: 2, 1: 1},
			},
		},
		{
			Name:    "SWAP Twice",
			Opcodes: []uint8{machine.OP_SWAP, machine.OP_SWAP},
			Input: testMachineState{
				Cursor: 2,
				Memory: map[uint8]int32{0: 1, 1: 2},
			},
			Output: testMachineState{
				Cursor: 2,
			},
		},
		{
			Name:    "PICK Top",
			Opcodes: []uint8{machine.OP_PICK},
			Input: testMachineState{
				Cursor: 4,
				Memory: map[uint8]int32{0: 10, 1: 20, 2: 30, 3: 1},
			},
			Output: testMachineState{
				Cursor: 4,
				Memory: map[uint8]int32{3: 30},
			},
		},
		{
			Name:    "PICK Deep",
			Opcodes: []uint8{machine.OP_PICK},
			Input: testMachineState{
				Cursor: 4,
				Memory: map[uint8]int32{0: 10, 1: 20, 2: 30, 3: 3},
			},
			Output: testMachineState{
				Cursor: 4,
				Memory: map[uint8]int32{3: 10},
			},
		},
		{
			Name:    "PICK Zero",
			Opcodes: []uint8{machine.OP_PICK},
			Input: testMachineState{
				Cursor: 2,
				Memory: map[uint8]int32{0: 10, 1: 0},
			},
			Output: testMachineState{
				Cursor: 2,
			},
		},
		{
			Name:    "PICK Wrapped",
			Opcodes: []uint8{machine.OP_PICK},
			Input: testMachineState{
				Cursor: 1,
				Memory: map[uint8]int32{0: 3, 0xFD: 77},
			},
			Output: testMachineState{
				Cursor: 1,
				Memory: map[uint8]int32{0: 77},
			},
		},
		{
			Name:    "PICK Negative",
			Opcodes: []uint8{machine.OP_PICK},
			Input: testMachineState{
				Cursor: 2,
				Memory: map[uint8]int32{0: 10, 1: -2, 3: 44},
			},
			Output: testMachineState{
				Cursor: 2,
				Memory: map[uint8]int32{1: 44},
			},
		},
		{
			Name:    "PUT",
			Opcodes: []uint8{machine.OP_PUT},
			Input: testMachineState{
				Cursor: 5,
				Memory: map[uint8]int32{0: 10, 1: 20, 2: 30, 3: 1, 4: 99},
			},
			Output: testMachineState{
				Cursor: 4,
				Memory: map[uint8]int32{2: 99},
			},
		},
		{
			Name:    "PUT Deep",
			Opcodes: []uint8{machine.OP_PUT},
			Input: testMachineState{
				Cursor: 5,
				Memory: map[uint8]int32{0: 10, 1: 20, 2: 30, 3: 3, 4: 99},
			},
			Output: testMachineState{
				Cursor: 4,
				Memory: map[uint8]int32{0: 99},
			},
		},
		{
			Name:    "PUT Over Depth Cell",
			Opcodes: []uint8{machine.OP_PUT},
			Input: testMachineState{
				Cursor: 3,
				Memory: map[uint8]int32{0: 10, 1: 0, 2: 99},
			},
			Output: testMachineState{
				Cursor: 2,
				Memory: map[uint8]int32{1: 99},
			},
		},
		{
			Name:    "PUT Wrapped",
			Opcodes: []uint8{machine.OP_PUT},
			Input: testMachineState{
				Cursor: 1,
				Memory: map[uint8]int32{0: 5, 0xFF: 2},
			},
			Output: testMachineState{
				Cursor: 0,
				Memory: map[uint8]int32{0xFD: 5},
			},
		},
	})
}

func TestIllegalOpcode(t *testing.T) {
	for _, opcode := range []uint8{0x00, machine.OP_T, machine.OP_PUSH, 'v', 0xFF} {
		var mc machine.Machine

		if err := mc.Step(opcode); !errors.Is(err, machine.ErrIllegalOpcode) {
			t.Errorf(
				"Step(%#02x) error mismatch\nwant:%v\nhave:%v",
				opcode,
				machine.ErrIllegalOpcode,
				err,
			)
		}

		if mc.State.Cursor != 0 {
			t.Errorf("Step(%#02x) moved the cursor to %d", opcode, mc.State.Cursor)
		}
	}
}

func TestMnemonics(t *testing.T) {
	for opcode := 'a'; opcode <= 'u'; opcode++ {
		if _, exists := machine.Mnemonics[uint8(opcode)]; !exists {
			t.Errorf("No mnemonic for opcode %q", opcode)
		}
	}
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()

	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()

	fn()
}

func TestRuntimePanics(t *testing.T) {
	var mc machine.Machine

	expectPanic(t, "Divide by zero", func() {
		mc.Push(1)
		mc.Push(0)
		mc.Divide()
	})

	expectPanic(t, "Modulo by zero", func() {
		mc.Push(1)
		mc.Push(0)
		mc.Modulo()
	})

	expectPanic(t, "Negative left shift", func() {
		mc.Push(1)
		mc.Push(-1)
		mc.ShiftLeft()
	})

	expectPanic(t, "Negative right shift", func() {
		mc.Push(1)
		mc.Push(-1)
		mc.ShiftRight()
	})
}
