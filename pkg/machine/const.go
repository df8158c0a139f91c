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

const (
	MEMORY_SIZE = 256
	MEMORY_MASK = MEMORY_SIZE - 1
)

// Comparison results are bitmasks so they compose with AND/OR/XOR.
const (
	TRUE  int32 = -1
	FALSE int32 = 0
)

// Opcode bytes follow the glitch:// letter encoding. OP_T and OP_PUSH are
// host opcodes: they are carried in programs but never reach Step.
const (
	OP_T     uint8 = 'a'
	OP_PUT   uint8 = 'b'
	OP_DROP  uint8 = 'c'
	OP_MUL   uint8 = 'd'
	OP_DIV   uint8 = 'e'
	OP_ADD   uint8 = 'f'
	OP_SUB   uint8 = 'g'
	OP_MOD   uint8 = 'h'
	OP_PUSH  uint8 = 'i'
	OP_SHL   uint8 = 'j'
	OP_SHR   uint8 = 'k'
	OP_AND   uint8 = 'l'
	OP_OR    uint8 = 'm'
	OP_XOR   uint8 = 'n'
	OP_NOT   uint8 = 'o'
	OP_DUP   uint8 = 'p'
	OP_PICK  uint8 = 'q'
	OP_SWAP  uint8 = 'r'
	OP_LESS  uint8 = 's'
	OP_GREAT uint8 = 't'
	OP_EQ    uint8 = 'u'
)

// Display mnemonics, used by listings only.
var Mnemonics = map[uint8]string{
	OP_T:     "t",
	OP_PUT:   "put",
	OP_DROP:  "drop",
	OP_MUL:   "*",
	OP_DIV:   "/",
	OP_ADD:   "+",
	OP_SUB:   "-",
	OP_MOD:   "%",
	OP_PUSH:  "push",
	OP_SHL:   "<<",
	OP_SHR:   ">>",
	OP_AND:   "&",
	OP_OR:    "|",
	OP_XOR:   "^",
	OP_NOT:   "~",
	OP_DUP:   "dup",
	OP_PICK:  "pick",
	OP_SWAP:  "swap",
	OP_LESS:  "<",
	OP_GREAT: ">",
	OP_EQ:    "=",
}
