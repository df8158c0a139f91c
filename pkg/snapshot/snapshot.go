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

// Package snapshot saves and restores machine state as canonical CBOR.
package snapshot

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/lassandro/gorpn/pkg/machine"
)

const VERSION = 1

var (
	ErrVersion    = errors.New("Unsupported snapshot version")
	ErrMemorySize = errors.New("Snapshot memory size mismatch")
)

type document struct {
	Version uint    `cbor:"1,keyasint"`
	Cursor  uint8   `cbor:"2,keyasint"`
	Memory  []int32 `cbor:"3,keyasint"`
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()

	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}

	encMode = em
}

func Marshal(state *machine.MachineState) ([]byte, error) {
	return encMode.Marshal(document{
		Version: VERSION,
		Cursor:  state.Cursor,
		Memory:  state.Memory[:],
	})
}

// Unmarshal replaces state with the decoded snapshot. On error state is
// left untouched.
func Unmarshal(data []byte, state *machine.MachineState) error {
	var doc document

	if err := cbor.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	return restore(&doc, state)
}

func Write(w io.Writer, state *machine.MachineState) error {
	data, err := Marshal(state)

	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

func Read(r io.Reader, state *machine.MachineState) error {
	var doc document

	if err := cbor.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	return restore(&doc, state)
}

func restore(doc *document, state *machine.MachineState) error {
	if doc.Version != VERSION {
		return fmt.Errorf("%w: %d", ErrVersion, doc.Version)
	}

	if len(doc.Memory) != machine.MEMORY_SIZE {
		return fmt.Errorf(
			"%w: want %d cells, have %d",
			ErrMemorySize,
			machine.MEMORY_SIZE,
			len(doc.Memory),
		)
	}

	copy(state.Memory[:], doc.Memory)
	state.Cursor = doc.Cursor

	return nil
}
