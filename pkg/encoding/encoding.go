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

package encoding

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

var ErrOverlong = errors.New("LEB128 value exceeds 32 bits")

// Decodes a hexidecimal cell index in the formats: 0xFF, xFF
func DecodeHex(s string) (uint8, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseUint(s, 0, 8)

	if err != nil {
		return 0, err
	}

	return uint8(result), nil
}

// Decodes a base-10 string in the formats: #123, 123, -123
func DecodeInt(s string) (int32, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	result, err := strconv.ParseInt(s, 10, 32)

	if err != nil {
		return 0, err
	}

	return int32(result), nil
}

// Appends the signed LEB128 encoding of value to buf.
func AppendSLEB128(buf []byte, value int32) []byte {
	for {
		b := byte(value & 0x7F)
		value >>= 7

		if (value == 0 && b&0x40 == 0) || (value == -1 && b&0x40 != 0) {
			return append(buf, b)
		}

		buf = append(buf, b|0x80)
	}
}

// Reads one signed LEB128 value. Encodings longer than five bytes are
// rejected; bits past the 32nd are discarded.
func DecodeSLEB128(r io.ByteReader) (int32, error) {
	var result int32
	var shift uint

	for i := 0; ; i++ {
		if i == 5 {
			return 0, ErrOverlong
		}

		b, err := r.ReadByte()

		if err == io.EOF && i > 0 {
			return 0, io.ErrUnexpectedEOF
		} else if err != nil {
			return 0, err
		}

		result |= int32(b&0x7F) << shift
		shift += 7

		if b&0x80 == 0 {
			if shift < 32 && b&0x40 != 0 {
				result |= -1 << shift
			}

			return result, nil
		}
	}
}

// Maps a cell onto a float sample. Over the unsigned reading of the cell
// the result lies in [-1, 1); negative cells land below -1.
func DecodeFloat32(value int32) float32 {
	return float32(float64(value)/2147483648.0 - 1.0)
}

// Maps a byte onto a float sample in [-1, 1).
func DecodeFloat32Byte(value uint8) float32 {
	return float32(float64(value)/128.0 - 1.0)
}
