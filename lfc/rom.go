// This file is part of lflc - https://github.com/Lauriethefish/FactorioComputer
//
// Copyright 2023 Lauriethefish
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lfc

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// SaveROM writes rom to w as little-endian (opcode, operand) pairs of 32 bit
// words.
func SaveROM(w io.Writer, rom []Inst) error {
	buf := make([]byte, 8)
	for i, in := range rom {
		binary.LittleEndian.PutUint32(buf, uint32(in.Op))
		binary.LittleEndian.PutUint32(buf[4:], uint32(in.Arg))
		if _, err := w.Write(buf); err != nil {
			return errors.Wrapf(err, "SaveROM: write at index %d", i+1)
		}
	}
	return nil
}

// LoadROM reads a ROM previously written with SaveROM. It validates every
// opcode so a corrupt file is caught at load time rather than mid-run.
func LoadROM(r io.Reader) ([]Inst, error) {
	var rom []Inst
	buf := make([]byte, 8)
	for {
		_, err := io.ReadFull(r, buf)
		if err == io.EOF {
			return rom, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "LoadROM: read at index %d", len(rom)+1)
		}
		in := Inst{
			Op:  Opcode(binary.LittleEndian.Uint32(buf)),
			Arg: Cell(binary.LittleEndian.Uint32(buf[4:])),
		}
		if !in.Op.Valid() {
			return nil, errors.Errorf("LoadROM: invalid opcode %d at index %d", in.Op, len(rom)+1)
		}
		rom = append(rom, in)
	}
}
