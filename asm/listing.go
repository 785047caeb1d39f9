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

package asm

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/Lauriethefish/FactorioComputer/lfc"
)

// WriteListing writes a human-readable listing of rom to w, one instruction
// per line: the 1-based ROM index, the mnemonic, and the signed decimal
// operand for opcodes that take one.
func WriteListing(w io.Writer, rom []lfc.Inst) error {
	for i, in := range rom {
		var err error
		if in.Op.Class() == lfc.ClassNone {
			_, err = fmt.Fprintf(w, "%4d  %s\n", i+1, in.Op)
		} else {
			_, err = fmt.Fprintf(w, "%4d  %s %d\n", i+1, in.Op, in.Arg)
		}
		if err != nil {
			return errors.Wrap(err, "write listing")
		}
	}
	return nil
}
