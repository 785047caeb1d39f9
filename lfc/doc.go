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

// Package lfc defines the LFC, the stack machine built from Factorio
// combinators that lflc compiles for, and implements a reference interpreter
// of it.
//
// The machine has 27 opcodes, a 32-entry stack of signed 32-bit cells and a
// separate return-address stack fed by JSR and drained by RET. Stack
// addresses are 1-based from the top: LOAD 1 duplicates the top of the
// stack, and SAVE addresses the stack with the value it stores still
// counted, overwriting the target cell before dropping the top. Negative
// addresses are memory-mapped GPIO: SAVE -1 .. SAVE -5 write
// the red output signals, LOAD -6 .. LOAD -10 read the green input signals.
//
// The ROM is 1-indexed and there is no HALT opcode: transferring control to
// any address outside the ROM stops the machine. Compiled programs exploit
// this by ending with a jump to address 0.
//
// The physical computer is concurrent at the combinator level; this
// interpreter only implements the sequential contract that compiled code
// relies on, which makes it suitable for testing the code generator but not
// for cycle-accurate simulation.
package lfc
