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
	"strconv"

	"github.com/Lauriethefish/FactorioComputer/lfc"
)

// LinkError reports a label problem found while assembling: a jump or call
// to a label that was never defined, or a label defined twice.
type LinkError struct {
	Label string
	Msg   string
}

func (e *LinkError) Error() string {
	return "link error: " + e.Msg + " " + e.Label
}

// Inst is one emitted instruction. Target, when non-empty, is a symbolic
// label that Assemble resolves into Arg.
type Inst struct {
	Op     lfc.Opcode
	Arg    lfc.Cell
	Target string
}

// Program accumulates instructions and label definitions. Instructions are
// 1-indexed, matching ROM addressing; a label names the index of the next
// instruction emitted after it.
type Program struct {
	ins    []Inst
	labels map[string]int
	dup    string
	nfresh int
}

// NewProgram returns an empty Program.
func NewProgram() *Program {
	return &Program{labels: make(map[string]int)}
}

// Len returns the number of instructions emitted so far.
func (p *Program) Len() int {
	return len(p.ins)
}

// Ins returns the raw emitted instructions, labels unresolved.
func (p *Program) Ins() []Inst {
	return p.ins
}

// Emit appends an operand-less instruction.
func (p *Program) Emit(op lfc.Opcode) {
	p.ins = append(p.ins, Inst{Op: op})
}

// EmitArg appends an instruction with a numeric operand.
func (p *Program) EmitArg(op lfc.Opcode, arg lfc.Cell) {
	p.ins = append(p.ins, Inst{Op: op, Arg: arg})
}

// EmitTarget appends an instruction whose operand is the address of a label.
func (p *Program) EmitTarget(op lfc.Opcode, target string) {
	p.ins = append(p.ins, Inst{Op: op, Target: target})
}

// Label defines name as the address of the next instruction. Defining the
// same name twice is reported by Assemble.
func (p *Program) Label(name string) {
	if _, ok := p.labels[name]; ok && p.dup == "" {
		p.dup = name
	}
	p.labels[name] = len(p.ins) + 1
}

// NewLabel returns a fresh label name distinct from any other it has handed
// out for this program.
func (p *Program) NewLabel(prefix string) string {
	p.nfresh++
	return prefix + "." + strconv.Itoa(p.nfresh)
}

// Assemble resolves every symbolic operand and returns the final 1-indexed
// instruction list. It does not mutate the Program: assembling twice yields
// identical output.
func (p *Program) Assemble() ([]lfc.Inst, error) {
	if p.dup != "" {
		return nil, &LinkError{Label: p.dup, Msg: "duplicate label"}
	}
	rom := make([]lfc.Inst, len(p.ins))
	for i, in := range p.ins {
		arg := in.Arg
		if in.Target != "" {
			addr, ok := p.labels[in.Target]
			if !ok {
				return nil, &LinkError{Label: in.Target, Msg: "undefined label"}
			}
			arg = lfc.Cell(addr)
		}
		rom[i] = lfc.Inst{Op: in.Op, Arg: arg}
	}
	return rom, nil
}
