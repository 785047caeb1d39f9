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

import "github.com/pkg/errors"

func (m *Instance) fault(format string, args ...interface{}) error {
	return errors.Wrapf(errors.Errorf(format, args...), "fault @pc=%d", m.PC)
}

func (m *Instance) push(v Cell) error {
	if m.sp >= StackDepth {
		return m.fault("stack overflow")
	}
	m.data[m.sp] = v
	m.sp++
	return nil
}

func (m *Instance) pop() (Cell, error) {
	if m.sp == 0 {
		return 0, m.fault("stack underflow")
	}
	m.sp--
	return m.data[m.sp], nil
}

// fetch reads the cell at stack address a: 1 is the top of the data stack,
// -6..-10 are the green input signals.
func (m *Instance) fetch(a Cell) (Cell, error) {
	switch {
	case a >= 1 && int(a) <= m.sp:
		return m.data[m.sp-int(a)], nil
	case a <= -(SignalCount+1) && a >= -2*SignalCount:
		return m.green[-a-SignalCount-1], nil
	}
	return 0, m.fault("LOAD: bad address %d with %d cells stacked", a, m.sp)
}

// store writes v at stack address a: 1 is the top of the data stack (for
// SAVE, the value being stored), -1..-5 are the red output signals.
func (m *Instance) store(a, v Cell) error {
	switch {
	case a >= 1 && int(a) <= m.sp:
		m.data[m.sp-int(a)] = v
		return nil
	case a <= -1 && a >= -SignalCount:
		m.red[-a-1] = v
		return nil
	}
	return m.fault("SAVE: bad address %d with %d cells stacked", a, m.sp)
}

// ipow is the POW opcode: integer exponentiation. 0^0 is 1, negative
// exponents truncate to 0.
func ipow(base, exp Cell) Cell {
	if exp < 0 {
		return 0
	}
	r := Cell(1)
	for ; exp > 0; exp-- {
		r *= base
	}
	return r
}

func (m *Instance) binary(op Opcode) error {
	b, err := m.pop()
	if err != nil {
		return err
	}
	a, err := m.pop()
	if err != nil {
		return err
	}
	var v Cell
	switch op {
	case OpAdd:
		v = a + b
	case OpSub:
		v = a - b
	case OpDiv:
		if b == 0 {
			return m.fault("DIV: division by zero")
		}
		v = a / b
	case OpMul:
		v = a * b
	case OpPow:
		v = ipow(a, b)
	case OpRem:
		if b == 0 {
			return m.fault("REM: division by zero")
		}
		v = a % b
	case OpShl:
		v = a << (uint32(b) & 31)
	case OpShr:
		v = a >> (uint32(b) & 31)
	case OpAnd:
		v = a & b
	case OpOr:
		v = a | b
	case OpXor:
		v = a ^ b
	case OpEq:
		v = truth(a == b)
	case OpNe:
		v = truth(a != b)
	case OpGt:
		v = truth(a > b)
	case OpLt:
		v = truth(a < b)
	case OpGte:
		v = truth(a >= b)
	case OpLte:
		v = truth(a <= b)
	}
	return m.push(v)
}

func truth(b bool) Cell {
	if b {
		return 1
	}
	return 0
}

// Step executes a single instruction. It returns halted == true when the PC
// leaves the ROM, which is the machine's only regular way to stop.
func (m *Instance) Step() (halted bool, err error) {
	if m.PC < 1 || m.PC > len(m.rom) {
		return true, nil
	}
	if m.stepLimit > 0 && m.steps >= m.stepLimit {
		return false, m.fault("step limit of %d instructions exceeded", m.stepLimit)
	}
	m.steps++

	in := m.rom[m.PC-1]
	next := m.PC + 1
	switch in.Op {
	case OpJump:
		next = int(in.Arg)
	case OpJmpIf:
		c, err := m.pop()
		if err != nil {
			return false, err
		}
		if c != 0 {
			next = int(in.Arg)
		}
	case OpJmpNif:
		c, err := m.pop()
		if err != nil {
			return false, err
		}
		if c == 0 {
			next = int(in.Arg)
		}
	case OpSave:
		// The operand addresses the stack with the value still in place:
		// SAVE 2 overwrites the cell just below the top. Store, then drop.
		if m.sp == 0 {
			return false, m.fault("stack underflow")
		}
		if err := m.store(in.Arg, m.data[m.sp-1]); err != nil {
			return false, err
		}
		m.sp--
	case OpLoad:
		v, err := m.fetch(in.Arg)
		if err != nil {
			return false, err
		}
		if err = m.push(v); err != nil {
			return false, err
		}
	case OpCnst:
		if err := m.push(in.Arg); err != nil {
			return false, err
		}
	case OpNot:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		if err = m.push(^v); err != nil {
			return false, err
		}
	case OpPop:
		if _, err := m.pop(); err != nil {
			return false, err
		}
	case OpJsr:
		if m.csp >= CallDepth {
			return false, m.fault("JSR: call stack overflow")
		}
		m.call[m.csp] = m.PC + 1
		m.csp++
		next = int(in.Arg)
	case OpRet:
		if m.csp == 0 {
			return false, m.fault("RET: call stack underflow")
		}
		m.csp--
		next = m.call[m.csp]
	default:
		if !in.Op.Valid() {
			return false, m.fault("invalid opcode %d", in.Op)
		}
		if err := m.binary(in.Op); err != nil {
			return false, err
		}
	}
	m.PC = next
	return false, nil
}

// Run executes instructions until the machine halts by transferring control
// outside the ROM, or an error occurs.
func (m *Instance) Run() error {
	for {
		halted, err := m.Step()
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
	}
}
