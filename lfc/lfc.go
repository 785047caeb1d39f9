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

const (
	// StackDepth is the size of the data stack in cells.
	StackDepth = 32
	// CallDepth is the size of the return-address stack.
	CallDepth = 32
	// SignalCount is the number of GPIO signals in each direction.
	SignalCount = 5
)

// Instance represents an LFC machine instance.
type Instance struct {
	PC int // Program Counter, 1-based ROM index

	rom       []Inst
	data      [StackDepth]Cell
	sp        int // number of cells on the data stack
	call      [CallDepth]int
	csp       int
	green     [SignalCount]Cell
	red       [SignalCount]Cell
	stepLimit int64
	steps     int64
}

// Option interface
type Option func(*Instance) error

// Green presets input signal k (1..5) to v. The machine reads these at stack
// addresses -6..-10.
func Green(k int, v Cell) Option {
	return func(m *Instance) error {
		if k < 1 || k > SignalCount {
			return errors.Errorf("Green: no input signal %d", k)
		}
		m.green[k-1] = v
		return nil
	}
}

// StepLimit bounds execution to n instructions; Run fails if the limit is
// reached before the machine halts. A limit of 0 means no limit.
func StepLimit(n int64) Option {
	return func(m *Instance) error {
		m.stepLimit = n
		return nil
	}
}

// SetOptions sets the provided options.
func (m *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new LFC machine instance with the given program ROM. The
// machine starts at ROM index 1 with empty stacks and all signals zero.
func New(rom []Inst, opts ...Option) (*Instance, error) {
	m := &Instance{
		PC:  1,
		rom: rom,
	}
	if err := m.SetOptions(opts...); err != nil {
		return nil, err
	}
	return m, nil
}

// Data returns the current data stack, deepest cell first.
func (m *Instance) Data() []Cell {
	return m.data[:m.sp]
}

// Red returns the value last written to output signal k (1..5).
func (m *Instance) Red(k int) Cell {
	return m.red[k-1]
}

// InstructionCount returns the number of instructions executed so far.
func (m *Instance) InstructionCount() int64 {
	return m.steps
}
