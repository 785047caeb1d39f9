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

package lfl

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/Lauriethefish/FactorioComputer/lfc"
)

func compileROM(t *testing.T, src string) []lfc.Inst {
	t.Helper()
	prog, err := Compile("test.lfl", []byte(src))
	if err != nil {
		t.Fatalf("%v", err)
	}
	rom, err := prog.Assemble()
	if err != nil {
		t.Fatalf("%v", err)
	}
	return rom
}

func romStrings(rom []lfc.Inst) []string {
	ss := make([]string, len(rom))
	for i, in := range rom {
		ss[i] = in.String()
	}
	return ss
}

func checkROM(t *testing.T, src string, want []string) {
	t.Helper()
	got := romStrings(compileROM(t, src))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("source %q:\nexpected:\n  %s\ngot:\n  %s",
			src, strings.Join(want, "\n  "), strings.Join(got, "\n  "))
	}
}

func TestGenSmallestProgram(t *testing.T) {
	checkROM(t, "void main() { signal_1 = 42; }", []string{
		"JSR 3",
		"JUMP 0",
		"CNST 42",
		"SAVE -1",
		"RET",
	})
}

func TestGenPrecedence(t *testing.T) {
	checkROM(t, "void main() { signal_1 = 2 + 3 * 4; }", []string{
		"JSR 3",
		"JUMP 0",
		"CNST 2",
		"CNST 3",
		"CNST 4",
		"MUL",
		"ADD",
		"SAVE -1",
		"RET",
	})
}

func TestGenIfElse(t *testing.T) {
	checkROM(t, "void main() { if signal_1 == 0 { signal_1 = 1; } else { signal_1 = 2; } }", []string{
		"JSR 3",
		"JUMP 0",
		"LOAD -6",
		"CNST 0",
		"EQ",
		"JMPNIF 10",
		"CNST 1",
		"SAVE -1",
		"JUMP 12",
		"CNST 2",
		"SAVE -1",
		"RET",
	})
}

func TestGenUnary(t *testing.T) {
	checkROM(t, "void main() { signal_1 = -signal_2; signal_3 = ~7; }", []string{
		"JSR 3",
		"JUMP 0",
		"CNST 0",
		"LOAD -7",
		"SUB",
		"SAVE -1",
		"CNST 7",
		"NOT",
		"SAVE -3",
		"RET",
	})
}

func TestGenLocalSlots(t *testing.T) {
	// Two locals: at a statement boundary a sits 2 down, b 1 down; reading a
	// while one transient value is stacked shifts its address to 3.
	checkROM(t, "void main() { a = 1; b = 2; a = b + a; }", []string{
		"JSR 3",
		"JUMP 0",
		"CNST 0", // slot for a
		"CNST 0", // slot for b
		"CNST 1",
		"SAVE 3",
		"CNST 2",
		"SAVE 2",
		"LOAD 1",
		"LOAD 3",
		"ADD",
		"SAVE 3",
		"POP",
		"POP",
		"RET",
	})
}

func TestGenCallAndReturn(t *testing.T) {
	checkROM(t, "int add(a, b) { return a + b; } void main() { signal_1 = add(3, 4); }", []string{
		"JSR 9", // main
		"JUMP 0",
		"LOAD 2", // a
		"LOAD 2", // b, one transient value deep
		"ADD",
		"SAVE 2", // collapse b's slot
		"SAVE 2", // collapse a's slot
		"RET",
		"CNST 3",
		"CNST 4",
		"JSR 3",
		"SAVE -1",
		"RET",
	})
}

// The GPIO contract: signal_k reads LOAD -(5+k) and writes SAVE -k.
func TestGenGPIOMapping(t *testing.T) {
	for k := 1; k <= 5; k++ {
		src := fmt.Sprintf("void main() { signal_%d = signal_%d + 1; }", k, k)
		rom := compileROM(t, src)
		load := rom[2]
		if load.Op != lfc.OpLoad || load.Arg != lfc.Cell(-(5+k)) {
			t.Errorf("signal_%d read: expected LOAD %d, got %s", k, -(5 + k), load)
		}
		save := rom[5]
		if save.Op != lfc.OpSave || save.Arg != lfc.Cell(-k) {
			t.Errorf("signal_%d write: expected SAVE %d, got %s", k, -k, save)
		}
	}
}

// Every jump or call operand must land inside the ROM, except the single
// JUMP 0 terminator at index 2.
func TestGenLabelClosure(t *testing.T) {
	rom := compileROM(t, `
int gcd(a, b) {
	while b != 0 {
		t = b;
		b = a % b;
		a = t;
	}
	return a;
}
void main() {
	i = 1;
	while i < 5 {
		if gcd(i, 12) == 1 { signal_1 = i; }
		i += 1;
	}
}
`)
	n := lfc.Cell(len(rom))
	for idx, in := range rom {
		if in.Op.Class() != lfc.ClassAddr || in.Op == lfc.OpSave || in.Op == lfc.OpLoad {
			continue
		}
		if idx == 1 && in.Op == lfc.OpJump && in.Arg == 0 {
			continue // the terminator
		}
		if in.Arg < 1 || in.Arg > n {
			t.Errorf("instruction %d (%s) targets %d, outside 1..%d", idx+1, in, in.Arg, n)
		}
	}
}

func TestGenMissingMain(t *testing.T) {
	for _, test := range []struct {
		name string
		src  string
		want string
	}{
		{"absent", "void f() { }", "no entry point"},
		{"returns-value", "int main() { return 1; }", "cannot return a value"},
		{"has-params", "void main(a) { }", "cannot take parameters"},
	} {
		_, err := Compile(test.name, []byte(test.src))
		cerr, ok := err.(*Error)
		if !ok || cerr.Kind != ErrLink {
			t.Errorf("%s: expected link error, got %v", test.name, err)
			continue
		}
		if !strings.Contains(cerr.Msg, test.want) {
			t.Errorf("%s: expected %q in message, got %q", test.name, test.want, cerr.Msg)
		}
	}
}

// stackDelta is the net effect of one instruction on the number of stacked
// cells, for the abstract walk below. JSR is excluded: the walk only covers
// call-free code.
func stackDelta(op lfc.Opcode) int {
	switch op {
	case lfc.OpCnst, lfc.OpLoad:
		return 1
	case lfc.OpSave, lfc.OpPop, lfc.OpJmpIf, lfc.OpJmpNif:
		return -1
	case lfc.OpJump, lfc.OpNot, lfc.OpRet:
		return 0
	}
	return -1 // all binary operators
}

// walkDepths abstractly interprets rom over [start, end] (1-based,
// inclusive), starting at start with the given depth, and checks that every
// instruction is reached at one consistent stack depth and that every RET
// executes at depth retWant.
func walkDepths(t *testing.T, rom []lfc.Inst, start, end, entry, retWant int) {
	t.Helper()
	type state struct{ pc, depth int }
	seen := make(map[int]int)
	work := []state{{start, entry}}
	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]
		if s.pc < start || s.pc > end {
			t.Fatalf("walk escaped function range at pc %d", s.pc)
		}
		if d, ok := seen[s.pc]; ok {
			if d != s.depth {
				t.Fatalf("pc %d reached at depths %d and %d", s.pc, d, s.depth)
			}
			continue
		}
		seen[s.pc] = s.depth
		in := rom[s.pc-1]
		if in.Op == lfc.OpJsr {
			t.Fatalf("walkDepths only handles call-free code, JSR at pc %d", s.pc)
		}
		d := s.depth + stackDelta(in.Op)
		if d < 0 {
			t.Fatalf("pc %d: depth went negative", s.pc)
		}
		switch in.Op {
		case lfc.OpRet:
			if s.depth != retWant {
				t.Errorf("RET at pc %d executes at depth %d, expected %d", s.pc, s.depth, retWant)
			}
		case lfc.OpJump:
			work = append(work, state{int(in.Arg), d})
		case lfc.OpJmpIf, lfc.OpJmpNif:
			work = append(work, state{int(in.Arg), d}, state{s.pc + 1, d})
		default:
			work = append(work, state{s.pc + 1, d})
		}
	}
}

// The stack discipline: locals only at statement boundaries, exactly one
// value per expression, verified by abstract interpretation of the emitted
// stream.
func TestGenStackDiscipline(t *testing.T) {
	// A call-free void main exercising while, break, continue and if.
	rom := compileROM(t, `
void main() {
	i = 0;
	sum = 0;
	while i < 10 {
		i += 1;
		if i % 2 == 0 { continue; }
		if i > 7 { break; }
		sum += i;
	}
	signal_1 = sum;
}
`)
	// main is the only function: it spans index 3 to the end.
	walkDepths(t, rom, 3, len(rom), 0, 0)

	// A call-free value function with a parameter and a mid-body return.
	rom = compileROM(t, `
int clamp(x) {
	limit = 100;
	if x > limit { return limit; }
	return x;
}
void main() { signal_1 = clamp(signal_2); }
`)
	// clamp is emitted first, from index 3 up to main's entry.
	mainStart := int(rom[0].Arg)
	walkDepths(t, rom, 3, mainStart-1, 1, 1)
}
