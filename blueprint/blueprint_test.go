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

package blueprint_test

import (
	"testing"

	"github.com/Lauriethefish/FactorioComputer/blueprint"
	"github.com/Lauriethefish/FactorioComputer/lfc"
)

var testROM = []lfc.Inst{
	{Op: lfc.OpJsr, Arg: 3},
	{Op: lfc.OpJump, Arg: 0},
	{Op: lfc.OpCnst, Arg: 42},
	{Op: lfc.OpSave, Arg: -1},
	{Op: lfc.OpRet},
}

func TestBuildROMLayout(t *testing.T) {
	bp := blueprint.BuildROM(testROM)

	if bp.Item != "blueprint" || bp.Label != "Program" {
		t.Errorf("bad envelope fields: item %q, label %q", bp.Item, bp.Label)
	}
	if len(bp.Entities) != 2*len(testROM) {
		t.Fatalf("expected %d entities, got %d", 2*len(testROM), len(bp.Entities))
	}

	for idx := range testROM {
		decider := bp.Entities[2*idx]
		constant := bp.Entities[2*idx+1]

		if decider.Name != "decider-combinator" {
			t.Fatalf("row %d: expected decider, got %s", idx, decider.Name)
		}
		if constant.Name != "constant-combinator" {
			t.Fatalf("row %d: expected constant combinator, got %s", idx, constant.Name)
		}
		if decider.EntityNumber != uint32(2*idx+1) || constant.EntityNumber != uint32(2*idx+2) {
			t.Errorf("row %d: bad entity numbers %d, %d", idx, decider.EntityNumber, constant.EntityNumber)
		}

		// The decider gates its row when the program address matches.
		cond := decider.ControlBehavior.DeciderConditions
		if cond.FirstSignal.Name != "signal-P" || cond.Comparator != "=" {
			t.Errorf("row %d: bad decider condition %+v", idx, cond)
		}
		if *cond.Constant != int32(idx+1) {
			t.Errorf("row %d: expected address %d, got %d", idx, idx+1, *cond.Constant)
		}
		if cond.OutputSignal.Name != "signal-everything" || !cond.CopyCountFromInput {
			t.Errorf("row %d: bad decider output %+v", idx, cond)
		}

		// Deciders daisy-chain with red wire, except the first.
		if idx == 0 {
			if decider.Connections != nil {
				t.Errorf("row 0: expected no connections on the first decider")
			}
		} else {
			prev := uint32(2*idx - 1)
			conns := decider.Connections
			if conns == nil || conns.A.Red[0].EntityID != prev || conns.B.Red[0].EntityID != prev {
				t.Errorf("row %d: decider not chained to entity %d", idx, prev)
			}
		}

		// The constant combinator feeds its decider over green wire.
		if constant.Connections.A.Green[0].EntityID != decider.EntityNumber {
			t.Errorf("row %d: constant combinator not wired to its decider", idx)
		}
	}
}

func TestBuildROMSignals(t *testing.T) {
	bp := blueprint.BuildROM(testROM)
	want := []struct {
		opcode  int32
		operand string // "" for none
		count   int32
	}{
		{26, "signal-A", 3},
		{1, "signal-A", 0},
		{5, "signal-D", 42},
		{3, "signal-A", -1},
		{27, "", 0},
	}
	for idx, w := range want {
		filters := bp.Entities[2*idx+1].ControlBehavior.Filters
		if filters[0].Signal.Name != "signal-O" || filters[0].Count != w.opcode || filters[0].Index != 1 {
			t.Errorf("row %d: bad opcode filter %+v", idx, filters[0])
		}
		if w.operand == "" {
			if len(filters) != 1 {
				t.Errorf("row %d: expected no operand filter, got %+v", idx, filters[1:])
			}
			continue
		}
		if len(filters) != 2 {
			t.Fatalf("row %d: expected operand filter", idx)
		}
		if filters[1].Signal.Name != w.operand || filters[1].Count != w.count || filters[1].Index != 2 {
			t.Errorf("row %d: bad operand filter %+v", idx, filters[1])
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	bp := blueprint.BuildROM(testROM)
	s, err := blueprint.Encode(bp)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(s) == 0 || s[0] != '0' {
		t.Fatalf("expected version prefix '0', got %q", s[:1])
	}
	got, err := blueprint.Decode(s)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(got.Entities) != len(bp.Entities) {
		t.Fatalf("expected %d entities after round trip, got %d", len(bp.Entities), len(got.Entities))
	}
	if got.Label != bp.Label || got.Item != bp.Item || got.Version != bp.Version {
		t.Errorf("envelope fields changed in round trip: %+v", got)
	}
	cond := got.Entities[4].ControlBehavior.DeciderConditions
	if cond == nil || *cond.Constant != 3 {
		t.Errorf("decider condition lost in round trip: %+v", cond)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	bp := blueprint.BuildROM(testROM)
	a, err := blueprint.Encode(bp)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	b, err := blueprint.Encode(bp)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if a != b {
		t.Error("encoding the same blueprint twice gave different strings")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := blueprint.Decode(""); err == nil {
		t.Error("expected error for empty string")
	}
	if _, err := blueprint.Decode("1AAAA"); err == nil {
		t.Error("expected error for wrong version prefix")
	}
	if _, err := blueprint.Decode("0!!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}
