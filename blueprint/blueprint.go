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

package blueprint

import "github.com/Lauriethefish/FactorioComputer/lfc"

// Blueprint is the in-game blueprint payload.
type Blueprint struct {
	Item     string   `json:"item"`
	Label    string   `json:"label"`
	Entities []Entity `json:"entities"`
	Version  uint32   `json:"version"`
}

// Entity is one placed combinator.
type Entity struct {
	EntityNumber    uint32           `json:"entity_number"`
	Name            string           `json:"name"`
	Position        Position         `json:"position"`
	Direction       uint32           `json:"direction"`
	Connections     *Connections     `json:"connections,omitempty"`
	ControlBehavior *ControlBehavior `json:"control_behavior,omitempty"`
}

// Position is a map position in tiles.
type Position struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Connections lists the circuit wires on an entity's two connection points.
type Connections struct {
	A *ConnectionPoint `json:"1,omitempty"`
	B *ConnectionPoint `json:"2,omitempty"`
}

// ConnectionPoint carries the red and green wires attached to one point.
type ConnectionPoint struct {
	Red   []ConnectionData `json:"red"`
	Green []ConnectionData `json:"green"`
}

// ConnectionData is one wire end.
type ConnectionData struct {
	EntityID  uint32 `json:"entity_id"`
	CircuitID uint32 `json:"circuit_id"`
}

// ControlBehavior configures a combinator.
type ControlBehavior struct {
	DeciderConditions *DeciderConditions `json:"decider_conditions,omitempty"`
	Filters           []ConstantFilter   `json:"filters,omitempty"`
}

// DeciderConditions configures a decider combinator.
type DeciderConditions struct {
	Comparator         string    `json:"comparator"`
	FirstSignal        *SignalID `json:"first_signal,omitempty"`
	SecondSignal       *SignalID `json:"second_signal,omitempty"`
	Constant           *int32    `json:"constant,omitempty"`
	OutputSignal       *SignalID `json:"output_signal,omitempty"`
	CopyCountFromInput bool      `json:"copy_count_from_input"`
}

// ConstantFilter is one signal emitted by a constant combinator.
type ConstantFilter struct {
	Signal SignalID `json:"signal"`
	Count  int32    `json:"count"`
	Index  uint32   `json:"index"`
}

// SignalID names a circuit-network signal.
type SignalID struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

func virtual(name string) *SignalID {
	return &SignalID{Type: "virtual", Name: "signal-" + name}
}

// BuildROM lays out a program ROM holding the given instructions. Each
// instruction becomes a row: a decider combinator that gates the row onto
// the bus when the program-address signal P equals the row's 1-based index,
// fed by a constant combinator holding the opcode on signal O and the
// operand, if any, on signal A (addresses) or D (immediates). The deciders
// are daisy-chained with red wire to form the bus.
func BuildROM(rom []lfc.Inst) Blueprint {
	var entities []Entity

	for i, in := range rom {
		var conns *Connections
		if i > 0 {
			// Both connection points chain to the previous row's decider.
			prev := uint32(len(entities) - 1)
			conns = &Connections{
				A: &ConnectionPoint{
					Red:   []ConnectionData{{EntityID: prev, CircuitID: 1}},
					Green: []ConnectionData{},
				},
				B: &ConnectionPoint{
					Red:   []ConnectionData{{EntityID: prev, CircuitID: 2}},
					Green: []ConnectionData{},
				},
			}
		}
		addr := int32(i + 1)
		entities = append(entities, Entity{
			EntityNumber: uint32(len(entities) + 1),
			Name:         "decider-combinator",
			Position:     Position{X: 0, Y: -float32(i)},
			Direction:    2,
			Connections:  conns,
			ControlBehavior: &ControlBehavior{
				DeciderConditions: &DeciderConditions{
					Comparator:         "=",
					FirstSignal:        virtual("P"),
					Constant:           &addr,
					OutputSignal:       virtual("everything"),
					CopyCountFromInput: true,
				},
			},
		})

		filters := []ConstantFilter{
			{Signal: *virtual("O"), Count: int32(in.Op), Index: 1},
		}
		switch in.Op.Class() {
		case lfc.ClassAddr:
			filters = append(filters, ConstantFilter{Signal: *virtual("A"), Count: int32(in.Arg), Index: 2})
		case lfc.ClassData:
			filters = append(filters, ConstantFilter{Signal: *virtual("D"), Count: int32(in.Arg), Index: 2})
		}
		entities = append(entities, Entity{
			EntityNumber: uint32(len(entities) + 1),
			Name:         "constant-combinator",
			Position:     Position{X: -2, Y: -float32(i)},
			Direction:    1,
			Connections: &Connections{
				A: &ConnectionPoint{
					Red:   []ConnectionData{},
					Green: []ConnectionData{{EntityID: uint32(len(entities)), CircuitID: 1}},
				},
			},
			ControlBehavior: &ControlBehavior{
				Filters: filters,
			},
		})
	}

	return Blueprint{
		Item:     "blueprint",
		Label:    "Program",
		Entities: entities,
		Version:  0,
	}
}
