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
	"github.com/Lauriethefish/FactorioComputer/asm"
	"github.com/Lauriethefish/FactorioComputer/lfc"
)

// entryPoint is the function control jumps to at power-on.
const entryPoint = "main"

var binOpcode = [...]lfc.Opcode{
	BinPow: lfc.OpPow,
	BinShl: lfc.OpShl,
	BinShr: lfc.OpShr,
	BinMul: lfc.OpMul,
	BinDiv: lfc.OpDiv,
	BinRem: lfc.OpRem,
	BinAdd: lfc.OpAdd,
	BinSub: lfc.OpSub,
	BinEq:  lfc.OpEq,
	BinNe:  lfc.OpNe,
	BinLt:  lfc.OpLt,
	BinLe:  lfc.OpLte,
	BinGt:  lfc.OpGt,
	BinGe:  lfc.OpGte,
	BinAnd: lfc.OpAnd,
	BinOr:  lfc.OpOr,
}

func fnLabel(name string) string {
	return "fn." + name
}

// Generate lowers a resolved file into a symbolic program. ROM index 1 calls
// the entry point and index 2 jumps to address 0, which is outside the ROM
// and therefore halts the machine once main returns.
func Generate(file string, f *File) (*asm.Program, error) {
	var entry *Function
	for _, fn := range f.Funcs {
		if fn.Name == entryPoint {
			entry = fn
		}
	}
	if entry == nil {
		return nil, errf(ErrLink, file, Pos{}, "no entry point: define 'void %s()'", entryPoint)
	}
	if entry.ReturnsValue {
		return nil, errf(ErrLink, file, entry.NamePos, "entry point %s cannot return a value", entryPoint)
	}
	if len(entry.Params) != 0 {
		return nil, errf(ErrLink, file, entry.NamePos, "entry point %s cannot take parameters", entryPoint)
	}

	p := asm.NewProgram()
	p.EmitTarget(lfc.OpJsr, fnLabel(entryPoint))
	p.EmitArg(lfc.OpJump, 0)
	for _, fn := range f.Funcs {
		genFunction(p, fn)
	}
	return p, nil
}

// frame tracks code generation within one function. depth is the number of
// transient expression values above the function's locals; it is 0 at every
// statement boundary, which is what makes the slot addressing below valid.
type frame struct {
	p     *asm.Program
	fn    *Function
	depth int
	loops []loopLabels
}

type loopLabels struct {
	head, exit string
}

func genFunction(p *asm.Program, fn *Function) {
	p.Label(fnLabel(fn.Name))
	g := &frame{p: p, fn: fn}

	// The caller's arguments occupy the parameter slots; the remaining
	// locals get their slots pushed here so that every slot exists for the
	// whole function body.
	for i := len(fn.Params); i < fn.NumLocals; i++ {
		p.EmitArg(lfc.OpCnst, 0)
	}

	g.block(fn.Body)

	// A value function is guaranteed by the resolver to end in a return; a
	// void one may fall off the end of its body.
	if last, ok := lastStmt(fn.Body); !ok || !isReturn(last) {
		g.epilogue()
	}
}

func isReturn(s Stmt) bool {
	_, ok := s.(*ReturnStmt)
	return ok
}

// epilogue discards the function's locals and returns to the caller.
func (g *frame) epilogue() {
	for i := 0; i < g.fn.NumLocals; i++ {
		g.p.Emit(lfc.OpPop)
	}
	g.p.Emit(lfc.OpRet)
}

func (g *frame) block(body []Stmt) {
	for _, s := range body {
		g.stmt(s)
	}
}

func (g *frame) stmt(s Stmt) {
	switch s := s.(type) {
	case *AssignStmt:
		g.expr(s.Value)
		g.save(s.Bind)

	case *CallStmt:
		g.call(s.Call)

	case *IfStmt:
		end := g.p.NewLabel("L")
		for _, br := range s.Branches {
			next := g.p.NewLabel("L")
			g.expr(br.Cond)
			g.p.EmitTarget(lfc.OpJmpNif, next)
			g.depth--
			g.block(br.Body)
			g.p.EmitTarget(lfc.OpJump, end)
			g.p.Label(next)
		}
		g.block(s.Else)
		g.p.Label(end)

	case *WhileStmt:
		head := g.p.NewLabel("L")
		exit := g.p.NewLabel("L")
		g.p.Label(head)
		g.expr(s.Cond)
		g.p.EmitTarget(lfc.OpJmpNif, exit)
		g.depth--
		g.loops = append(g.loops, loopLabels{head: head, exit: exit})
		g.block(s.Body)
		g.loops = g.loops[:len(g.loops)-1]
		g.p.EmitTarget(lfc.OpJump, head)
		g.p.Label(exit)

	case *ReturnStmt:
		if s.Value != nil {
			// Collapse the locals out from under the return value: each
			// SAVE 2 folds the slot below the value away, leaving the value
			// alone on the caller's stack when RET executes.
			g.expr(s.Value)
			for i := 0; i < g.fn.NumLocals; i++ {
				g.p.EmitArg(lfc.OpSave, 2)
			}
			g.depth--
			g.p.Emit(lfc.OpRet)
		} else {
			g.epilogue()
		}

	case *BreakStmt:
		g.p.EmitTarget(lfc.OpJump, g.loops[len(g.loops)-1].exit)

	case *ContinueStmt:
		g.p.EmitTarget(lfc.OpJump, g.loops[len(g.loops)-1].head)
	}
}

// save stores the top of the stack into a binding and pops it.
func (g *frame) save(b Binding) {
	if b.Kind == BindSignal {
		g.p.EmitArg(lfc.OpSave, lfc.Cell(-b.Index))
	} else {
		g.p.EmitArg(lfc.OpSave, g.slotAddr(b.Index))
	}
	g.depth--
}

// slotAddr is the current stack address of local slot s: slot 0 is deepest,
// so with L locals and depth transient values it sits L-s+depth cells down.
func (g *frame) slotAddr(s int) lfc.Cell {
	return lfc.Cell(g.fn.NumLocals - s + g.depth)
}

func (g *frame) expr(e Expr) {
	switch e := e.(type) {
	case *IntLit:
		g.p.EmitArg(lfc.OpCnst, lfc.Cell(e.Value))
		g.depth++

	case *VarExpr:
		if e.Bind.Kind == BindSignal {
			g.p.EmitArg(lfc.OpLoad, lfc.Cell(-(signalCount + e.Bind.Index)))
		} else {
			g.p.EmitArg(lfc.OpLoad, g.slotAddr(e.Bind.Index))
		}
		g.depth++

	case *UnaryExpr:
		if e.Op == UnNot {
			g.expr(e.X)
			g.p.Emit(lfc.OpNot)
		} else {
			// There is no NEG opcode; -x is 0 - x.
			g.p.EmitArg(lfc.OpCnst, 0)
			g.depth++
			g.expr(e.X)
			g.p.Emit(lfc.OpSub)
			g.depth--
		}

	case *BinaryExpr:
		g.expr(e.X)
		g.expr(e.Y)
		g.p.Emit(binOpcode[e.Op])
		g.depth--

	case *CallExpr:
		g.call(e)
	}
}

// call pushes the arguments left to right and jumps to the callee, which
// consumes them as its parameter slots. A value-returning callee leaves its
// result on top; a void one restores the stack exactly.
func (g *frame) call(e *CallExpr) {
	for _, a := range e.Args {
		g.expr(a)
	}
	g.p.EmitTarget(lfc.OpJsr, fnLabel(e.Name))
	g.depth -= e.Sig.Arity
	if e.Sig.ReturnsValue {
		g.depth++
	}
}
