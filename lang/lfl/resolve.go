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
	"strconv"
	"strings"
)

// signalPrefix marks the reserved GPIO identifiers signal_1 .. signal_5.
const signalPrefix = "signal_"

// Resolve checks names, arities, call kinds and control flow across f, and
// annotates the AST in place: every name site gets a Binding, every call its
// callee's Signature, and every function its local count. The AST must not
// be reused across calls.
func Resolve(file string, f *File) error {
	r := &resolver{file: file, sigs: make(map[string]*Signature)}

	for _, fn := range f.Funcs {
		if _, ok := r.sigs[fn.Name]; ok {
			return errf(ErrSem, file, fn.NamePos, "function %s is already defined - overloading is not supported", fn.Name)
		}
		r.sigs[fn.Name] = &Signature{
			Name:         fn.Name,
			Arity:        len(fn.Params),
			ReturnsValue: fn.ReturnsValue,
		}
	}

	for _, fn := range f.Funcs {
		if err := r.function(fn); err != nil {
			return err
		}
	}
	return nil
}

type resolver struct {
	file string
	sigs map[string]*Signature
}

// scope is the per-function resolution state. Locals are introduced by
// first assignment; each owns a fixed slot for the whole function, so there
// is no shadowing and no block scoping.
type scope struct {
	r         *resolver
	fn        *Function
	locals    map[string]int
	loopDepth int
}

func (r *resolver) function(fn *Function) error {
	sc := &scope{r: r, fn: fn, locals: make(map[string]int)}
	for _, param := range fn.Params {
		if _, ok := signalNumber(param); ok {
			return errf(ErrSem, r.file, fn.NamePos, "parameter %s: %s names are reserved for GPIO", param, signalPrefix)
		}
		if _, ok := sc.locals[param]; ok {
			return errf(ErrSem, r.file, fn.NamePos, "duplicate parameter %s", param)
		}
		sc.locals[param] = len(sc.locals)
	}

	if err := sc.block(fn.Body); err != nil {
		return err
	}
	fn.NumLocals = len(sc.locals)

	if fn.ReturnsValue {
		last, _ := lastStmt(fn.Body)
		if ret, ok := last.(*ReturnStmt); !ok || ret.Value == nil {
			return errf(ErrSem, r.file, fn.NamePos, "function %s must end with 'return <expression>;'", fn.Name)
		}
	}
	return nil
}

func lastStmt(body []Stmt) (Stmt, bool) {
	if len(body) == 0 {
		return nil, false
	}
	return body[len(body)-1], true
}

// signalNumber extracts k from signal_k. ok means the name carries the
// reserved prefix; k is 0 when the suffix is not a valid signal number.
func signalNumber(name string) (k int, ok bool) {
	if !strings.HasPrefix(name, signalPrefix) {
		return 0, false
	}
	k, err := strconv.Atoi(name[len(signalPrefix):])
	if err != nil || k < 1 || k > signalCount {
		return 0, true
	}
	return k, true
}

const signalCount = 5

func (sc *scope) badSignal(name string, pos Pos) error {
	return errf(ErrSem, sc.r.file, pos, "%s: signal number must be in range 1-%d", name, signalCount)
}

func (sc *scope) block(body []Stmt) error {
	for _, s := range body {
		if err := sc.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (sc *scope) stmt(s Stmt) error {
	switch s := s.(type) {
	case *AssignStmt:
		// The value resolves first: in `x = x + 1` the read of x must refer
		// to an already-introduced local.
		if err := sc.expr(s.Value); err != nil {
			return err
		}
		if k, ok := signalNumber(s.Name); ok {
			if k == 0 {
				return sc.badSignal(s.Name, s.NamePos)
			}
			s.Bind = Binding{Kind: BindSignal, Index: k}
			return nil
		}
		slot, ok := sc.locals[s.Name]
		if !ok {
			slot = len(sc.locals)
			sc.locals[s.Name] = slot
		}
		s.Bind = Binding{Kind: BindLocal, Index: slot}
		return nil

	case *CallStmt:
		sig, err := sc.call(s.Call)
		if err != nil {
			return err
		}
		if sig.ReturnsValue {
			return errf(ErrSem, sc.r.file, s.Call.Pos, "result of %s is discarded - a value-returning call cannot be used as a statement", sig.Name)
		}
		return nil

	case *IfStmt:
		for _, br := range s.Branches {
			if err := sc.expr(br.Cond); err != nil {
				return err
			}
			if err := sc.block(br.Body); err != nil {
				return err
			}
		}
		return sc.block(s.Else)

	case *WhileStmt:
		if err := sc.expr(s.Cond); err != nil {
			return err
		}
		sc.loopDepth++
		err := sc.block(s.Body)
		sc.loopDepth--
		return err

	case *ReturnStmt:
		if sc.fn.ReturnsValue && s.Value == nil {
			return errf(ErrSem, sc.r.file, s.Pos, "function %s must return a value", sc.fn.Name)
		}
		if !sc.fn.ReturnsValue && s.Value != nil {
			return errf(ErrSem, sc.r.file, s.Pos, "function %s cannot return a value", sc.fn.Name)
		}
		if s.Value != nil {
			return sc.expr(s.Value)
		}
		return nil

	case *BreakStmt:
		if sc.loopDepth == 0 {
			return errf(ErrSem, sc.r.file, s.Pos, "break outside of a loop")
		}
		return nil

	case *ContinueStmt:
		if sc.loopDepth == 0 {
			return errf(ErrSem, sc.r.file, s.Pos, "continue outside of a loop")
		}
		return nil
	}
	return nil
}

func (sc *scope) expr(e Expr) error {
	switch e := e.(type) {
	case *IntLit:
		return nil

	case *VarExpr:
		if k, ok := signalNumber(e.Name); ok {
			if k == 0 {
				return sc.badSignal(e.Name, e.Pos)
			}
			e.Bind = Binding{Kind: BindSignal, Index: k}
			return nil
		}
		slot, ok := sc.locals[e.Name]
		if !ok {
			return errf(ErrName, sc.r.file, e.Pos, "no variable named %s has been assigned", e.Name)
		}
		e.Bind = Binding{Kind: BindLocal, Index: slot}
		return nil

	case *CallExpr:
		sig, err := sc.call(e)
		if err != nil {
			return err
		}
		if !sig.ReturnsValue {
			return errf(ErrSem, sc.r.file, e.Pos, "%s does not return a value and cannot be used in an expression", sig.Name)
		}
		return nil

	case *UnaryExpr:
		return sc.expr(e.X)

	case *BinaryExpr:
		if err := sc.expr(e.X); err != nil {
			return err
		}
		return sc.expr(e.Y)
	}
	return nil
}

func (sc *scope) call(e *CallExpr) (*Signature, error) {
	sig, ok := sc.r.sigs[e.Name]
	if !ok {
		return nil, errf(ErrName, sc.r.file, e.Pos, "no function named %s exists", e.Name)
	}
	if len(e.Args) != sig.Arity {
		return nil, errf(ErrSem, sc.r.file, e.Pos, "%s takes %d argument(s), got %d", sig.Name, sig.Arity, len(e.Args))
	}
	for _, arg := range e.Args {
		if err := sc.expr(arg); err != nil {
			return nil, err
		}
	}
	e.Sig = sig
	return sig, nil
}
