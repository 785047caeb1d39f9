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
	"io"
	"strconv"
	"strings"
)

// Fprint writes f back out as source text. The output is canonically
// formatted; parsing it again yields an AST equal to f.
func Fprint(w io.Writer, f *File) error {
	pr := &printer{w: w}
	for i, fn := range f.Funcs {
		if i > 0 {
			pr.line("")
		}
		pr.function(fn)
	}
	return pr.err
}

// printer writes indented lines, holding on to the first write error.
type printer struct {
	w      io.Writer
	indent int
	err    error
}

func (pr *printer) line(s string) {
	if pr.err != nil {
		return
	}
	_, pr.err = fmt.Fprintf(pr.w, "%s%s\n", strings.Repeat("\t", pr.indent), s)
}

func (pr *printer) function(fn *Function) {
	kind := "void"
	if fn.ReturnsValue {
		kind = "int"
	}
	pr.line(fmt.Sprintf("%s %s(%s) {", kind, fn.Name, strings.Join(fn.Params, ", ")))
	pr.block(fn.Body)
	pr.line("}")
}

func (pr *printer) block(stmts []Stmt) {
	pr.indent++
	for _, s := range stmts {
		pr.stmt(s)
	}
	pr.indent--
}

func (pr *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *AssignStmt:
		if s.Op != BinNone {
			rhs := s.Value.(*BinaryExpr).Y
			pr.line(fmt.Sprintf("%s %s= %s;", s.Name, s.Op, exprString(rhs, s.Op.Precedence()-1)))
		} else {
			pr.line(fmt.Sprintf("%s = %s;", s.Name, exprString(s.Value, loosestLevel)))
		}
	case *CallStmt:
		pr.line(exprString(s.Call, loosestLevel) + ";")
	case *IfStmt:
		for i, br := range s.Branches {
			head := "if"
			if i > 0 {
				head = "} else if"
			}
			pr.line(fmt.Sprintf("%s %s {", head, exprString(br.Cond, loosestLevel)))
			pr.block(br.Body)
		}
		if s.Else != nil {
			pr.line("} else {")
			pr.block(s.Else)
		}
		pr.line("}")
	case *WhileStmt:
		pr.line(fmt.Sprintf("while %s {", exprString(s.Cond, loosestLevel)))
		pr.block(s.Body)
		pr.line("}")
	case *ReturnStmt:
		if s.Value == nil {
			pr.line("return;")
		} else {
			pr.line(fmt.Sprintf("return %s;", exprString(s.Value, loosestLevel)))
		}
	case *BreakStmt:
		pr.line("break;")
	case *ContinueStmt:
		pr.line("continue;")
	}
}

// exprString renders e, parenthesising it if its operator binds more loosely
// than the surrounding context allows. maxLevel is the loosest precedence
// level that may appear unparenthesised.
func exprString(e Expr, maxLevel int) string {
	switch e := e.(type) {
	case *IntLit:
		return strconv.FormatInt(int64(e.Value), 10)
	case *VarExpr:
		return e.Name
	case *CallExpr:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = exprString(a, loosestLevel)
		}
		return e.Name + "(" + strings.Join(args, ", ") + ")"
	case *UnaryExpr:
		return e.Op.String() + exprString(e.X, 0)
	case *BinaryExpr:
		level := e.Op.Precedence()
		// Left-associative: the left operand may bind at the same level,
		// the right one must bind tighter.
		s := exprString(e.X, level) + " " + e.Op.String() + " " + exprString(e.Y, level-1)
		if level > maxLevel {
			return "(" + s + ")"
		}
		return s
	}
	return ""
}
