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

import "strconv"

type parser struct {
	file string
	toks []Token
	pos  int
}

// Parse builds the AST for a token stream produced by Tokenize.
func Parse(file string, toks []Token) (*File, error) {
	p := &parser{file: file, toks: toks}
	f := &File{}
	for p.peek().Kind != TokEOF {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		f.Funcs = append(f.Funcs, fn)
	}
	return f, nil
}

// peek returns the next token without consuming it. The stream always ends
// with TokEOF, which peek returns forever once reached.
func (p *parser) peek() Token {
	return p.toks[p.pos]
}

func (p *parser) peek2() Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() Token {
	t := p.toks[p.pos]
	if t.Kind != TokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	t := p.next()
	if t.Kind != kind {
		return t, errf(ErrParse, p.file, t.Pos, "expected %s, found %s", kind, t)
	}
	return t, nil
}

func (p *parser) parseFunction() (*Function, error) {
	var returnsValue bool
	switch t := p.next(); t.Kind {
	case TokInt:
		returnsValue = true
	case TokVoid:
		returnsValue = false
	default:
		return nil, errf(ErrParse, p.file, t.Pos, "expected 'int' or 'void' to begin a function, found %s", t)
	}

	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(TokLParen); err != nil {
		return nil, err
	}

	var params []string
	if p.peek().Kind != TokRParen {
		for {
			param, err := p.expect(TokIdent)
			if err != nil {
				return nil, err
			}
			params = append(params, param.Lexeme)
			if p.peek().Kind != TokComma {
				break
			}
			p.next()
		}
	}
	if _, err = p.expect(TokRParen); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &Function{
		Name:         name.Lexeme,
		NamePos:      name.Pos,
		Params:       params,
		ReturnsValue: returnsValue,
		Body:         body,
	}, nil
}

func (p *parser) parseBlock() ([]Stmt, error) {
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}
	var stmts []Stmt
	for p.peek().Kind != TokRBrace {
		if p.peek().Kind == TokEOF {
			return nil, errf(ErrParse, p.file, p.peek().Pos, "expected '}', found end of file")
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	p.next()
	return stmts, nil
}

func (p *parser) semi(s Stmt) (Stmt, error) {
	if _, err := p.expect(TokSemi); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *parser) parseStmt() (Stmt, error) {
	switch t := p.peek(); t.Kind {
	case TokIf:
		p.next()
		return p.parseIf()

	case TokWhile:
		p.next()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Cond: cond, Body: body}, nil

	case TokReturn:
		p.next()
		if p.peek().Kind == TokSemi {
			p.next()
			return &ReturnStmt{Pos: t.Pos}, nil
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return p.semi(&ReturnStmt{Pos: t.Pos, Value: value})

	case TokBreak:
		p.next()
		return p.semi(&BreakStmt{Pos: t.Pos})

	case TokContinue:
		p.next()
		return p.semi(&ContinueStmt{Pos: t.Pos})

	case TokIdent:
		return p.parseSimpleStmt()
	}
	t := p.next()
	return nil, errf(ErrParse, p.file, t.Pos, "expected statement, found %s", t)
}

func (p *parser) parseIf() (Stmt, error) {
	s := &IfStmt{}
	for {
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		s.Branches = append(s.Branches, IfBranch{Cond: cond, Body: body})

		if p.peek().Kind != TokElse {
			return s, nil
		}
		p.next()
		if p.peek().Kind == TokIf {
			p.next()
			continue
		}
		s.Else, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// compoundOps maps `op=` tokens to the operator they apply before storing.
var compoundOps = map[TokenKind]BinOp{
	TokPlusAssign:  BinAdd,
	TokMinusAssign: BinSub,
	TokStarAssign:  BinMul,
	TokSlashAssign: BinDiv,
	TokAmpAssign:   BinAnd,
	TokBarAssign:   BinOr,
	TokCaretAssign: BinPow,
}

// parseSimpleStmt parses a statement that begins with an identifier: a call,
// an assignment, or a compound assignment, decided by the following token.
func (p *parser) parseSimpleStmt() (Stmt, error) {
	name := p.next()
	switch t := p.peek(); t.Kind {
	case TokLParen:
		call, err := p.parseCall(name)
		if err != nil {
			return nil, err
		}
		return p.semi(&CallStmt{Call: call})

	case TokAssign:
		p.next()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return p.semi(&AssignStmt{Name: name.Lexeme, NamePos: name.Pos, Value: value})
	}

	if op, ok := compoundOps[p.peek().Kind]; ok {
		p.next()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		// Desugar to `name = name op rhs`, keeping Op so the printer can
		// reproduce the compound form.
		return p.semi(&AssignStmt{
			Name:    name.Lexeme,
			NamePos: name.Pos,
			Op:      op,
			Value: &BinaryExpr{
				Op: op,
				X:  &VarExpr{Name: name.Lexeme, Pos: name.Pos},
				Y:  rhs,
			},
		})
	}

	t := p.next()
	return nil, errf(ErrParse, p.file, t.Pos, "expected '(', '=' or a compound assignment after %s, found %s", name, t)
}

func (p *parser) parseCall(name Token) (*CallExpr, error) {
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	call := &CallExpr{Name: name.Lexeme, Pos: name.Pos}
	if p.peek().Kind != TokRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.peek().Kind != TokComma {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	return call, nil
}

// binOps maps operator tokens to binary operators.
var binOps = map[TokenKind]BinOp{
	TokCaret:   BinPow,
	TokShl:     BinShl,
	TokShr:     BinShr,
	TokStar:    BinMul,
	TokSlash:   BinDiv,
	TokPercent: BinRem,
	TokPlus:    BinAdd,
	TokMinus:   BinSub,
	TokEq:      BinEq,
	TokNe:      BinNe,
	TokLt:      BinLt,
	TokLe:      BinLe,
	TokGt:      BinGt,
	TokGe:      BinGe,
	TokAmp:     BinAnd,
	TokBar:     BinOr,
}

func (p *parser) parseExpr() (Expr, error) {
	return p.parseBinary(loosestLevel)
}

// parseBinary parses expressions whose operators bind at the given level or
// tighter. Level 0 is the unary expressions.
func (p *parser) parseBinary(level int) (Expr, error) {
	if level == 0 {
		return p.parseUnary()
	}
	x, err := p.parseBinary(level - 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := binOps[p.peek().Kind]
		if !ok || op.Precedence() != level {
			return x, nil
		}
		p.next()
		y, err := p.parseBinary(level - 1)
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{Op: op, X: x, Y: y}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	switch t := p.peek(); t.Kind {
	case TokMinus:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: UnNeg, Pos: t.Pos, X: x}, nil
	case TokTilde:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: UnNot, Pos: t.Pos, X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	switch t := p.peek(); t.Kind {
	case TokNumber:
		p.next()
		v, err := strconv.ParseInt(t.Lexeme, 10, 32)
		if err != nil {
			return nil, errf(ErrSem, p.file, t.Pos, "integer literal %s does not fit in 32 bits", t.Lexeme)
		}
		return &IntLit{Pos: t.Pos, Value: int32(v)}, nil

	case TokIdent:
		if p.peek2().Kind == TokLParen {
			name := p.next()
			return p.parseCall(name)
		}
		p.next()
		return &VarExpr{Name: t.Lexeme, Pos: t.Pos}, nil

	case TokLParen:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err = p.expect(TokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	}
	t := p.next()
	return nil, errf(ErrParse, p.file, t.Pos, "expected expression, found %s", t)
}
