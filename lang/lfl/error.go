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

import "fmt"

// ErrorKind identifies the phase that rejected the program.
type ErrorKind int

// Error kinds.
const (
	ErrLex ErrorKind = iota
	ErrParse
	ErrName
	ErrSem
	ErrLink
)

var kindNames = [...]string{
	ErrLex:   "lex error",
	ErrParse: "parse error",
	ErrName:  "name error",
	ErrSem:   "semantic error",
	ErrLink:  "link error",
}

func (k ErrorKind) String() string {
	return kindNames[k]
}

// Error is a compilation diagnostic tied to a source location. An error with
// no location, such as a missing entry point, carries the zero Pos.
type Error struct {
	Kind ErrorKind
	File string
	Pos  Pos
	Msg  string
}

func (e *Error) Error() string {
	if !e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s:%s: %s: %s", e.File, e.Pos, e.Kind, e.Msg)
}

func errf(kind ErrorKind, file string, pos Pos, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, File: file, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
