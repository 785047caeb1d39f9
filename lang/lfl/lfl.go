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

import "github.com/Lauriethefish/FactorioComputer/asm"

// Compile runs the whole front end over src: lex, parse, resolve, generate.
// The result still has symbolic labels; assemble it to obtain the final ROM.
// The file name is used in diagnostics only. The first error aborts
// compilation.
func Compile(file string, src []byte) (*asm.Program, error) {
	toks, err := Tokenize(file, src)
	if err != nil {
		return nil, err
	}
	f, err := Parse(file, toks)
	if err != nil {
		return nil, err
	}
	if err := Resolve(file, f); err != nil {
		return nil, err
	}
	return Generate(file, f)
}
