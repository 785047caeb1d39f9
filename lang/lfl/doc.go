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

// Package lfl compiles LFL, a small C-like language, to LFC machine code.
//
// LFL has int and void functions, while loops, if/else chains, and 32-bit
// integer arithmetic. Variables are not declared: the first assignment to a
// name introduces it as a local of the enclosing function. The identifiers
// signal_1 .. signal_5 are the GPIO surface; reading one samples the green
// input of that number, assigning one drives the red output.
//
// The compiler keeps a function's locals directly on the machine stack, one
// slot each in order of introduction, with nothing above them between
// statements. Expression evaluation tracks how many transient values it has
// pushed, so a local's LOAD/SAVE address is always its distance from the
// current top of the stack. Calls push arguments left to right; the callee
// adopts them as its first locals and pops everything it owns before
// returning, leaving at most its return value for the caller.
package lfl
