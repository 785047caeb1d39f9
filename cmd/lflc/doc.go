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

// lflc compiles an LFL source file to a Factorio blueprint string holding
// the LFC program ROM.
//
// Usage:
//
//	lflc <path>.lfl [--assembly]
//
// The blueprint string is written to standard output. With --assembly, the
// assembly listing precedes it, separated by a blank line. Compilation
// errors are reported on standard error with their source location, and the
// exit status is non-zero.
package main
