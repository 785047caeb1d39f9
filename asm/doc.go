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

// Package asm holds LFC programs while their control flow is still symbolic,
// and assembles them into final instruction lists.
//
// The code generator emits jumps and calls against named labels; Label
// records where each label lands and Assemble patches every use, so forward
// references cost nothing. The package also writes the assembly listing
// shown by lflc --assembly.
package asm
