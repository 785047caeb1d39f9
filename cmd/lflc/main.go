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

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/Lauriethefish/FactorioComputer/asm"
	"github.com/Lauriethefish/FactorioComputer/blueprint"
	"github.com/Lauriethefish/FactorioComputer/lang/lfl"
)

var assembly = flag.Bool("assembly", false, "print the assembly listing before the blueprint string")

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: lflc <path>.lfl [--assembly]\n")
	flag.PrintDefaults()
}

func run(path string, w *bufio.Writer) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read source")
	}

	prog, err := lfl.Compile(path, src)
	if err != nil {
		return err
	}
	rom, err := prog.Assemble()
	if err != nil {
		return err
	}

	if *assembly {
		if err = asm.WriteListing(w, rom); err != nil {
			return err
		}
		if _, err = w.WriteString("\n"); err != nil {
			return errors.Wrap(err, "write listing")
		}
	}

	bp, err := blueprint.Encode(blueprint.BuildROM(rom))
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintln(w, bp); err != nil {
		return errors.Wrap(err, "write blueprint")
	}
	return errors.Wrap(w.Flush(), "write output")
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	// Flag parsing stops at the source path; parse what follows it too so
	// that --assembly may come after the path.
	path := flag.Arg(0)
	flag.CommandLine.Parse(flag.Args()[1:])
	if flag.NArg() != 0 {
		usage()
		os.Exit(2)
	}

	w := bufio.NewWriter(os.Stdout)
	if err := run(path, w); err != nil {
		w.Flush()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
