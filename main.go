// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/beevik/term"

	"github.com/VladimirJanus/go68xx/asm"
	"github.com/VladimirJanus/go68xx/cpu"
	"github.com/VladimirJanus/go68xx/host"
)

const versionString = "0.1.0"

var (
	assemble  bool
	input     string
	output    string
	processor string
	version   bool
)

func init() {
	flag.BoolVar(&assemble, "assemble", false, "assemble --input to a binary image and exit")
	flag.StringVar(&input, "input", "", "assembly source file")
	flag.StringVar(&output, "output", "", "binary image output path (defaults next to the source)")
	flag.StringVar(&processor, "processor", "M6800", "processor variant (M6800 or M6803)")
	flag.BoolVar(&version, "version", false, "display version and exit")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: go68xx [options] [script] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if version {
		fmt.Println("go68xx version", versionString)
		os.Exit(0)
	}

	arch, err := cpu.ParseArch(processor)
	if err != nil {
		exitOnError(err)
	}

	// Do command-line assemble if requested.
	if assemble {
		if input == "" {
			exitOnError(fmt.Errorf("--assemble requires --input"))
		}
		err := asm.AssembleFile(input, output, arch, 0, os.Stdout)
		if err != nil {
			fmt.Printf("Failed to assemble '%s': %v\n", input, err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	h := host.New(arch)

	// Run commands contained in command-line script files.
	for _, filename := range flag.Args() {
		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		h.RunCommands(file, os.Stdout, false)
		file.Close()
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands interactively.
	h.RunCommands(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
