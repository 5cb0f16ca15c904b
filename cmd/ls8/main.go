// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

func main() {
	var compile string
	var save string
	var defines bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&save, "o", "", ".ls8 image file to write, do not execute")
	flag.BoolVar(&defines, "E", false, "Print predefined equates")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args()[1:])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	if defines {
		for key, value := range emu.Defines() {
			fmt.Printf("%v = %v\n", key, value)
		}
		return
	}

	// Assemble a new program.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	// Load an .ls8 image.
	if flag.NArg() == 1 {
		image := flag.Arg(0)
		inf, err := os.Open(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		defer inf.Close()

		err = emu.LoadImage(inf)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	}

	if len(save) != 0 {
		ouf, err := os.Create(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		defer ouf.Close()

		err = emu.SaveImage(ouf)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	err = emu.Run()
	if err != nil {
		if verbose {
			log.Print("\n" + emu.Cpu.String())
		}
		log.Fatal(err)
	}
}
