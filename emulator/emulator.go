// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
	"os"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
)

const (
	TICK_LIMIT = 1 << 20 // Default runaway guard for Run.
)

var _emulator_defines = map[string]string{
	"TICK_LIMIT": fmt.Sprintf("%v", TICK_LIMIT),
}

// Emulator state. CPU + program listing + console output.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	Output    io.Writer // Console sink for PRN/PRA. Defaults to os.Stdout.
	TickLimit int       // Maximum ticks per Run; 0 selects TICK_LIMIT.
}

// NewEmulator creates a new emulator with an empty program.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
		Output:  os.Stdout,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset loads the program image into a freshly reset CPU.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	if emu.Output != nil {
		emu.Cpu.Output = emu.Output
	}

	err = emu.Cpu.Load(emu.Program.Binary())

	return
}

// LineNo returns the current source line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.Opcode.LineNo
}

// Tick performs a single tick of the emulator. Runtime errors are
// attributed to the source line of the faulting instruction.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	done = emu.Cpu.Halted

	return
}

// Run ticks the emulator until the program halts. A program still running
// after the tick limit fails with ErrTickLimit.
func (emu *Emulator) Run() (err error) {
	limit := emu.TickLimit
	if limit == 0 {
		limit = TICK_LIMIT
	}

	for done := false; !done; {
		if emu.Cpu.Ticks >= limit {
			err = ErrTickLimit
			return
		}
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}
