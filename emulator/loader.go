package emulator

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ezrec/ls8/cpu"
)

// LoadImage parses an .ls8 text image into the emulator's program listing:
// one instruction byte per line, written as eight binary digits. Both '#'
// and ';' introduce comments; blank lines are ignored. Line numbers are
// retained so runtime errors can be attributed to the image source.
func (emu *Emulator) LoadImage(input io.Reader) (err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &cpu.ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog := &cpu.Program{}
	addr := 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		line = strings.TrimSpace(strings.SplitN(strings.SplitN(text, "#", 2)[0], ";", 2)[0])
		words := strings.Fields(line)

		if len(words) == 0 {
			continue
		}
		if len(words) > 1 {
			err = ErrImage
			return
		}

		word := words[0]
		if len(word) != 8 {
			err = ErrImage
			return
		}
		value, perr := strconv.ParseUint(word, 2, 8)
		if perr != nil {
			err = ErrImage
			return
		}

		prog.Opcodes = append(prog.Opcodes, cpu.Opcode{
			LineNo: lineno,
			Addr:   addr,
			Words:  words,
			Bytes:  []byte{byte(value)},
		})
		addr += 1
	}

	if addr > cpu.MEMORY_SIZE {
		err = cpu.ErrProgramSize
		return
	}

	emu.Program = prog

	return
}

// SaveImage writes the program listing in the .ls8 text format, with the
// source words of each opcode carried along as a comment.
func (emu *Emulator) SaveImage(output io.Writer) (err error) {
	for _, op := range emu.Program.Opcodes {
		for n, value := range op.Bytes {
			if n == 0 && len(op.Words) != 0 {
				_, err = fmt.Fprintf(output, "%08b # %v\n", value, strings.Join(op.Words, " "))
			} else {
				_, err = fmt.Fprintf(output, "%08b\n", value)
			}
			if err != nil {
				return
			}
		}
	}

	return
}
