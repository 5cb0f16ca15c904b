package cpu

import (
	"iter"
)

// Program is an assembled listing: one Opcode per source line that
// generated code, in address order starting at 0.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the listing entry covering a memory address.
type Debug struct {
	*Opcode
	Index int
}

func (prog *Program) Debug(addr int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if addr >= op.Addr && addr < op.Addr+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  addr - op.Addr,
			}
			break
		}
	}

	return
}

// Binary flattens the listing into a memory image, ready for Cpu.Load.
func (prog *Program) Binary() (image []byte) {
	for _, value := range prog.Codes() {
		image = append(image, value)
	}

	return
}

// Codes returns an iterator over (address, byte) pairs of the listing.
func (prog *Program) Codes() iter.Seq2[int, byte] {
	return func(yield func(addr int, value byte) bool) {
		for _, op := range prog.Opcodes {
			for n, value := range op.Bytes {
				if !yield(op.Addr+n, value) {
					return
				}
			}
		}
	}
}
