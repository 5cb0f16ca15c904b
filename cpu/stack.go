package cpu

// The stack lives in main memory and grows downward from SP_INIT. The
// stack pointer always addresses the most recently pushed byte; escaping
// the valid memory range either direction is a fatal stack fault.

// Push decrements the stack pointer and writes value at the new address.
func (cpu *Cpu) Push(value byte) (err error) {
	sp := cpu.Sp - 1
	if sp < 0 {
		err = ErrStackOverflow
		return
	}

	err = cpu.Memory.Write(sp, value)
	if err != nil {
		return
	}

	cpu.Sp = sp
	return
}

// Pop reads the value at the stack pointer and increments it.
func (cpu *Cpu) Pop() (value byte, err error) {
	if cpu.Sp >= MEMORY_SIZE {
		err = ErrStackUnderflow
		return
	}

	value, err = cpu.Memory.Read(cpu.Sp)
	if err != nil {
		return
	}

	cpu.Sp += 1
	return
}

// Peek returns the value at the top of the stack without moving the
// stack pointer.
func (cpu *Cpu) Peek() (value byte, err error) {
	if cpu.Sp >= MEMORY_SIZE {
		err = ErrStackUnderflow
		return
	}

	value, err = cpu.Memory.Read(cpu.Sp)
	return
}
