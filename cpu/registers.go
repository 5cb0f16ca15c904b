package cpu

const (
	NUM_REGISTERS = 8    // General-purpose registers r0-r7
	SP_INIT       = 0xf4 // Initial stack pointer, just below the interrupt vectors
	VECTOR_BASE   = 0xf8 // Base address of the 8-entry interrupt vector table
)

// Flag is a single bit of the flags register, recording the outcome of the
// last CMP instruction. At most one flag is set at a time.
type Flag byte

const (
	FLAG_EQUAL   = Flag(0b001) // E
	FLAG_GREATER = Flag(0b010) // G
	FLAG_LESS    = Flag(0b100) // L
)

// Registers is the LS-8 register file: eight general-purpose 8-bit
// registers plus the special registers. The program counter and stack
// pointer are kept as ints so that escapes from the valid address range
// can be detected rather than silently wrapped.
type Registers struct {
	R  [NUM_REGISTERS]byte // General-purpose register bank.
	Pc int                 // Program counter.
	Ir Code                // Instruction register, last fetched opcode.
	Fl byte                // Flags register (LGE bits).
	Im byte                // Interrupt mask.
	Is byte                // Interrupt status.
	Sp int                 // Stack pointer.
}

// Get returns the value of general-purpose register index.
// Indices outside [0, NUM_REGISTERS) fail with ErrRegister.
func (regs *Registers) Get(index int) (value byte, err error) {
	if index < 0 || index >= NUM_REGISTERS {
		err = ErrRegister(index)
		return
	}

	value = regs.R[index]
	return
}

// Set stores value into general-purpose register index.
// Indices outside [0, NUM_REGISTERS) fail with ErrRegister.
func (regs *Registers) Set(index int, value byte) (err error) {
	if index < 0 || index >= NUM_REGISTERS {
		err = ErrRegister(index)
		return
	}

	regs.R[index] = value
	return
}

// SetFlag sets or clears exactly one bit of the flags register,
// leaving the other bits untouched.
func (regs *Registers) SetFlag(flag Flag, set bool) {
	if set {
		regs.Fl |= byte(flag)
	} else {
		regs.Fl &= ^byte(flag)
	}
}

// Flag returns true if the given flag bit is set.
func (regs *Registers) Flag(flag Flag) bool {
	return (regs.Fl & byte(flag)) != 0
}

// Reset returns the register file to its power-on state.
func (regs *Registers) Reset() {
	clear(regs.R[:])
	regs.Pc = 0
	regs.Ir = OP_NOP
	regs.Fl = 0
	regs.Im = 0
	regs.Is = 0
	regs.Sp = SP_INIT
}
