package cpu

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"os"
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":   fmt.Sprintf("%v", MEMORY_SIZE),
	"NUM_REGISTERS": fmt.Sprintf("%v", NUM_REGISTERS),
	"SP_INIT":       fmt.Sprintf("%#x", SP_INIT),
	"VECTOR_BASE":   fmt.Sprintf("%#x", VECTOR_BASE),
}

// codeFn executes a single instruction with its operand bytes. It reports
// whether it wrote the program counter; the engine applies the normal
// advance only when it did not.
type codeFn func(a, b byte) (pcset bool, err error)

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory Memory // Flat 256-byte backing store.
	Registers

	Output io.Writer // Console sink for PRN/PRA. Defaults to os.Stdout.

	Halted bool // Terminal once set; cleared only by Reset.
	Ticks  int  // Instructions executed since reset.

	handlers map[Code]codeFn // Dispatch table, built once, read-only after.
}

// aluCodes maps ALU-class instruction bytes to their ALU operation.
var aluCodes = map[Code]AluOp{
	OP_ADD: ALU_ADD,
	OP_SUB: ALU_SUB,
	OP_MUL: ALU_MUL,
	OP_DIV: ALU_DIV,
	OP_MOD: ALU_MOD,
	OP_INC: ALU_INC,
	OP_DEC: ALU_DEC,
	OP_AND: ALU_AND,
	OP_OR:  ALU_OR,
	OP_XOR: ALU_XOR,
	OP_NOT: ALU_NOT,
	OP_CMP: ALU_CMP,
}

// NewCpu creates a new CPU with zeroed memory and the dispatch table
// installed. Any opcode absent from the table is invalid and halts the
// engine with ErrUnknownCode when fetched.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Output: os.Stdout,
	}

	cpu.handlers = map[Code]codeFn{
		OP_NOP:  cpu.opNop,
		OP_HLT:  cpu.opHlt,
		OP_LDI:  cpu.opLdi,
		OP_LD:   cpu.opLd,
		OP_ST:   cpu.opSt,
		OP_PRN:  cpu.opPrn,
		OP_PRA:  cpu.opPra,
		OP_PUSH: cpu.opPush,
		OP_POP:  cpu.opPop,
		OP_CALL: cpu.opCall,
		OP_RET:  cpu.opRet,
		OP_JMP:  cpu.opJmp,
		OP_JEQ:  cpu.jumpIf(FLAG_EQUAL, true),
		OP_JNE:  cpu.jumpIf(FLAG_EQUAL, false),
		OP_JLT:  cpu.jumpIf(FLAG_LESS, true),
		OP_JGT:  cpu.jumpIf(FLAG_GREATER, true),
		OP_INT:  cpu.opInt,
		OP_IRET: cpu.opIret,
	}

	for code, op := range aluCodes {
		cpu.handlers[code] = cpu.aluCode(op)
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset returns the CPU to its power-on state: registers cleared, stack
// pointer at SP_INIT, memory zeroed, engine running at pc 0.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers.Reset()
	cpu.Memory.Reset()
	cpu.Halted = false
	cpu.Ticks = 0
}

// Load pokes a program image into memory starting at address 0. The
// image must fit the memory; loading does not start execution.
func (cpu *Cpu) Load(image []byte) (err error) {
	if len(image) > MEMORY_SIZE {
		err = ErrProgramSize
		return
	}

	for address, value := range image {
		err = cpu.Memory.Write(address, value)
		if err != nil {
			return
		}
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("  pc: %02X  sp: %02X  fl: %03b  im: %02X  is: %02X  ir: %v\n",
		cpu.Pc, cpu.Sp, cpu.Fl, cpu.Im, cpu.Is, cpu.Ir)
	for n, val := range cpu.R {
		text += fmt.Sprintf("  r%d: %02X\n", n, val)
	}

	return
}

// Tick executes a single instruction cycle: fetch the opcode at the
// program counter into the instruction register, decode it, fetch its
// operand bytes, invoke the handler, and advance the program counter
// unless the handler redirected it. Any fault transitions the engine to
// the halted state; a halted CPU fails every further Tick with ErrHalted.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	defer func() {
		if err != nil {
			cpu.Halted = true
		}
	}()

	pc := cpu.Pc

	var fetched byte
	fetched, err = cpu.Memory.Read(pc)
	if err != nil {
		return
	}
	code := Code(fetched)
	cpu.Ir = code

	fn, ok := cpu.handlers[code]
	if !ok {
		err = ErrUnknownCode{Code: code, Pc: pc}
		log.Printf("cpu: %v", err)
		return
	}

	count := code.Operands()
	var a, b byte
	if count >= 1 {
		a, err = cpu.Memory.Read(pc + 1)
		if err != nil {
			return
		}
	}
	if count >= 2 {
		b, err = cpu.Memory.Read(pc + 2)
		if err != nil {
			return
		}
	}

	if cpu.Verbose {
		log.Printf("%02x: %v %v %v", pc, code, a, b)
	}

	var pcset bool
	pcset, err = fn(a, b)
	if err != nil {
		err = &ErrFault{Code: code, Pc: pc, Err: err}
		return
	}

	if !pcset {
		cpu.Pc = pc + count + 1
	}

	cpu.Ticks += 1

	return
}

// Run ticks the engine until it halts. A clean HLT returns nil; any
// fault returns the error that halted the engine.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// aluCode builds the handler for an ALU-class instruction.
func (cpu *Cpu) aluCode(op AluOp) codeFn {
	return func(a, b byte) (pcset bool, err error) {
		err = cpu.alu(op, int(a), int(b))
		return
	}
}

func (cpu *Cpu) opNop(a, b byte) (pcset bool, err error) {
	return
}

func (cpu *Cpu) opHlt(a, b byte) (pcset bool, err error) {
	cpu.Halted = true
	return
}

func (cpu *Cpu) opLdi(a, b byte) (pcset bool, err error) {
	err = cpu.Set(int(a), b)
	return
}

func (cpu *Cpu) opLd(a, b byte) (pcset bool, err error) {
	address, err := cpu.Get(int(b))
	if err != nil {
		return
	}

	value, err := cpu.Memory.Read(int(address))
	if err != nil {
		return
	}

	err = cpu.Set(int(a), value)
	return
}

func (cpu *Cpu) opSt(a, b byte) (pcset bool, err error) {
	address, err := cpu.Get(int(a))
	if err != nil {
		return
	}

	value, err := cpu.Get(int(b))
	if err != nil {
		return
	}

	err = cpu.Memory.Write(int(address), value)
	return
}

func (cpu *Cpu) opPrn(a, b byte) (pcset bool, err error) {
	value, err := cpu.Get(int(a))
	if err != nil {
		return
	}

	_, err = fmt.Fprintf(cpu.Output, "%d\n", value)
	return
}

func (cpu *Cpu) opPra(a, b byte) (pcset bool, err error) {
	value, err := cpu.Get(int(a))
	if err != nil {
		return
	}

	_, err = fmt.Fprintf(cpu.Output, "%c\n", value)
	return
}

func (cpu *Cpu) opPush(a, b byte) (pcset bool, err error) {
	value, err := cpu.Get(int(a))
	if err != nil {
		return
	}

	err = cpu.Push(value)
	return
}

func (cpu *Cpu) opPop(a, b byte) (pcset bool, err error) {
	value, err := cpu.Pop()
	if err != nil {
		return
	}

	err = cpu.Set(int(a), value)
	return
}

func (cpu *Cpu) opCall(a, b byte) (pcset bool, err error) {
	target, err := cpu.Get(int(a))
	if err != nil {
		return
	}

	// Return address is the instruction following the CALL and its operand.
	ret := cpu.Pc + 2
	if ret >= MEMORY_SIZE {
		err = ErrAddress(ret)
		return
	}

	err = cpu.Push(byte(ret))
	if err != nil {
		return
	}

	cpu.Pc = int(target)
	pcset = true
	return
}

func (cpu *Cpu) opRet(a, b byte) (pcset bool, err error) {
	address, err := cpu.Pop()
	if err != nil {
		return
	}

	cpu.Pc = int(address)
	pcset = true
	return
}

func (cpu *Cpu) opJmp(a, b byte) (pcset bool, err error) {
	target, err := cpu.Get(int(a))
	if err != nil {
		return
	}

	cpu.Pc = int(target)
	pcset = true
	return
}

// jumpIf builds a conditional jump handler that redirects the program
// counter to the operand register's value when the flag matches want,
// and falls through otherwise.
func (cpu *Cpu) jumpIf(flag Flag, want bool) codeFn {
	return func(a, b byte) (pcset bool, err error) {
		target, err := cpu.Get(int(a))
		if err != nil {
			return
		}

		if cpu.Flag(flag) == want {
			cpu.Pc = int(target)
			pcset = true
		}
		return
	}
}

// opInt raises software interrupt n, where n is the low three bits of the
// operand register's value. The interrupt is always taken (the interrupt
// mask gates only hardware interrupts, which this core does not generate):
// the corresponding interrupt status bit is set, the return address and
// flags register are pushed, and the program counter is loaded from the
// vector table entry at VECTOR_BASE+n.
func (cpu *Cpu) opInt(a, b byte) (pcset bool, err error) {
	value, err := cpu.Get(int(a))
	if err != nil {
		return
	}
	n := int(value & 0x7)

	ret := cpu.Pc + 2
	if ret >= MEMORY_SIZE {
		err = ErrAddress(ret)
		return
	}

	cpu.Is |= 1 << n

	err = cpu.Push(byte(ret))
	if err != nil {
		return
	}
	err = cpu.Push(cpu.Fl)
	if err != nil {
		return
	}

	vector, err := cpu.Memory.Read(VECTOR_BASE + n)
	if err != nil {
		return
	}

	cpu.Pc = int(vector)
	pcset = true
	return
}

// opIret returns from an interrupt handler: pops the flags register and
// the return address, and clears the interrupt status.
func (cpu *Cpu) opIret(a, b byte) (pcset bool, err error) {
	fl, err := cpu.Pop()
	if err != nil {
		return
	}

	address, err := cpu.Pop()
	if err != nil {
		return
	}

	cpu.Fl = fl
	cpu.Is = 0
	cpu.Pc = int(address)
	pcset = true
	return
}
