// Package cpu implements the LS-8 microprocessor and assembler.
//
// The CPU consists of 256 bytes of flat memory, eight 8-bit general-purpose
// registers (r0-r7), a program counter, a flags register holding the result
// of the last comparison, interrupt mask/status registers, and a stack
// pointer for a stack that grows downward from 0xf4. All register and
// memory values are unsigned 8-bit; arithmetic wraps modulo 256.
//
// The assembler provides an assembly language for the LS-8 instruction set,
// supporting macros, labels, equates, and compile-time expression evaluation.
package cpu
