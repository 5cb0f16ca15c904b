package cpu

import (
	"fmt"
	"strings"
)

// Code is a single LS-8 instruction byte.
//
// The encoding is AABCDDDD: AA is the operand count (0-2), B is set for
// instructions routed through the ALU, C marks the jump family that
// replaces the program counter instead of falling through (within the
// ALU class the same bit is reused by the unary instructions), and DDDD
// distinguishes instructions within a class.
type Code byte

const (
	OP_NOP  = Code(0b00000000) // nop
	OP_HLT  = Code(0b00000001) // hlt
	OP_RET  = Code(0b00001001) // ret
	OP_IRET = Code(0b00001011) // iret

	OP_PRA  = Code(0b01000010) // pra
	OP_PRN  = Code(0b01000011) // prn
	OP_CALL = Code(0b01001000) // call
	OP_INT  = Code(0b01001010) // int
	OP_POP  = Code(0b01001100) // pop
	OP_PUSH = Code(0b01001101) // push
	OP_JMP  = Code(0b01010000) // jmp
	OP_JEQ  = Code(0b01010001) // jeq
	OP_JNE  = Code(0b01010010) // jne
	OP_JLT  = Code(0b01010011) // jlt
	OP_JGT  = Code(0b01010100) // jgt
	OP_NOT  = Code(0b01110000) // not
	OP_INC  = Code(0b01111000) // inc
	OP_DEC  = Code(0b01111001) // dec

	OP_LD  = Code(0b10011000) // ld
	OP_LDI = Code(0b10011001) // ldi
	OP_ST  = Code(0b10011010) // st
	OP_CMP = Code(0b10100000) // cmp
	OP_ADD = Code(0b10101000) // add
	OP_SUB = Code(0b10101001) // sub
	OP_MUL = Code(0b10101010) // mul
	OP_DIV = Code(0b10101011) // div
	OP_MOD = Code(0b10101100) // mod
	OP_OR  = Code(0b10110001) // or
	OP_XOR = Code(0b10110010) // xor
	OP_AND = Code(0b10110011) // and
)

// codeNames maps instruction bytes to their assembly mnemonics.
var codeNames = map[Code]string{
	OP_NOP:  "NOP",
	OP_HLT:  "HLT",
	OP_RET:  "RET",
	OP_IRET: "IRET",
	OP_PRA:  "PRA",
	OP_PRN:  "PRN",
	OP_CALL: "CALL",
	OP_INT:  "INT",
	OP_POP:  "POP",
	OP_PUSH: "PUSH",
	OP_JMP:  "JMP",
	OP_JEQ:  "JEQ",
	OP_JNE:  "JNE",
	OP_JLT:  "JLT",
	OP_JGT:  "JGT",
	OP_NOT:  "NOT",
	OP_INC:  "INC",
	OP_DEC:  "DEC",
	OP_LD:   "LD",
	OP_LDI:  "LDI",
	OP_ST:   "ST",
	OP_CMP:  "CMP",
	OP_ADD:  "ADD",
	OP_SUB:  "SUB",
	OP_MUL:  "MUL",
	OP_DIV:  "DIV",
	OP_MOD:  "MOD",
	OP_OR:   "OR",
	OP_XOR:  "XOR",
	OP_AND:  "AND",
}

// codeByName is the inverse of codeNames, keyed by upper-case mnemonic.
var codeByName = func() map[string]Code {
	byName := make(map[string]Code, len(codeNames))
	for code, name := range codeNames {
		byName[name] = code
	}
	return byName
}()

// CodeByName looks up an instruction byte by its mnemonic (case-insensitive).
func CodeByName(name string) (code Code, ok bool) {
	code, ok = codeByName[strings.ToUpper(name)]
	return
}

// Operands returns the number of operand bytes following the instruction (0-2).
func (code Code) Operands() int {
	return int(code>>6) & 0x3
}

// IsAlu returns true if the instruction is routed through the ALU.
func (code Code) IsAlu() bool {
	return (code & 0b00100000) != 0
}

// SetsPc returns true if the encoding marks the instruction as one that
// replaces the program counter: bit 4 set outside the ALU class (the
// unary ALU instructions reuse that bit). Only the jump family is
// flagged; CALL, RET, INT, and IRET redirect the program counter as
// well but are not marked in the encoding, which is why the execution
// engine relies on the handler's report rather than this bit alone.
func (code Code) SetsPc() bool {
	return !code.IsAlu() && (code&0b00010000) != 0
}

// String returns the assembly mnemonic for the instruction byte.
func (code Code) String() (out string) {
	out, ok := codeNames[code]
	if !ok {
		out = fmt.Sprintf("Code(%#08b)", byte(code))
	}
	return
}

// Opcode represents a line of assembled code with its source location and generated bytes.
type Opcode struct {
	LineNo    int
	Addr      int
	Words     []string
	Bytes     []byte
	LinkLabel string
}
