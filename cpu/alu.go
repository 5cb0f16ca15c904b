package cpu

// AluOp is an ALU operation type.
type AluOp int

const (
	ALU_ADD = AluOp(0)  // add
	ALU_SUB = AluOp(1)  // sub
	ALU_MUL = AluOp(2)  // mul
	ALU_DIV = AluOp(3)  // div
	ALU_MOD = AluOp(4)  // mod
	ALU_INC = AluOp(5)  // inc
	ALU_DEC = AluOp(6)  // dec
	ALU_AND = AluOp(7)  // and
	ALU_OR  = AluOp(8)  // or
	ALU_XOR = AluOp(9)  // xor
	ALU_NOT = AluOp(10) // not
	ALU_CMP = AluOp(11) // cmp
)

// alu performs the requested ALU operation over general-purpose registers
// rega and regb. Binary operations write the result into rega; the unary
// INC, DEC and NOT operate on rega alone and ignore regb. CMP writes no
// register and instead freshly recomputes all three comparison flags from
// a signed (two's-complement) comparison, so exactly one flag is set.
//
// All arithmetic wraps modulo 256. DIV and MOD fail with ErrDivideByZero
// when regb holds 0, leaving rega unchanged.
func (cpu *Cpu) alu(op AluOp, rega, regb int) (err error) {
	a, err := cpu.Get(rega)
	if err != nil {
		return
	}

	var b byte
	switch op {
	case ALU_INC, ALU_DEC, ALU_NOT:
		// unary
	default:
		b, err = cpu.Get(regb)
		if err != nil {
			return
		}
	}

	var output byte
	switch op {
	case ALU_ADD:
		output = a + b
	case ALU_SUB:
		output = a - b
	case ALU_MUL:
		output = a * b
	case ALU_DIV:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		output = a / b
	case ALU_MOD:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		output = a % b
	case ALU_INC:
		output = a + 1
	case ALU_DEC:
		output = a - 1
	case ALU_AND:
		output = a & b
	case ALU_OR:
		output = a | b
	case ALU_XOR:
		output = a ^ b
	case ALU_NOT:
		output = ^a
	case ALU_CMP:
		// Treat as signed.
		sa := int8(a)
		sb := int8(b)
		cpu.SetFlag(FLAG_EQUAL, sa == sb)
		cpu.SetFlag(FLAG_GREATER, sa > sb)
		cpu.SetFlag(FLAG_LESS, sa < sb)
		return
	default:
		err = ErrAluOp
		return
	}

	err = cpu.Set(rega, output)
	return
}
