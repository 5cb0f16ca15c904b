package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("256", asm.Equate["MEMORY_SIZE"])
	assert.Equal("0xf4", asm.Equate["SP_INIT"])
	assert.Equal("0xf8", asm.Equate["VECTOR_BASE"])
}

func opEqual(t *testing.T, expected, opcodes []Opcode) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(opcodes))
	if len(expected) == len(opcodes) {
		for n := range len(expected) {
			assert.Equal(expected[n], opcodes[n])
		}
	}
}

func TestAssemblerBasic(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"LDI R0 8",
		"LDI R1 9",
		"ADD R0 R1",
		"PRN R0",
		"HLT",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Opcode{
		{1, 0, []string{"LDI", "R0", "8"}, []byte{byte(OP_LDI), 0, 8}, ""},
		{2, 3, []string{"LDI", "R1", "9"}, []byte{byte(OP_LDI), 1, 9}, ""},
		{3, 6, []string{"ADD", "R0", "R1"}, []byte{byte(OP_ADD), 0, 1}, ""},
		{4, 9, []string{"PRN", "R0"}, []byte{byte(OP_PRN), 0}, ""},
		{5, 11, []string{"HLT"}, []byte{byte(OP_HLT)}, ""},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerComments(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"; full line comment",
		"# another comment style",
		"LDI R0 8 ; trailing",
		"HLT # trailing",
		"",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	assert.Equal(2, len(prog.Opcodes))
}

func TestAssemblerLabel(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"LDI R0 done",
		"JMP R0",
		"LDI R1 9",
		"done: HLT",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Opcode{
		{1, 0, []string{"LDI", "R0", "done"}, []byte{byte(OP_LDI), 0, 8}, "done"},
		{2, 3, []string{"JMP", "R0"}, []byte{byte(OP_JMP), 0}, ""},
		{3, 5, []string{"LDI", "R1", "9"}, []byte{byte(OP_LDI), 1, 9}, ""},
		{4, 8, []string{"HLT"}, []byte{byte(OP_HLT)}, ""},
	}

	opEqual(t, expected, prog.Opcodes)
	assert.Equal(8, asm.Label["done"])
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".equ TEN 10",
		"LDI R0 TEN",
		"LDI R1 $(TEN + TEN)",
		".equ THIRTY $(2 * TEN + TEN)",
		"LDI R2 THIRTY",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(errors.Unwrap(err))
	}

	assert.Equal(3, len(prog.Opcodes))
	assert.Equal([]byte{byte(OP_LDI), 0, 10}, prog.Opcodes[0].Bytes)
	assert.Equal([]byte{byte(OP_LDI), 1, 20}, prog.Opcodes[1].Bytes)
	assert.Equal([]byte{byte(OP_LDI), 2, 30}, prog.Opcodes[2].Bytes)
}

func TestAssemblerCharacter(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"LDI R0 'A'",
		"LDI R1 '\\n'",
		"PRA R0",
		"HLT",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal([]byte{byte(OP_LDI), 0, 'A'}, prog.Opcodes[0].Bytes)
	assert.Equal([]byte{byte(OP_LDI), 1, '\n'}, prog.Opcodes[1].Bytes)
}

func TestAssemblerInvert(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader("LDI R0 ~0x0f"))
	assert.NoError(err)

	assert.Equal([]byte{byte(OP_LDI), 0, 0xf0}, prog.Opcodes[0].Bytes)
}

func TestAssemblerNegative(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader("LDI R0 -1"))
	assert.NoError(err)

	assert.Equal([]byte{byte(OP_LDI), 0, 0xff}, prog.Opcodes[0].Bytes)
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".macro SET2 ra rb v",
		"LDI ra v",
		"LDI rb v",
		".endm",
		"SET2 R0 R1 5",
		"SET2 R2 R3 $(5 + 5)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := []Opcode{
		{2, 0, []string{"LDI", "R0", "5"}, []byte{byte(OP_LDI), 0, 5}, ""},
		{3, 3, []string{"LDI", "R1", "5"}, []byte{byte(OP_LDI), 1, 5}, ""},
		{2, 6, []string{"LDI", "R2", "0xa"}, []byte{byte(OP_LDI), 2, 10}, ""},
		{3, 9, []string{"LDI", "R3", "0xa"}, []byte{byte(OP_LDI), 3, 10}, ""},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerDb(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"LDI R0 msg",
		"msg: DB 42",
		"DB ~0",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	expected := []Opcode{
		{1, 0, []string{"LDI", "R0", "msg"}, []byte{byte(OP_LDI), 0, 3}, "msg"},
		{2, 3, []string{"DB", "42"}, []byte{42}, ""},
		{3, 4, []string{"DB", "~0"}, []byte{0xff}, ""},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("START", "0x10")

	prog, err := asm.Parse(strings.NewReader("LDI R0 START"))
	assert.NoError(err)

	assert.Equal([]byte{byte(OP_LDI), 0, 0x10}, prog.Opcodes[0].Bytes)
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
	}){
		{"DUP:\nDUP:\n", 2},
		{"LDI R0\n", 1},
		{"LDI R0 1 2\n", 1},
		{"LDI R9 1\n", 1},
		{"LDI R0 300\n", 1},
		{"LDI R0 $(\"aaa\")\n", 1},
		{"LDI R0 $(more(\"aaa\"))\n", 1},
		{"LDI R0 nope\n", 1},
		{"ADD R0 5\n", 1},
		{"FROB R0\n", 1},
		{"DB\n", 1},
		{"DB 1 2\n", 1},
		{"DB 999\n", 1},
		{".equ\n", 1},
		{".equ A\n", 1},
		{".equ A 1\n.equ A 2\n", 2},
		{".macro\n", 1},
		{".macro A B\n.endm\nA 1 2\n", 3},
		{".macro A\n.macro B\n", 2},
		{".macro A\n.endm\n.macro A\n.endm\n", 3},
		{".endm\n", 1},
		{".macro A\nLDI R0 1\n", 2},
		{".macro A B\nLDI R9 B\n.endm\nA 1\n", 4},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
		}
	}
}

func TestAssemblerErrMacro(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	_, err := asm.Parse(strings.NewReader(".macro A B\nLDI R9 B\n.endm\nA 1\n"))
	assert.NotNil(err)

	var em *ErrMacro
	assert.True(errors.As(err, &em))
	assert.Equal("A", em.Macro)
	assert.True(errors.Is(err, ErrRegisterSyntax))
}
