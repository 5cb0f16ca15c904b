package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram() *Program {
	return &Program{
		Opcodes: []Opcode{
			{1, 0, []string{"LDI", "R0", "8"}, []byte{byte(OP_LDI), 0, 8}, ""},
			{2, 3, []string{"PRN", "R0"}, []byte{byte(OP_PRN), 0}, ""},
			{3, 5, []string{"HLT"}, []byte{byte(OP_HLT)}, ""},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	// Operand bytes map back to their instruction's line.
	dbg = prog.Debug(2)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(2, dbg.Index)

	dbg = prog.Debug(5)
	assert.NotNil(dbg.Opcode)
	assert.Equal(3, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(100)
	assert.Nil(dbg.Opcode)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	expected := []byte{
		byte(OP_LDI), 0, 8,
		byte(OP_PRN), 0,
		byte(OP_HLT),
	}
	assert.Equal(expected, prog.Binary())
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	addrs := []int{}
	values := []byte{}
	for addr, value := range prog.Codes() {
		addrs = append(addrs, addr)
		values = append(values, value)
	}

	assert.Equal([]int{0, 1, 2, 3, 4, 5}, addrs)
	assert.Equal(prog.Binary(), values)

	// Early exit.
	count := 0
	for range prog.Codes() {
		count += 1
		if count == 2 {
			break
		}
	}
	assert.Equal(2, count)
}

func TestProgram_CodesEmpty(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{}
	assert.Nil(prog.Binary())
	for range prog.Codes() {
		assert.Fail("empty program yielded a code")
	}
}

func TestProgram_FromAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("LDI R0 8\nPRN R0\nHLT"))
	assert.NoError(err)

	assert.Equal(testProgram().Binary(), prog.Binary())

	dbg := prog.Debug(3)
	assert.NotNil(dbg.Opcode)
	assert.Equal(2, dbg.LineNo)
	assert.Equal([]string{"PRN", "R0"}, dbg.Words)
}
