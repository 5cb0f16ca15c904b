package cpu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCpu(f *testing.F) {
	for op := range 256 {
		f.Add(byte(op), byte(0), byte(1))
		f.Add(byte(op), byte(7), byte(0xff))
	}

	f.Fuzz(func(t *testing.T, op byte, a byte, b byte) {
		assert := assert.New(t)

		cpu := NewCpu()
		cpu.Output = &bytes.Buffer{}

		assert.NoError(cpu.Load([]byte{op, a, b, byte(OP_HLT)}))

		err := cpu.Tick()
		if err != nil {
			// Every fault is fail-stop.
			assert.True(cpu.Halted)
			return
		}

		// A successful tick leaves the program counter inside memory.
		assert.GreaterOrEqual(cpu.Pc, 0)
		assert.Less(cpu.Pc, MEMORY_SIZE)
		assert.Equal(Code(op), cpu.Ir)
		assert.Equal(1, cpu.Ticks)
	})
}
