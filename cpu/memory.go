package cpu

const (
	MEMORY_SIZE = 256 // Addressable memory cells
)

// Memory is the flat byte-addressable backing store for the CPU.
// It is allocated once at CPU construction and never resized.
type Memory struct {
	cells [MEMORY_SIZE]byte
}

// Read returns the byte at address. Addresses outside [0, MEMORY_SIZE)
// fail with ErrAddress.
func (mem *Memory) Read(address int) (value byte, err error) {
	if address < 0 || address >= MEMORY_SIZE {
		err = ErrAddress(address)
		return
	}

	value = mem.cells[address]
	return
}

// Write stores value at address. Addresses outside [0, MEMORY_SIZE)
// fail with ErrAddress.
func (mem *Memory) Write(address int, value byte) (err error) {
	if address < 0 || address >= MEMORY_SIZE {
		err = ErrAddress(address)
		return
	}

	mem.cells[address] = value
	return
}

// Reset zeroes every memory cell.
func (mem *Memory) Reset() {
	clear(mem.cells[:])
}
