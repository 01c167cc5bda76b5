package vm

import (
	"maps"
	"slices"
)

const (
	DEFAULT_HEADROOM = 4096    // Free cells preallocated past the image in Dense memory.
	DENSE_LIMIT      = 1 << 24 // Cells held in the Dense slice; higher addresses are kept in a map.
)

// Memory is a zero-initialized address space indexed by non-negative
// addresses. It never shrinks.
type Memory interface {
	// Get returns the value at address, or 0 if it was never written.
	Get(address int64) (value int64, err error)
	// Set stores value at address, growing storage as needed.
	Set(address int64, value int64) (err error)
	// Load replaces the contents with a copy of the program image.
	Load(prog Program)
	// Size returns one past the highest address holding data.
	Size() int64
}

// Dense memory is a growable slice. Addresses at or past DENSE_LIMIT
// are stored in a map, so far writes cost no more than with Sparse.
type Dense struct {
	Headroom int // Cells reserved past the image on Load.

	cells   []int64
	far     map[int64]int64
	farSize int64
}

var _ Memory = (*Dense)(nil)

// Get returns the value at address.
func (mem *Dense) Get(address int64) (value int64, err error) {
	if address < 0 {
		err = ErrAddress(address)
		return
	}

	if address < int64(len(mem.cells)) {
		value = mem.cells[address]
	} else {
		value = mem.far[address]
	}

	return
}

// Set stores value at address. Below DENSE_LIMIT the slice grows to at
// least address+1 cells.
func (mem *Dense) Set(address int64, value int64) (err error) {
	if address < 0 {
		err = ErrAddress(address)
		return
	}

	switch {
	case address < int64(len(mem.cells)):
		mem.cells[address] = value
	case address >= DENSE_LIMIT:
		if mem.far == nil {
			mem.far = make(map[int64]int64)
		}
		mem.far[address] = value
		// address+1 overflows at math.MaxInt64.
		mem.farSize = max(mem.farSize, address+1, address)
	default:
		need := int(address) + 1
		mem.cells = slices.Grow(mem.cells, need-len(mem.cells))
		mem.cells = mem.cells[:need]
		mem.cells[address] = value
	}

	return
}

// Load replaces the memory contents with the program image.
func (mem *Dense) Load(prog Program) {
	headroom := mem.Headroom
	if headroom < 0 {
		headroom = 0
	}
	mem.cells = make([]int64, len(prog), len(prog)+headroom)
	copy(mem.cells, prog)
	mem.far = nil
	mem.farSize = 0
}

// Size returns one past the highest address in use.
func (mem *Dense) Size() int64 {
	return max(int64(len(mem.cells)), mem.farSize)
}

// Sparse memory is a map of written cells.
type Sparse struct {
	cells map[int64]int64
	size  int64
}

var _ Memory = (*Sparse)(nil)

// Get returns the value at address.
func (mem *Sparse) Get(address int64) (value int64, err error) {
	if address < 0 {
		err = ErrAddress(address)
		return
	}

	value = mem.cells[address]
	return
}

// Set stores value at address.
func (mem *Sparse) Set(address int64, value int64) (err error) {
	if address < 0 {
		err = ErrAddress(address)
		return
	}

	if mem.cells == nil {
		mem.cells = make(map[int64]int64)
	}
	mem.cells[address] = value
	// address+1 overflows at math.MaxInt64.
	mem.size = max(mem.size, address+1, address)

	return
}

// Load replaces the memory contents with the program image.
func (mem *Sparse) Load(prog Program) {
	mem.cells = make(map[int64]int64, len(prog))
	for n, value := range prog {
		mem.cells[int64(n)] = value
	}
	mem.size = int64(len(prog))
}

// Size returns one past the highest written address.
func (mem *Sparse) Size() int64 {
	return mem.size
}

// Addresses returns the written addresses in ascending order.
func (mem *Sparse) Addresses() []int64 {
	return slices.Sorted(maps.Keys(mem.cells))
}
