package vm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	table := [](struct {
		name string
		mem  func() Memory
	}){
		{"dense", func() Memory { return &Dense{} }},
		{"dense_headroom", func() Memory { return &Dense{Headroom: 8} }},
		{"dense_negative_headroom", func() Memory { return &Dense{Headroom: -1} }},
		{"sparse", func() Memory { return &Sparse{} }},
	}

	for _, entry := range table {
		assert := assert.New(t)
		mem := entry.mem()

		mem.Load(Program{1, 2, 3})
		assert.Equal(int64(3), mem.Size(), entry.name)

		value, err := mem.Get(1)
		assert.NoError(err, entry.name)
		assert.Equal(int64(2), value, entry.name)

		// Unwritten cells read as zero, and do not grow the memory.
		value, err = mem.Get(1 << 40)
		assert.NoError(err, entry.name)
		assert.Equal(int64(0), value, entry.name)
		assert.Equal(int64(3), mem.Size(), entry.name)

		assert.NoError(mem.Set(10, -7), entry.name)
		assert.Equal(int64(11), mem.Size(), entry.name)
		value, _ = mem.Get(10)
		assert.Equal(int64(-7), value, entry.name)
		value, _ = mem.Get(9)
		assert.Equal(int64(0), value, entry.name)

		_, err = mem.Get(-1)
		assert.ErrorIs(err, ErrAddressNegative, entry.name)
		err = mem.Set(-1, 5)
		assert.ErrorIs(err, ErrAddressNegative, entry.name)
		assert.Equal(ErrAddress(-1), err, entry.name)

		// Reload discards prior writes.
		mem.Load(Program{4})
		assert.Equal(int64(1), mem.Size(), entry.name)
		value, _ = mem.Get(10)
		assert.Equal(int64(0), value, entry.name)
	}
}

func TestSparseFarWrite(t *testing.T) {
	assert := assert.New(t)

	mem := &Sparse{}
	mem.Load(Program{99})
	assert.NoError(mem.Set(1<<50, 1))
	assert.NoError(mem.Set(12, 2))
	assert.Equal(int64(1<<50+1), mem.Size())
	assert.Equal([]int64{0, 12, 1 << 50}, mem.Addresses())

	// Reads do not allocate.
	_, _ = mem.Get(77)
	assert.Len(mem.Addresses(), 3)
}

func TestSparseZeroValue(t *testing.T) {
	assert := assert.New(t)

	var mem Sparse
	value, err := mem.Get(3)
	assert.NoError(err)
	assert.Equal(int64(0), value)
	assert.NoError(mem.Set(3, 1))
	assert.Equal(int64(4), mem.Size())
}

func TestMemoryFar(t *testing.T) {
	table := [](struct {
		name string
		mem  func() Memory
	}){
		{"dense", func() Memory { return &Dense{Headroom: DEFAULT_HEADROOM} }},
		{"sparse", func() Memory { return &Sparse{} }},
	}

	addresses := []int64{DENSE_LIMIT, 1 << 40, 1 << 60, math.MaxInt64}

	for _, entry := range table {
		assert := assert.New(t)
		mem := entry.mem()
		mem.Load(Program{1, 2, 3})

		for n, addr := range addresses {
			assert.NoError(mem.Set(addr, int64(n+10)), entry.name)
		}
		for n, addr := range addresses {
			value, err := mem.Get(addr)
			assert.NoError(err, entry.name)
			assert.Equal(int64(n+10), value, entry.name)
		}

		value, err := mem.Get(1<<60 + 1)
		assert.NoError(err, entry.name)
		assert.Equal(int64(0), value, entry.name)
		assert.Equal(int64(math.MaxInt64), mem.Size(), entry.name)

		// Near cells still work alongside far ones.
		assert.NoError(mem.Set(100, 7), entry.name)
		value, _ = mem.Get(100)
		assert.Equal(int64(7), value, entry.name)

		mem.Load(Program{1})
		value, _ = mem.Get(1 << 60)
		assert.Equal(int64(0), value, entry.name)
		assert.Equal(int64(1), mem.Size(), entry.name)
	}
}
