package vm

import (
	"sync"

	"github.com/holiman/uint256"
)

// memoryPool recycles the backing byte slices handed out by Resize, so a
// busy interpreter doesn't churn the allocator on every CALL frame.
var memoryPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, 1024)
		return &buf
	},
}

func getPool(size uint64) []byte {
	buf := *memoryPool.Get().(*[]byte)
	if uint64(cap(buf)) < size {
		buf = make([]byte, size)
	}
	return buf[:size]
}

func putPool(buf []byte) {
	//lint:ignore SA6002 slice is a pointer-like header here; profiled in upstream as worth the box.
	memoryPool.Put(&buf)
}

// Memory implements the EVM's byte-addressable, word-extending, lazily
// grown linear memory.
type Memory struct {
	store       []byte
	lastGasCost uint64
}

// NewMemory returns a new, empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Set sets offset:offset+len of the memory to the given data.
func (m *Memory) Set(offset, size uint64, value []byte) {
	if size == 0 {
		return
	}
	if offset+size > uint64(len(m.store)) {
		panic("invalid memory: store empty")
	}
	copy(m.store[offset:offset+size], value)
}

// Set32 sets the 32 bytes starting at offset to the big-endian value of
// val, left-padding with zero.
func (m *Memory) Set32(offset uint64, val *uint256.Int) {
	if offset+32 > uint64(len(m.store)) {
		panic("invalid memory: store empty")
	}
	b32 := val.Bytes32()
	copy(m.store[offset:offset+32], b32[:])
}

// Resize grows the memory, if needed, to be able to address offsets up to
// the given size, and charges no gas itself — memoryGasCost (gas.go)
// must be billed by the caller before Resize runs. It returns the buffer
// it now owns purely so callers can pool allocations; most callers ignore
// the return value.
func (m *Memory) Resize(size uint64) []byte {
	if uint64(len(m.store)) >= size {
		return nil
	}
	buf := getPool(size)
	copy(buf, m.store)
	for i := len(m.store); i < len(buf); i++ {
		buf[i] = 0
	}
	old := m.store
	m.store = buf
	if old != nil {
		putPool(old)
	}
	return buf
}

// GetCopy returns offset:offset+size as a freshly allocated slice.
func (m *Memory) GetCopy(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	if len(m.store) > int(offset) {
		cpy := make([]byte, size)
		copy(cpy, m.store[offset:offset+size])
		return cpy
	}
	return nil
}

// GetPtr returns offset:offset+size as a slice aliasing the memory's
// backing array. Callers must not retain it across a mutating call.
func (m *Memory) GetPtr(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	if len(m.store) > int(offset) {
		return m.store[offset : offset+size]
	}
	return nil
}

// Len returns the current size of the memory, in bytes.
func (m *Memory) Len() int { return len(m.store) }

// Data returns the backing slice.
func (m *Memory) Data() []byte { return m.store }

// toWordSize rounds up byte size to the nearest multiple of 32, as used by
// both Memory expansion gas and the memory-copier gas functions.
func toWordSize(size uint64) uint64 {
	if size > 0xFFFFFFFFE0 {
		// would overflow when squared; memoryGasCost rejects this before
		// it gets here, this branch only guards toWordSize's own callers.
		return 0xFFFFFFFFE0 / 32
	}
	return (size + 31) / 32
}

// calcMemSize64 returns the (size, overflow) of the memory range
// [off, off+length), used by every opcode's memorySize function in the
// jump table before memoryGasCost is invoked.
func calcMemSize64(off, length *uint256.Int) (uint64, bool) {
	if length.IsZero() {
		return 0, false
	}
	return calcMemSize64WithUint(off, length.Uint64())
}

func calcMemSize64WithUint(off *uint256.Int, length64 uint64) (uint64, bool) {
	if !off.IsUint64() {
		return 0, true
	}
	offset64 := off.Uint64()
	val := offset64 + length64
	return val, val < offset64
}
