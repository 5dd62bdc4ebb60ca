package vm

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"
)

var stackPool = sync.Pool{
	New: func() any {
		return &Stack{data: make([]uint256.Int, 0, 16)}
	},
}

// Stack is a 1024-capacity LIFO of 256-bit words. It is
// frame-local: created empty when a Contract starts running, returned to
// the pool when the frame is done.
type Stack struct {
	data []uint256.Int
}

func newstack() *Stack {
	return stackPool.Get().(*Stack)
}

func returnStack(s *Stack) {
	s.data = s.data[:0]
	stackPool.Put(s)
}

// Data returns the underlying slice, bottom element first.
func (st *Stack) Data() []uint256.Int { return st.data }

func (st *Stack) push(d *uint256.Int) {
	st.data = append(st.data, *d)
}

func (st *Stack) pop() (ret uint256.Int) {
	ret = st.data[len(st.data)-1]
	st.data = st.data[:len(st.data)-1]
	return
}

func (st *Stack) len() int { return len(st.data) }

func (st *Stack) swap(n int) {
	st.data[st.len()-n], st.data[st.len()-1] = st.data[st.len()-1], st.data[st.len()-n]
}

func (st *Stack) dup(n int) {
	st.push(&st.data[st.len()-n])
}

// peek returns the top element without removing it.
func (st *Stack) peek() *uint256.Int {
	return &st.data[st.len()-1]
}

// Back returns the n'th element from the top of the stack, 0-indexed.
func (st *Stack) Back(n int) *uint256.Int {
	return &st.data[st.len()-n-1]
}

func (st *Stack) require(n int) error {
	if st.len() < n {
		return &ErrStackUnderflow{StackLen: st.len(), Required: n}
	}
	return nil
}

func (st *Stack) String() string {
	s := "["
	for _, v := range st.data {
		s += v.Hex() + " "
	}
	return s + "]"
}

// Len returns the number of items on the stack, for callers outside the
// package.
func (st *Stack) Len() int { return st.len() }

var _ = fmt.Stringer(&Stack{})
