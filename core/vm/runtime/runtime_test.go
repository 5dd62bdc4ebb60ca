package runtime_test

import (
	"bytes"
	"encoding/hex"
	"math"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/core/vm/runtime"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
)

func mustDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func newTestEVM(state *runtime.State) *vm.EVM {
	return vm.NewEVM(vm.BlockContext{
		CanTransfer: func(db vm.StateDB, addr common.Address, amount *uint256.Int) bool { return true },
		Transfer:    func(db vm.StateDB, from, to common.Address, amount *uint256.Int) {},
		GetHash:     func(n uint64) common.Hash { return common.Hash{} },
		GasLimit:    math.MaxUint64,
		BlockNumber: new(big.Int),
	}, state, params.AllEthashProtocolChanges, vm.Config{AnalysisCache: vm.NewAnalysisCache(0)})
}

func TestAddAndReturn(t *testing.T) {
	// PUSH1 1 PUSH1 2 ADD PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	code := mustDecode(t, "600160020160005260206000f3")
	ret, _, err := runtime.Execute(code, nil, nil)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(3).Bytes32(), [32]byte(ret))
}

func TestStackUnderflow(t *testing.T) {
	code := []byte{byte(vm.ADD)}
	_, _, err := runtime.Execute(code, nil, nil)
	var underflow *vm.ErrStackUnderflow
	require.ErrorAs(t, err, &underflow)
}

func TestInvalidJumpDestination(t *testing.T) {
	// PUSH1 5 JUMP JUMPDEST — the JUMPDEST sits at offset 3 and destination
	// 5 lies past the end of the 4-byte code, so the jump is invalid.
	code := mustDecode(t, "6005565b")
	_, _, err := runtime.Execute(code, nil, nil)
	var badJump *vm.ErrInvalidJumpWith
	require.ErrorAs(t, err, &badJump)
	require.Equal(t, uint64(5), badJump.Destination)
}

// recursiveCallCode returns bytecode that increments a storage counter at
// slot 0, then calls addr (itself) again forwarding all available gas via
// the all-but-one-64th rule, so nested Run frames build up evm.depth one
// per call instead of resetting between iterations.
func recursiveCallCode(addr common.Address) []byte {
	code := []byte{
		byte(vm.PUSH1), 0x00, // key 0
		byte(vm.SLOAD),
		byte(vm.PUSH1), 0x01,
		byte(vm.ADD),
		byte(vm.DUP1),
		byte(vm.PUSH1), 0x00, // key 0
		byte(vm.SSTORE),
		byte(vm.PUSH1), 0x00, // retLength
		byte(vm.PUSH1), 0x00, // retOffset
		byte(vm.PUSH1), 0x00, // argsLength
		byte(vm.PUSH1), 0x00, // argsOffset
		byte(vm.PUSH1), 0x00, // value
		byte(vm.PUSH20),
	}
	code = append(code, addr.Bytes()...)
	code = append(code, byte(vm.PUSH8), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
	code = append(code, byte(vm.CALL), byte(vm.POP), byte(vm.POP), byte(vm.STOP))
	return code
}

func TestCallDepthLimit(t *testing.T) {
	state := runtime.NewState()
	evm := newTestEVM(state)

	addr := common.BytesToAddress([]byte("recursive"))
	state.CreateAccount(addr)
	state.SetCode(addr, recursiveCallCode(addr))

	caller := vm.AccountRef(common.BytesToAddress([]byte("caller")))
	// A failing nested CALL is swallowed by its own caller's opCall (it
	// pushes 0 and carries on), so the top-level error is always nil;
	// the depth limit shows up in how many times the recursion actually
	// ran, not in a propagated error.
	_, _, err := evm.Call(caller, addr, nil, 10_000_000_000_000, new(uint256.Int))
	require.NoError(t, err)

	calls := state.GetState(addr, common.Hash{}).Big().Uint64()
	require.Equal(t, params.CallCreateDepth+1, calls)
}

func TestStaticContextRejectsSstore(t *testing.T) {
	state := runtime.NewState()
	evm := newTestEVM(state)

	addr := common.BytesToAddress([]byte("callee"))
	state.CreateAccount(addr)
	// PUSH1 1 PUSH1 0 SSTORE
	state.SetCode(addr, mustDecode(t, "6001600055"))

	caller := vm.AccountRef(common.BytesToAddress([]byte("caller")))
	_, _, err := evm.StaticCall(caller, addr, nil, 1_000_000)
	require.ErrorIs(t, err, vm.ErrWriteProtection)
}

func TestCreate2Address(t *testing.T) {
	initCode := mustDecode(t, "60008060093960006000f3")
	origin := common.BytesToAddress([]byte("origin"))
	salt := common.BytesToHash([]byte{0x01})

	state := runtime.NewState()
	evm := newTestEVM(state)
	state.CreateAccount(origin)
	state.AddBalance(origin, new(uint256.Int).SetUint64(math.MaxUint64))

	caller := vm.AccountRef(origin)
	_, addr, _, err := evm.Create2(caller, initCode, 1_000_000, new(uint256.Int), new(uint256.Int).SetBytes(salt.Bytes()))
	require.NoError(t, err)

	want := crypto.CreateAddress2(origin, salt, crypto.Keccak256(initCode))
	require.Equal(t, want, addr)
}

func TestRefundCap(t *testing.T) {
	pre := params.Rules{IsLondon: false}
	post := params.Rules{IsLondon: true}
	require.Equal(t, uint64(50), runtime.RefundCap(pre, 100))
	require.Equal(t, uint64(20), runtime.RefundCap(post, 100))
}

// TestStackBound exercises the 1024-item stack-height limit from both
// sides: 1024 successive pushes must succeed, and a 1025th must fail with
// ErrStackOverflow. pushN builds n PUSH1 0x01 instructions back to back.
func pushN(n int) []byte {
	code := make([]byte, 0, n*2+1)
	for i := 0; i < n; i++ {
		code = append(code, byte(vm.PUSH1), 0x01)
	}
	return append(code, byte(vm.STOP))
}

func TestStackBound(t *testing.T) {
	_, _, err := runtime.Execute(pushN(1024), nil, nil)
	require.NoError(t, err)

	_, _, err = runtime.Execute(pushN(1025), nil, nil)
	var overflow *vm.ErrStackOverflow
	require.ErrorAs(t, err, &overflow)
}

// TestMemoryMonotonicity checks that Memory.Resize never shrinks the
// backing store and always leaves it addressable up to the requested size.
func TestMemoryMonotonicity(t *testing.T) {
	mem := vm.NewMemory()
	require.Equal(t, 0, mem.Len())

	mem.Resize(32)
	require.Equal(t, 32, mem.Len())

	mem.Resize(16)
	require.Equal(t, 32, mem.Len(), "Resize must never shrink memory")

	mem.Resize(128)
	require.Equal(t, 128, mem.Len())
}

// TestU256RoundTrip pushes the all-ones 256-bit word, stores it to memory
// and returns it unchanged, then separately checks that arithmetic wraps
// modulo 2^256 rather than overflowing into a wider type.
func TestU256RoundTrip(t *testing.T) {
	// PUSH32 <all ones> PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	code := append([]byte{byte(vm.PUSH32)}, bytes.Repeat([]byte{0xff}, 32)...)
	code = append(code, byte(vm.PUSH1), 0x00, byte(vm.MSTORE), byte(vm.PUSH1), 0x20, byte(vm.PUSH1), 0x00, byte(vm.RETURN))
	ret, _, err := runtime.Execute(code, nil, nil)
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{0xff}, 32), ret)

	// PUSH32 <all ones> PUSH1 1 ADD PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	// wraps to zero instead of overflowing.
	wrap := append([]byte{byte(vm.PUSH32)}, bytes.Repeat([]byte{0xff}, 32)...)
	wrap = append(wrap, byte(vm.PUSH1), 0x01, byte(vm.ADD), byte(vm.PUSH1), 0x00, byte(vm.MSTORE),
		byte(vm.PUSH1), 0x20, byte(vm.PUSH1), 0x00, byte(vm.RETURN))
	ret, _, err = runtime.Execute(wrap, nil, nil)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 32), ret)
}

// TestJumpDestInPushData confirms the JUMPDEST bitmap treats a byte that
// numerically matches the JUMPDEST opcode (0x5b) as plain data when it
// falls inside a preceding PUSH's immediate argument, not as a valid jump
// target.
func TestJumpDestInPushData(t *testing.T) {
	// PUSH1 0x5b is pushed as data; jumping to its offset must fail even
	// though the byte value there is JUMPDEST.
	code := []byte{byte(vm.PUSH1), 0x04, byte(vm.JUMP), byte(vm.PUSH1), 0x5b}
	_, _, err := runtime.Execute(code, nil, nil)
	var badJump *vm.ErrInvalidJumpWith
	require.ErrorAs(t, err, &badJump)
	require.Equal(t, uint64(4), badJump.Destination)
}

// TestDeterminism runs identical code against identically-seeded state
// twice and requires bit-identical output and gas use.
func TestDeterminism(t *testing.T) {
	addr := common.BytesToAddress([]byte("det"))
	code := mustDecode(t, "6001600201600052602060006000f3")

	run := func() ([]byte, uint64) {
		state := runtime.NewState()
		evm := newTestEVM(state)
		state.CreateAccount(addr)
		state.SetCode(addr, code)
		caller := vm.AccountRef(common.BytesToAddress([]byte("caller")))
		ret, gasLeft, err := evm.Call(caller, addr, nil, 1_000_000, new(uint256.Int))
		require.NoError(t, err)
		return ret, gasLeft
	}

	ret1, gas1 := run()
	ret2, gas2 := run()
	require.Equal(t, ret1, ret2)
	require.Equal(t, gas1, gas2)
}

// TestExtCodeHash checks the two paths opExtCodeHash takes through
// StateDB.Empty: the zero hash for a non-existent account, and
// keccak256(code) for an account that exists and has code. An account
// that exists but is empty (no code, no balance, zero nonce) also yields
// the zero hash, matching EIP-1052/EIP-161 "empty account" semantics.
func TestExtCodeHash(t *testing.T) {
	target := common.BytesToAddress([]byte("target"))
	empty := common.BytesToAddress([]byte("empty"))
	// PUSH20 <addr> EXTCODEHASH PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	extcodehash := func(addr common.Address) []byte {
		code := append([]byte{byte(vm.PUSH20)}, addr.Bytes()...)
		return append(code, byte(vm.EXTCODEHASH), byte(vm.PUSH1), 0x00, byte(vm.MSTORE),
			byte(vm.PUSH1), 0x20, byte(vm.PUSH1), 0x00, byte(vm.RETURN))
	}

	state := runtime.NewState()
	evm := newTestEVM(state)
	state.CreateAccount(empty)

	caller := vm.AccountRef(common.BytesToAddress([]byte("caller")))

	runnerNonexistent := common.BytesToAddress([]byte("runner-nonexistent"))
	state.CreateAccount(runnerNonexistent)
	state.SetCode(runnerNonexistent, extcodehash(target))
	ret, _, err := evm.Call(caller, runnerNonexistent, nil, math.MaxUint64, new(uint256.Int))
	require.NoError(t, err)
	require.Equal(t, make([]byte, 32), ret)

	runnerEmpty := common.BytesToAddress([]byte("runner-empty"))
	state.CreateAccount(runnerEmpty)
	state.SetCode(runnerEmpty, extcodehash(empty))
	ret, _, err = evm.Call(caller, runnerEmpty, nil, math.MaxUint64, new(uint256.Int))
	require.NoError(t, err)
	require.Equal(t, make([]byte, 32), ret)

	contractCode := mustDecode(t, "600160005260206000f3")
	state.CreateAccount(target)
	state.SetCode(target, contractCode)

	runnerWithCode := common.BytesToAddress([]byte("runner-withcode"))
	state.CreateAccount(runnerWithCode)
	state.SetCode(runnerWithCode, extcodehash(target))
	ret, _, err = evm.Call(caller, runnerWithCode, nil, math.MaxUint64, new(uint256.Int))
	require.NoError(t, err)
	require.Equal(t, crypto.Keccak256(contractCode), ret)
}
