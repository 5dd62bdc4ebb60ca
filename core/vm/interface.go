package vm

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/common"
)

// StateDB is the Host contract: every externally
// observable effect of a running contract — storage, balances, code, logs,
// self-destructs, the refund counter — is delegated to an implementation
// of this interface. The interpreter makes no assumption about how StateDB
// is backed and no assumption about its thread-safety beyond single-frame
// serial access.
type StateDB interface {
	CreateAccount(common.Address)

	SubBalance(common.Address, *uint256.Int)
	AddBalance(common.Address, *uint256.Int)
	GetBalance(common.Address) *uint256.Int

	GetNonce(common.Address) uint64
	SetNonce(common.Address, uint64)

	GetCodeHash(common.Address) common.Hash
	GetCode(common.Address) []byte
	SetCode(common.Address, []byte)
	GetCodeSize(common.Address) int

	AddRefund(uint64)
	SubRefund(uint64)
	GetRefund() uint64

	GetCommittedState(common.Address, common.Hash) common.Hash
	GetState(common.Address, common.Hash) common.Hash
	SetState(common.Address, common.Hash, common.Hash)

	GetTransientState(addr common.Address, key common.Hash) common.Hash
	SetTransientState(addr common.Address, key, value common.Hash)

	SelfDestruct(common.Address)
	HasSelfDestructed(common.Address) bool

	Exist(common.Address) bool
	Empty(common.Address) bool

	AddressInAccessList(addr common.Address) bool
	SlotInAccessList(addr common.Address, slot common.Hash) (addressOk bool, slotOk bool)
	AddAddressToAccessList(addr common.Address)
	AddSlotToAccessList(addr common.Address, slot common.Hash)

	RevertToSnapshot(int)
	Snapshot() int

	AddLog(*Log)
	GetLogs(hash common.Hash) []*Log

	// BlockHash returns the hash of the block with the given number; only
	// the last 256 are valid, else the zero hash.
	BlockHash(block *big.Int) common.Hash
}

// Log is the Host-recorded event of an LOG0..LOG4 opcode.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte

	BlockNumber uint64
	TxHash      common.Hash
	TxIndex     uint
	Index       uint
}

// PrecompiledContract is the host-provided callable builtin contract:
// treated as an opaque callable with a known gas cost. No concrete
// precompile is implemented
// here; this is the dispatch point only.
type PrecompiledContract interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

// PrecompiledContracts maps a precompile address to its implementation.
// Resolved via EVM.precompile, consulted before the interpreter ever runs.
type PrecompiledContracts map[common.Address]PrecompiledContract
