package vm

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/common"
)

// ContractRef is anything that can be the caller or callee of a sub-call:
// either a live Contract frame or a bare AccountRef for cases where only
// the address matters (e.g. the outermost call's origin).
type ContractRef interface {
	Address() common.Address
}

// AccountRef implements ContractRef for a plain address with no running
// code behind it.
type AccountRef common.Address

// Address casts AccountRef back to a common.Address.
func (ar AccountRef) Address() common.Address { return common.Address(ar) }

// Contract is one call frame's code, gas, caller/value, and (once
// analysed) its JUMPDEST bitmap. Pooled via GetContract/ReturnContract so
// a deep call chain doesn't allocate a Contract per frame.
type Contract struct {
	CallerAddress common.Address
	caller        ContractRef
	self          ContractRef

	analysisCache *AnalysisCache // shared, host-owned bounded LRU
	analysis      bitvec         // analysis result for this contract's own code, if already computed

	Code     []byte
	CodeHash common.Hash
	Input    []byte

	Gas   uint64
	value *uint256.Int

	IsDeployment bool
	IsSystemCall bool
}

var contractPool = sync.Pool{
	New: func() any { return &Contract{} },
}

// defaultAnalysisCache backs frames created without a Host-supplied cache
// (e.g. in tests) so validJumpdest always has somewhere to memoize.
var defaultAnalysisCache = NewAnalysisCache(0)

// GetContract returns a Contract from the pool, reset for a new frame.
// analysisCache is the shared, host-owned bounded JUMPDEST cache; callers
// that don't have one (tests) may pass nil to fall back to a package-level
// default.
func GetContract(caller, self ContractRef, value *uint256.Int, gas uint64, analysisCache *AnalysisCache) *Contract {
	c := contractPool.Get().(*Contract)
	c.caller = caller
	c.self = self
	c.CallerAddress = caller.Address()
	c.value = value
	c.Gas = gas
	c.Code = nil
	c.CodeHash = common.Hash{}
	c.Input = nil
	c.IsDeployment = false
	c.IsSystemCall = false
	c.analysis = nil
	if analysisCache == nil {
		analysisCache = defaultAnalysisCache
	}
	c.analysisCache = analysisCache
	return c
}

// ReturnContract puts c back in the pool. Callers must not touch c
// afterwards.
func ReturnContract(c *Contract) {
	if c == nil {
		return
	}
	contractPool.Put(c)
}

// SetCallCode sets the code and its hash for this contract frame.
func (c *Contract) SetCallCode(hash common.Hash, code []byte) {
	c.Code = code
	c.CodeHash = hash
}

// Address returns the address of this contract frame (the callee).
func (c *Contract) Address() common.Address { return c.self.Address() }

// Caller returns the address that invoked this frame.
func (c *Contract) Caller() common.Address { return c.CallerAddress }

// Value returns the value passed to this frame.
func (c *Contract) Value() *uint256.Int { return c.value }

// UseGas deducts gas from the contract's remaining gas, reporting
// whether enough was available. The caller is expected to abort the frame
// entirely when it returns false.
func (c *Contract) UseGas(gas uint64) bool {
	if c.Gas < gas {
		return false
	}
	c.Gas -= gas
	return true
}

// RefundGas credits gas back to the contract after a sub-call returns.
func (c *Contract) RefundGas(gas uint64) {
	c.Gas += gas
}

// AsDelegate reconfigures a freshly pooled Contract to run under
// DELEGATECALL semantics: the code at the callee's address executes with
// the grandparent's caller/value.
func (c *Contract) AsDelegate() *Contract {
	if parent, ok := c.caller.(*Contract); ok {
		c.CallerAddress = parent.CallerAddress
		c.value = parent.value
	}
	return c
}

// validJumpdest reports whether dest is a JUMPDEST that is valid to jump to: in
// bounds and not hiding inside a PUSH immediate.
func (c *Contract) validJumpdest(dest *uint256.Int) bool {
	udest, overflow := dest.Uint64WithOverflow()
	if overflow || udest >= uint64(len(c.Code)) {
		return false
	}
	if c.analysis == nil {
		c.analysis = c.analysisCache.analyse(c.CodeHash, c.Code)
	}
	return c.analysis.isJumpDest(c.Code, udest)
}
