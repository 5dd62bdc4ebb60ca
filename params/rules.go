package params

import "math/big"

// Rules is the resolved Schedule for one block: a flat set of booleans
// derived once from a ChainConfig and a block number/timestamp, then
// consulted by every priced operation for the lifetime of that block's
// execution. Rules is deliberately a value type with no reference back to
// ChainConfig so it is safe to pass into deeply recursive sub-calls.
type Rules struct {
	ChainID *big.Int

	IsHomestead, IsEIP150, IsEIP155, IsEIP158 bool
	IsByzantium, IsConstantinople, IsPetersburg, IsIstanbul bool
	IsBerlin, IsLondon bool
	IsShanghai, IsCancun bool

	// Named EIP feature flags, mapped from the fork booleans above so call
	// sites can read intent rather than fork trivia.
	HaveDelegateCall    bool // IsHomestead
	HaveCreate2         bool // IsConstantinople
	HaveRevert          bool // IsByzantium
	HaveReturnDataCopy  bool // IsByzantium
	HaveStaticCall      bool // IsByzantium
	HaveBitwiseShifting bool // IsConstantinople (SHL/SHR/SAR)
	HaveExtCodeHash     bool // IsConstantinople
	HaveChainID         bool // IsIstanbul
	HaveSelfBalance     bool // IsIstanbul
	EIP2929             bool // IsBerlin: cold/warm access lists
	EIP3529             bool // IsLondon: refund cap reduction, no SELFDESTRUCT refund
	EIP3541             bool // IsLondon: reject 0xEF-prefixed deployed code
	EIP3860             bool // IsShanghai: init-code size limit + word gas
	HavePush0           bool // IsShanghai
	HaveTransientStorage bool // IsCancun: TLOAD/TSTORE
	HaveMCopy           bool // IsCancun
}

// Rules derives the Schedule active at the given block number/timestamp.
// Unlike go-ethereum's ChainConfig.Rules it takes no isMerge argument; no
// rule in this module depends on the Merge.
func (c *ChainConfig) Rules(num *big.Int, timestamp uint64) Rules {
	chainID := c.ChainID
	if chainID == nil {
		chainID = new(big.Int)
	}
	r := Rules{
		ChainID:          new(big.Int).Set(chainID),
		IsHomestead:      c.IsHomestead(num),
		IsEIP150:         c.IsEIP150(num),
		IsEIP155:         c.IsEIP155(num),
		IsEIP158:         c.IsEIP158(num),
		IsByzantium:      c.IsByzantium(num),
		IsConstantinople: c.IsConstantinople(num),
		IsPetersburg:     c.IsPetersburg(num),
		IsIstanbul:       c.IsIstanbul(num),
		IsBerlin:         c.IsBerlin(num),
		IsLondon:         c.IsLondon(num),
		IsShanghai:       c.IsShanghai(num, timestamp),
		IsCancun:         c.IsCancun(num, timestamp),
	}
	r.HaveDelegateCall = r.IsHomestead
	r.HaveCreate2 = r.IsConstantinople
	r.HaveBitwiseShifting = r.IsConstantinople
	r.HaveExtCodeHash = r.IsConstantinople
	r.HaveRevert = r.IsByzantium
	r.HaveReturnDataCopy = r.IsByzantium
	r.HaveStaticCall = r.IsByzantium
	r.HaveChainID = r.IsIstanbul
	r.HaveSelfBalance = r.IsIstanbul
	r.EIP2929 = r.IsBerlin
	r.EIP3529 = r.IsLondon
	r.EIP3541 = r.IsLondon
	r.EIP3860 = r.IsShanghai
	r.HavePush0 = r.IsShanghai
	r.HaveTransientStorage = r.IsCancun
	r.HaveMCopy = r.IsCancun
	return r
}
