// Package params holds the EVM's Schedule: per-hardfork gas pricing
// constants and the ChainConfig/Rules types used to select among them.
package params

import (
	"fmt"
	"math/big"
)

// ChainConfig is a monotonic mapping from block number (and, from Shanghai
// onward, block timestamp) to the set of enabled hardfork rules. Fields
// left nil mean "never activated".
type ChainConfig struct {
	ChainID *big.Int `json:"chainId"`

	HomesteadBlock      *big.Int `json:"homesteadBlock,omitempty"`
	EIP150Block         *big.Int `json:"eip150Block,omitempty"`
	EIP155Block         *big.Int `json:"eip155Block,omitempty"`
	EIP158Block         *big.Int `json:"eip158Block,omitempty"`
	ByzantiumBlock      *big.Int `json:"byzantiumBlock,omitempty"`
	ConstantinopleBlock *big.Int `json:"constantinopleBlock,omitempty"`
	PetersburgBlock     *big.Int `json:"petersburgBlock,omitempty"`
	IstanbulBlock       *big.Int `json:"istanbulBlock,omitempty"`
	BerlinBlock         *big.Int `json:"berlinBlock,omitempty"`
	LondonBlock         *big.Int `json:"londonBlock,omitempty"`

	ShanghaiTime *uint64 `json:"shanghaiTime,omitempty"`
	CancunTime   *uint64 `json:"cancunTime,omitempty"`
}

// IsHomestead, IsEIP150, ... report whether the corresponding fork is
// active at the given block number. They follow go-ethereum's
// numberedActivation convention: nil means "not scheduled", i.e. inactive.
func (c *ChainConfig) IsHomestead(num *big.Int) bool { return isBlockForked(c.HomesteadBlock, num) }
func (c *ChainConfig) IsEIP150(num *big.Int) bool    { return isBlockForked(c.EIP150Block, num) }
func (c *ChainConfig) IsEIP155(num *big.Int) bool    { return isBlockForked(c.EIP155Block, num) }
func (c *ChainConfig) IsEIP158(num *big.Int) bool    { return isBlockForked(c.EIP158Block, num) }
func (c *ChainConfig) IsByzantium(num *big.Int) bool { return isBlockForked(c.ByzantiumBlock, num) }
func (c *ChainConfig) IsConstantinople(num *big.Int) bool {
	return isBlockForked(c.ConstantinopleBlock, num)
}
func (c *ChainConfig) IsPetersburg(num *big.Int) bool { return isBlockForked(c.PetersburgBlock, num) }
func (c *ChainConfig) IsIstanbul(num *big.Int) bool   { return isBlockForked(c.IstanbulBlock, num) }
func (c *ChainConfig) IsBerlin(num *big.Int) bool     { return isBlockForked(c.BerlinBlock, num) }
func (c *ChainConfig) IsLondon(num *big.Int) bool     { return isBlockForked(c.LondonBlock, num) }

func (c *ChainConfig) IsShanghai(num *big.Int, time uint64) bool {
	return c.IsLondon(num) && isTimestampForked(c.ShanghaiTime, time)
}
func (c *ChainConfig) IsCancun(num *big.Int, time uint64) bool {
	return c.IsLondon(num) && isTimestampForked(c.CancunTime, time)
}

func isBlockForked(s, head *big.Int) bool {
	if s == nil || head == nil {
		return false
	}
	return s.Cmp(head) <= 0
}

func isTimestampForked(s *uint64, time uint64) bool {
	if s == nil {
		return false
	}
	return *s <= time
}

// String implements fmt.Stringer for diagnostics/logging.
func (c *ChainConfig) String() string {
	return fmt.Sprintf("{ChainID: %v Homestead: %v EIP150: %v EIP158: %v Byzantium: %v "+
		"Constantinople: %v Petersburg: %v Istanbul: %v Berlin: %v London: %v Shanghai: %v Cancun: %v}",
		c.ChainID, c.HomesteadBlock, c.EIP150Block, c.EIP158Block, c.ByzantiumBlock,
		c.ConstantinopleBlock, c.PetersburgBlock, c.IstanbulBlock, c.BerlinBlock, c.LondonBlock,
		c.ShanghaiTime, c.CancunTime)
}

// MainnetChainConfig mirrors Ethereum mainnet's historical fork schedule
// and is the default Schedule used by the runtime reference harness and
// cmd/evm driver.
var MainnetChainConfig = &ChainConfig{
	ChainID:             big.NewInt(1),
	HomesteadBlock:      big.NewInt(1_150_000),
	EIP150Block:         big.NewInt(2_463_000),
	EIP155Block:         big.NewInt(2_675_000),
	EIP158Block:         big.NewInt(2_675_000),
	ByzantiumBlock:      big.NewInt(4_370_000),
	ConstantinopleBlock: big.NewInt(7_280_000),
	PetersburgBlock:     big.NewInt(7_280_000),
	IstanbulBlock:       big.NewInt(9_069_000),
	BerlinBlock:         big.NewInt(12_244_000),
	LondonBlock:         big.NewInt(12_965_000),
	ShanghaiTime:        u64p(1_681_338_455),
	CancunTime:          u64p(1_710_338_135),
}

// AllEthashProtocolChanges configures every fork as activated from genesis
// (block/time 0), the Schedule used by unit tests that want every rule
// enabled without constructing a historical config.
var AllEthashProtocolChanges = &ChainConfig{
	ChainID:             big.NewInt(1337),
	HomesteadBlock:      big.NewInt(0),
	EIP150Block:         big.NewInt(0),
	EIP155Block:         big.NewInt(0),
	EIP158Block:         big.NewInt(0),
	ByzantiumBlock:      big.NewInt(0),
	ConstantinopleBlock: big.NewInt(0),
	PetersburgBlock:     big.NewInt(0),
	IstanbulBlock:       big.NewInt(0),
	BerlinBlock:         big.NewInt(0),
	LondonBlock:         big.NewInt(0),
	ShanghaiTime:        u64p(0),
	CancunTime:          u64p(0),
}

func u64p(v uint64) *uint64 { return &v }
