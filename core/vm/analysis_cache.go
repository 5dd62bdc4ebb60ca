package vm

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ethereum/go-ethereum/common"
)

// defaultAnalysisCacheSize bounds the number of distinct code blobs whose
// JUMPDEST bitmap is kept hot. Analyses are content-addressed by code hash,
// so two contracts sharing bytecode share one cache entry.
const defaultAnalysisCacheSize = 2048

// AnalysisCache is the bounded, host-owned JUMPDEST analysis LRU. A Host
// implementation wires one of these in; frames created without one share
// the package-level defaultAnalysisCache.
type AnalysisCache struct {
	lru *lru.Cache[common.Hash, bitvec]
}

// NewAnalysisCache builds a bounded JUMPDEST analysis cache. size <= 0
// falls back to defaultAnalysisCacheSize.
func NewAnalysisCache(size int) *AnalysisCache {
	if size <= 0 {
		size = defaultAnalysisCacheSize
	}
	c, err := lru.New[common.Hash, bitvec](size)
	if err != nil {
		// Only returns an error for size <= 0, guarded above.
		panic(err)
	}
	return &AnalysisCache{lru: c}
}

// analyse returns the JUMPDEST bitmap for code, computing and caching it
// under codeHash on a miss.
func (c *AnalysisCache) analyse(codeHash common.Hash, code []byte) bitvec {
	if codeHash != (common.Hash{}) {
		if bits, ok := c.lru.Get(codeHash); ok {
			return bits
		}
	}
	bits := codeBitmap(code)
	if codeHash != (common.Hash{}) {
		c.lru.Add(codeHash, bits)
	}
	return bits
}
