// Package crypto provides the hashing and address-derivation primitives the
// EVM core needs for SHA3/KECCAK256, CREATE and CREATE2 — nothing else.
// Signature verification is explicitly out of scope.
package crypto

import (
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/ethereum/go-ethereum/common"
)

// KeccakState wraps sha3.state to allow clean reset/copy semantics on top
// of the standard hash.Hash interface, matching go-ethereum's crypto
// package so callers can reuse a hasher across many calls via sync.Pool.
type KeccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

var keccakPool = sync.Pool{
	New: func() any { return sha3.NewLegacyKeccak256().(KeccakState) },
}

// NewKeccakState creates a new KeccakState.
func NewKeccakState() KeccakState {
	return sha3.NewLegacyKeccak256().(KeccakState)
}

// Keccak256 calculates and returns the Keccak256 hash of the input data.
func Keccak256(data ...[]byte) []byte {
	d := keccakPool.Get().(KeccakState)
	d.Reset()
	defer keccakPool.Put(d)

	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash calculates and returns the Keccak256 hash of the input
// data, converting it to an internal Hash data structure.
func Keccak256Hash(data ...[]byte) common.Hash {
	d := keccakPool.Get().(KeccakState)
	d.Reset()
	defer keccakPool.Put(d)

	for _, b := range data {
		d.Write(b)
	}
	var h common.Hash
	d.Read(h[:])
	return h
}

// EmptyCodeHash is keccak256 of the empty byte slice, the code hash of
// every account that has no code.
var EmptyCodeHash = Keccak256Hash(nil)
