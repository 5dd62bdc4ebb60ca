// Package common provides the basic value types shared across the EVM core:
// fixed-width addresses and hashes used by the Stack, Memory, Host and
// interpreter packages.
package common

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	// HashLength is the expected length of the keccak256 hash used by
	// storage keys and code hashes.
	HashLength = 32
	// AddressLength is the expected length of an Ethereum account address.
	AddressLength = 20
)

// Hash represents the 32 byte keccak256 hash of arbitrary data.
type Hash [HashLength]byte

// BytesToHash sets the last len(b) bytes of the returned hash to b,
// left-padding with zero if b is shorter than HashLength and truncating
// from the left if it is longer.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// SetBytes copies b into h, left-padding or truncating from the left as
// needed so that the rightmost bytes of b end up in h.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte { return h[:] }

// Big converts a hash to a big integer.
func (h Hash) Big() *big.Int { return new(big.Int).SetBytes(h[:]) }

// String implements fmt.Stringer.
func (h Hash) String() string { return "0x" + hex.EncodeToString(h[:]) }

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool { return h == (Hash{}) }

// Address represents the 20 byte address of an Ethereum account.
type Address [AddressLength]byte

// BytesToAddress sets the last len(b) bytes of the returned address to b.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// SetBytes copies b into a, left-padding or truncating from the left.
func (a *Address) SetBytes(b []byte) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte { return a[:] }

// Big converts an address to a big integer.
func (a Address) Big() *big.Int { return new(big.Int).SetBytes(a[:]) }

// Hash returns the address left-padded to 32 bytes, the representation
// used when an address is pushed onto the EVM stack or written to memory.
func (a Address) Hash() Hash { return BytesToHash(a[:]) }

// String implements fmt.Stringer.
func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool { return a == (Address{}) }

// Hex returns a's hex-encoded string, matching fmt %x on a.Bytes().
func (a Address) Hex() string { return fmt.Sprintf("0x%x", a[:]) }

// Lengths reused by callers that need a constant rather than a literal.
const (
	AddressBits = AddressLength * 8
	HashBits    = HashLength * 8
)
