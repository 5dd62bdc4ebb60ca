package crypto

import (
	"github.com/ethereum/go-ethereum/common"
)

// CreateAddress derives the address of a newly created contract from the
// sender's address and account nonce, per the Yellow Paper:
// keccak256(rlp([sender, nonce]))[12:].
func CreateAddress(b common.Address, nonce uint64) common.Address {
	data := rlpEncodeList(rlpBytes(b.Bytes()), rlpUint64(nonce))
	return common.BytesToAddress(Keccak256(data)[12:])
}

// CreateAddress2 derives the CREATE2 (EIP-1014) contract address:
// keccak256(0xff ++ sender ++ salt ++ keccak256(init_code))[12:].
func CreateAddress2(b common.Address, salt [32]byte, inithash []byte) common.Address {
	data := make([]byte, 0, 1+20+32+32)
	data = append(data, 0xff)
	data = append(data, b.Bytes()...)
	data = append(data, salt[:]...)
	data = append(data, inithash...)
	return common.BytesToAddress(Keccak256(data)[12:])
}

// The CREATE address formula is the only RLP consumer in this module, so
// rather than carry a full reflection-based RLP encoder we implement just
// the two item encodings (byte string, uint64) and the list wrapper the
// formula needs. Rules below follow the RLP spec used throughout Ethereum.

func rlpBytes(b []byte) []byte {
	// No leading zero bytes are stripped: the only caller passes an
	// address, which RLP encodes as a fixed 20-byte string.
	return rlpWrapString(b)
}

func rlpUint64(n uint64) []byte {
	if n == 0 {
		return rlpWrapString(nil)
	}
	var buf [8]byte
	i := 8
	for n > 0 {
		i--
		buf[i] = byte(n)
		n >>= 8
	}
	return rlpWrapString(buf[i:])
}

func rlpWrapString(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	return append(rlpLengthPrefix(0x80, len(b)), b...)
}

func rlpEncodeList(items ...[]byte) []byte {
	var body []byte
	for _, it := range items {
		body = append(body, it...)
	}
	return append(rlpLengthPrefix(0xc0, len(body)), body...)
}

func rlpLengthPrefix(base byte, n int) []byte {
	if n < 56 {
		return []byte{base + byte(n)}
	}
	var lenBytes []byte
	for n > 0 {
		lenBytes = append([]byte{byte(n)}, lenBytes...)
		n >>= 8
	}
	return append([]byte{base + 55 + byte(len(lenBytes))}, lenBytes...)
}
