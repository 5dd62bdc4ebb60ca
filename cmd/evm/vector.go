package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/common"
)

// vector is the JSON state-test shape this driver accepts: env, pre-state,
// transaction, post-state, expect. It is deliberately small — this driver
// is for reference only, not a consensus test-suite runner.
type vector struct {
	Env         vectorEnv                 `json:"env"`
	Pre         map[string]vectorAccount  `json:"pre"`
	Transaction vectorTransaction         `json:"transaction"`
	Post        map[string]vectorAccount  `json:"post"`
	Expect      vectorExpect              `json:"expect"`
}

type vectorEnv struct {
	Coinbase    string `json:"currentCoinbase"`
	Difficulty  string `json:"currentDifficulty"`
	GasLimit    string `json:"currentGasLimit"`
	Number      string `json:"currentNumber"`
	Timestamp   string `json:"currentTimestamp"`
	BaseFee     string `json:"currentBaseFee"`
}

type vectorAccount struct {
	Balance string            `json:"balance"`
	Code    string            `json:"code"`
	Nonce   string            `json:"nonce"`
	Storage map[string]string `json:"storage"`
}

type vectorTransaction struct {
	From     string `json:"from"`
	To       string `json:"to"` // empty means CREATE
	GasLimit string `json:"gasLimit"`
	Value    string `json:"value"`
	Data     string `json:"data"`
}

type vectorExpect struct {
	Status  string `json:"status"` // "success" | "revert" | "error"
	GasUsed string `json:"gasUsed,omitempty"`
}

func hexToBig(s string) *big.Int {
	if s == "" {
		return new(big.Int)
	}
	s = strings.TrimPrefix(s, "0x")
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return new(big.Int)
	}
	return n
}

func hexToUint256(s string) *uint256.Int {
	n, _ := uint256.FromBig(hexToBig(s))
	return n
}

func hexToUint64(s string) uint64 {
	return hexToBig(s).Uint64()
}

func hexToBytes(s string) []byte {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 != 0 {
		s = "0" + s
	}
	b, _ := hex.DecodeString(s)
	return b
}

func hexToAddress(s string) common.Address {
	return common.BytesToAddress(hexToBytes(s))
}

func hexToHash(s string) common.Hash {
	return common.BytesToHash(hexToBytes(s))
}

func loadVector(data []byte) (*vector, error) {
	var v vector
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse test vector: %w", err)
	}
	return &v, nil
}
