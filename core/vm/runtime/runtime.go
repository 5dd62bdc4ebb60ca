package runtime

import (
	"math"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
)

// Config tunes one Execute call: the block/tx context Execute builds the
// vm.EVM from, plus the Substate it runs against. A nil State gets a
// freshly constructed in-memory State.
type Config struct {
	ChainConfig *params.ChainConfig
	Difficulty  *big.Int
	Origin      common.Address
	Coinbase    common.Address
	BlockNumber *big.Int
	Time        uint64
	GasLimit    uint64
	GasPrice    *big.Int
	Value       *uint256.Int
	BaseFee     *big.Int
	Random      *common.Hash

	State   *State
	EVMConfig vm.Config

	GetHashFn func(n uint64) common.Hash

	// Address pins Execute's target account. Left zero, Execute invents a
	// synthetic "contract" address and deploys code there itself; set it
	// to run against an account a caller already seeded into State (e.g.
	// cmd/evm loading a pre-state).
	Address common.Address
}

func setDefaults(cfg *Config) {
	if cfg.ChainConfig == nil {
		cfg.ChainConfig = params.MainnetChainConfig
	}
	if cfg.Difficulty == nil {
		cfg.Difficulty = new(big.Int)
	}
	if cfg.GasPrice == nil {
		cfg.GasPrice = new(big.Int)
	}
	if cfg.Value == nil {
		cfg.Value = new(uint256.Int)
	}
	if cfg.BlockNumber == nil {
		cfg.BlockNumber = new(big.Int)
	}
	if cfg.BaseFee == nil {
		cfg.BaseFee = new(big.Int)
	}
	if cfg.GasLimit == 0 {
		cfg.GasLimit = math.MaxUint64 // unmetered by default, matching go-ethereum's runtime package
	}
	if cfg.GetHashFn == nil {
		cfg.GetHashFn = func(n uint64) common.Hash { return common.Hash{} }
	}
	if cfg.State == nil {
		cfg.State = NewState()
	}
}

func canTransfer(db vm.StateDB, addr common.Address, amount *uint256.Int) bool {
	return db.GetBalance(addr).Cmp(amount) >= 0
}

func transfer(db vm.StateDB, sender, recipient common.Address, amount *uint256.Int) {
	db.SubBalance(sender, amount)
	db.AddBalance(recipient, amount)
}

func newEVM(cfg *Config) *vm.EVM {
	blockCtx := vm.BlockContext{
		CanTransfer: canTransfer,
		Transfer:    transfer,
		GetHash:     cfg.GetHashFn,
		Coinbase:    cfg.Coinbase,
		BlockNumber: cfg.BlockNumber,
		Time:        cfg.Time,
		Difficulty:  cfg.Difficulty,
		GasLimit:    cfg.GasLimit,
		BaseFee:     cfg.BaseFee,
		Random:      cfg.Random,
	}
	txCtx := vm.TxContext{
		Origin:   cfg.Origin,
		GasPrice: cfg.GasPrice,
	}
	evmCfg := cfg.EVMConfig
	if evmCfg.AnalysisCache == nil {
		evmCfg.AnalysisCache = vm.NewAnalysisCache(0)
	}
	evm := vm.NewEVM(blockCtx, cfg.State, cfg.ChainConfig, evmCfg)
	evm.SetTxContext(txCtx)
	return evm
}

// Execute runs code as a top-level CALL against input, returning
// (return data, gas left over, error). The caller is a fresh, funded
// AccountRef; no transaction envelope (signature, nonce, intrinsic gas)
// is modeled here.
func Execute(code, input []byte, cfg *Config) (ret []byte, leftOverGas uint64, err error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)

	address := cfg.Address
	if address == (common.Address{}) {
		address = common.BytesToAddress([]byte("contract"))
	}
	if !cfg.State.Exist(address) {
		cfg.State.CreateAccount(address)
	}
	if len(code) > 0 {
		cfg.State.SetCode(address, code)
	}
	if !cfg.State.Exist(cfg.Origin) {
		cfg.State.CreateAccount(cfg.Origin)
		cfg.State.AddBalance(cfg.Origin, new(uint256.Int).SetUint64(math.MaxUint64))
	}

	evm := newEVM(cfg)
	sender := vm.AccountRef(cfg.Origin)

	ret, leftOverGas, err = evm.Call(sender, address, input, cfg.GasLimit, cfg.Value)
	return ret, leftOverGas, err
}

// Create runs code as init code via CREATE, returning the deployed
// address alongside the usual CALL tuple.
func Create(code []byte, cfg *Config) (ret []byte, address common.Address, leftOverGas uint64, err error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)

	cfg.State.CreateAccount(cfg.Origin)
	cfg.State.AddBalance(cfg.Origin, new(uint256.Int).SetUint64(math.MaxUint64))

	evm := newEVM(cfg)
	sender := vm.AccountRef(cfg.Origin)

	return evm.Create(sender, code, cfg.GasLimit, cfg.Value)
}

// RefundCap returns the post-execution refund cap for rules: gasUsed/2
// pre-London, gasUsed/5 from London on (EIP-3529).
func RefundCap(rules params.Rules, gasUsed uint64) uint64 {
	if rules.IsLondon {
		return gasUsed / 5
	}
	return gasUsed / 2
}
