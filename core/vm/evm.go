package vm

import (
	"math/big"
	"sync/atomic"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
)

type (
	// CanTransferFunc reports whether addr holds at least amount.
	CanTransferFunc func(StateDB, common.Address, *uint256.Int) bool
	// TransferFunc moves amount from sender to recipient.
	TransferFunc func(StateDB, common.Address, common.Address, *uint256.Int)
	// GetHashFunc returns the n'th block's hash, used by BLOCKHASH.
	GetHashFunc func(uint64) common.Hash
)

// BlockContext carries the block-scoped values the Schedule's opcodes
// read (COINBASE, NUMBER, TIMESTAMP, DIFFICULTY/PREVRANDAO, GASLIMIT,
// BASEFEE, BLOCKHASH) plus the transfer primitives the host must supply.
// It does not change across the block's transactions.
type BlockContext struct {
	CanTransfer CanTransferFunc
	Transfer    TransferFunc
	GetHash     GetHashFunc

	Coinbase    common.Address
	GasLimit    uint64
	BlockNumber *big.Int
	Time        uint64
	Difficulty  *big.Int
	BaseFee     *big.Int
	Random      *common.Hash // non-nil post-Merge; PREVRANDAO replaces DIFFICULTY when set
}

// TxContext carries the transaction-scoped values (ORIGIN, GASPRICE) and
// may be swapped between transactions within one block via SetTxContext.
type TxContext struct {
	Origin   common.Address
	GasPrice *big.Int
}

// EVM is the execution environment: one instance binds a
// Host (StateDB), a Schedule (chainRules, derived once from chainConfig
// and the block context) and the call-depth/interpreter-table state
// shared across every frame of one transaction. An EVM is not safe for
// concurrent use and is never reused across transactions beyond what
// SetTxContext permits.
type EVM struct {
	Context BlockContext
	TxContext

	StateDB StateDB
	depth   int

	chainConfig *params.ChainConfig
	chainRules  params.Rules
	Config      Config

	interpreter      *EVMInterpreter
	interpreterTable *JumpTable

	// abort lets an enclosing driver halt a runaway execution; the
	// interpreter treats an observed abort as a fatal out-of-gas.
	abort atomic.Bool

	// callGasTemp carries the gas a CALL-family gas function computed
	// under the all-but-one-64th rule through to the opcode handler,
	// since the forwarded amount cannot be read back off the stack.
	callGasTemp uint64

	precompiles   PrecompiledContracts
	analysisCache *AnalysisCache
}

// NewEVM constructs an EVM for one transaction's execution. The chainRules
// Schedule is resolved once, up front, from chainConfig and the block
// context — every sub-call within this EVM's lifetime consults the same
// Rules value.
func NewEVM(blockCtx BlockContext, statedb StateDB, chainConfig *params.ChainConfig, config Config) *EVM {
	evm := &EVM{
		Context:       blockCtx,
		StateDB:       statedb,
		Config:        config,
		chainConfig:   chainConfig,
		chainRules:    chainConfig.Rules(blockCtx.BlockNumber, blockCtx.Time),
		analysisCache: config.AnalysisCache,
	}
	evm.interpreter = NewEVMInterpreter(evm)
	return evm
}

// SetPrecompiles installs the precompiled contract set active for this
// EVM. Not safe to call concurrently with a running Call/Create.
func (evm *EVM) SetPrecompiles(precompiles PrecompiledContracts) {
	evm.precompiles = precompiles
}

// SetTxContext resets the EVM with a new transaction context, letting one
// EVM instance be reused for every transaction in a block.
func (evm *EVM) SetTxContext(txCtx TxContext) {
	evm.TxContext = txCtx
}

// Cancel aborts any in-flight execution. Safe to call concurrently and
// more than once.
func (evm *EVM) Cancel() {
	evm.abort.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (evm *EVM) Cancelled() bool {
	return evm.abort.Load()
}

// Interpreter returns the EVM's interpreter.
func (evm *EVM) Interpreter() *EVMInterpreter {
	return evm.interpreter
}

// ChainConfig returns the Schedule's source ChainConfig.
func (evm *EVM) ChainConfig() *params.ChainConfig {
	return evm.chainConfig
}

func (evm *EVM) precompile(addr common.Address) (PrecompiledContract, bool) {
	p, ok := evm.precompiles[addr]
	return p, ok
}

// Call executes the code at addr with input as calldata, transferring
// value from caller to addr first. Any error
// returned reverts all state the sub-call touched and consumes its gas,
// except ErrExecutionReverted which preserves the remaining gas. ErrDepth
// and ErrInsufficientBalance are returned before anything runs and leave
// the gas untouched.
func (evm *EVM) Call(caller ContractRef, addr common.Address, input []byte, gas uint64, value *uint256.Int) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}
	if !value.IsZero() && !evm.Context.CanTransfer(evm.StateDB, caller.Address(), value) {
		return nil, gas, ErrInsufficientBalance
	}
	snapshot := evm.StateDB.Snapshot()
	p, isPrecompile := evm.precompile(addr)

	if !evm.StateDB.Exist(addr) {
		if !isPrecompile && evm.chainRules.IsEIP158 && value.IsZero() {
			// Calling a non-existing account with no value is a no-op.
			return nil, gas, nil
		}
		evm.StateDB.CreateAccount(addr)
	}
	evm.Context.Transfer(evm.StateDB, caller.Address(), addr, value)

	if isPrecompile {
		ret, gas, err = RunPrecompiledContract(p, input, gas)
	} else {
		code := evm.StateDB.GetCode(addr)
		if len(code) == 0 {
			ret, err = nil, nil
		} else {
			contract := GetContract(caller, AccountRef(addr), value, gas, evm.analysisCache)
			defer ReturnContract(contract)
			contract.SetCallCode(evm.StateDB.GetCodeHash(addr), code)
			ret, err = evm.interpreter.Run(contract, input, false)
			gas = contract.Gas
		}
	}
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			gas = 0
		}
	}
	return ret, gas, err
}

// CallCode executes addr's code with the caller's own address as context
// (storage, balance), unlike Call which executes in addr's context.
func (evm *EVM) CallCode(caller ContractRef, addr common.Address, input []byte, gas uint64, value *uint256.Int) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}
	if !evm.Context.CanTransfer(evm.StateDB, caller.Address(), value) {
		return nil, gas, ErrInsufficientBalance
	}
	snapshot := evm.StateDB.Snapshot()

	if p, isPrecompile := evm.precompile(addr); isPrecompile {
		ret, gas, err = RunPrecompiledContract(p, input, gas)
	} else {
		contract := GetContract(caller, AccountRef(caller.Address()), value, gas, evm.analysisCache)
		defer ReturnContract(contract)
		contract.SetCallCode(evm.StateDB.GetCodeHash(addr), evm.StateDB.GetCode(addr))
		ret, err = evm.interpreter.Run(contract, input, false)
		gas = contract.Gas
	}
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			gas = 0
		}
	}
	return ret, gas, err
}

// DelegateCall executes addr's code with both the storage context and the
// caller/value of the CURRENT frame (i.e. the grandparent's caller),
// unlike CallCode which adopts only the current frame's address.
func (evm *EVM) DelegateCall(caller ContractRef, addr common.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}
	snapshot := evm.StateDB.Snapshot()

	if p, isPrecompile := evm.precompile(addr); isPrecompile {
		ret, gas, err = RunPrecompiledContract(p, input, gas)
	} else {
		contract := GetContract(caller, AccountRef(caller.Address()), nil, gas, evm.analysisCache).AsDelegate()
		defer ReturnContract(contract)
		contract.SetCallCode(evm.StateDB.GetCodeHash(addr), evm.StateDB.GetCode(addr))
		ret, err = evm.interpreter.Run(contract, input, false)
		gas = contract.Gas
	}
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			gas = 0
		}
	}
	return ret, gas, err
}

// StaticCall executes addr's code under the read-only restriction: any
// opcode that would mutate state fails the frame instead of taking
// effect.
func (evm *EVM) StaticCall(caller ContractRef, addr common.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}
	snapshot := evm.StateDB.Snapshot()
	// A static call still touches the account, matching mainnet behavior
	// around empty-account deletion (relevant to certain post-Byzantium
	// revert tests).
	evm.StateDB.AddBalance(addr, new(uint256.Int))

	if p, isPrecompile := evm.precompile(addr); isPrecompile {
		ret, gas, err = RunPrecompiledContract(p, input, gas)
	} else {
		contract := GetContract(caller, AccountRef(addr), new(uint256.Int), gas, evm.analysisCache)
		defer ReturnContract(contract)
		contract.SetCallCode(evm.StateDB.GetCodeHash(addr), evm.StateDB.GetCode(addr))
		ret, err = evm.interpreter.Run(contract, input, true)
		gas = contract.Gas
	}
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			gas = 0
		}
	}
	return ret, gas, err
}

// create runs codeAndHash as deployment code at address, sharing the
// checks CREATE and CREATE2 both require: depth limit,
// balance check, nonce bump, collision check, EIP-3541/EIP-170 checks on
// the deployed code, and gas accounting for code storage.
func (evm *EVM) create(caller ContractRef, code []byte, gas uint64, value *uint256.Int, address common.Address, typ OpCode) (ret []byte, createAddress common.Address, leftOverGas uint64, err error) {
	if evm.depth > int(params.CallCreateDepth) {
		return nil, common.Address{}, gas, ErrDepth
	}
	if !evm.Context.CanTransfer(evm.StateDB, caller.Address(), value) {
		return nil, common.Address{}, gas, ErrInsufficientBalance
	}
	nonce := evm.StateDB.GetNonce(caller.Address())
	if nonce+1 < nonce {
		return nil, common.Address{}, gas, ErrNonceUintOverflow
	}
	evm.StateDB.SetNonce(caller.Address(), nonce+1)

	if evm.chainRules.EIP2929 {
		evm.StateDB.AddAddressToAccessList(address)
	}
	// An address is occupied if it has a nonzero nonce or non-empty code;
	// either means a collision. Storage is not checked.
	contractHash := evm.StateDB.GetCodeHash(address)
	if evm.StateDB.GetNonce(address) != 0 || (contractHash != (common.Hash{}) && contractHash != crypto.EmptyCodeHash) {
		return nil, common.Address{}, 0, ErrContractAddressCollision
	}

	snapshot := evm.StateDB.Snapshot()
	if !evm.StateDB.Exist(address) {
		evm.StateDB.CreateAccount(address)
	}
	if evm.chainRules.IsEIP158 {
		evm.StateDB.SetNonce(address, 1)
	}
	evm.Context.Transfer(evm.StateDB, caller.Address(), address, value)

	contract := GetContract(caller, AccountRef(address), value, gas, evm.analysisCache)
	defer ReturnContract(contract)
	contract.SetCallCode(crypto.Keccak256Hash(code), code)
	contract.IsDeployment = true

	ret, err = evm.initNewContract(contract, address)
	if err != nil && (evm.chainRules.IsHomestead || err != ErrCodeStoreOutOfGas) {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.Gas = 0
		}
	}
	return ret, address, contract.Gas, err
}

// initNewContract runs a new contract's deployment code and validates and
// stores the code it returns.
func (evm *EVM) initNewContract(contract *Contract, address common.Address) ([]byte, error) {
	ret, err := evm.interpreter.Run(contract, nil, false)
	if err != nil {
		return ret, err
	}
	if evm.chainRules.IsEIP158 && uint64(len(ret)) > params.MaxCodeSize {
		return ret, ErrMaxCodeSizeExceeded
	}
	if evm.chainRules.EIP3541 && len(ret) >= 1 && ret[0] == 0xEF {
		return ret, ErrInvalidCodeEntry
	}
	createDataGas := uint64(len(ret)) * params.CreateDataGas
	if !contract.UseGas(createDataGas) {
		return ret, ErrCodeStoreOutOfGas
	}
	evm.StateDB.SetCode(address, ret)
	return ret, nil
}

// Create deploys code, deriving its address from the sender's address and
// nonce (the Yellow Paper CREATE formula).
func (evm *EVM) Create(caller ContractRef, code []byte, gas uint64, value *uint256.Int) (ret []byte, contractAddr common.Address, leftOverGas uint64, err error) {
	contractAddr = crypto.CreateAddress(caller.Address(), evm.StateDB.GetNonce(caller.Address()))
	return evm.create(caller, code, gas, value, contractAddr, CREATE)
}

// Create2 deploys code, deriving its address from the sender's address, a
// caller-chosen salt, and the init code's hash (EIP-1014), so the
// deployed address is knowable before the code runs.
func (evm *EVM) Create2(caller ContractRef, code []byte, gas uint64, endowment *uint256.Int, salt *uint256.Int) (ret []byte, contractAddr common.Address, leftOverGas uint64, err error) {
	inithash := crypto.Keccak256Hash(code)
	contractAddr = crypto.CreateAddress2(caller.Address(), salt.Bytes32(), inithash.Bytes())
	return evm.create(caller, code, gas, endowment, contractAddr, CREATE2)
}
