package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

type (
	executionFunc func(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error)
	gasFuncConst  func(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) uint64
	memorySizeFunc func(*Stack) (size uint64, overflow bool)
)

// operation is one slot of the direct-threaded dispatch table: a plain
// slice indexed by opcode byte, never per-opcode
// virtual dispatch.
type operation struct {
	execute     executionFunc
	constantGas uint64
	dynamicGas  gasFunc

	// minStack/maxStack encode the stack-height precondition: minStack
	// pops must be available, and the height before execution must not
	// exceed maxStack (StackLimit + pops - pushes), so the height after
	// execution stays within StackLimit.
	minStack int
	maxStack int

	memorySize memorySizeFunc // nil if the opcode never touches memory
}

// JumpTable is the active Schedule's opcode table, one operation per byte
// value 0x00..0xff. Invalid opcodes have a nil entry.
type JumpTable [256]*operation

func newOp(execute executionFunc, constGas uint64, minStack, maxStack int) *operation {
	return &operation{execute: execute, constantGas: constGas, minStack: minStack, maxStack: maxStack}
}

func stackLimit(base int) int { return int(params.StackLimit) - base }

// newFrontierInstructionSet returns the base opcode table as of the
// original Ethereum launch. Later forks derive from a copy of this table.
func newFrontierInstructionSet() JumpTable {
	var jt JumpTable
	jt[STOP] = newOp(opStop, 0, 0, stackLimit(0))
	jt[ADD] = newOp(opAdd, GasFastestStep, 2, stackLimit(-1))
	jt[MUL] = newOp(opMul, GasFastStep, 2, stackLimit(-1))
	jt[SUB] = newOp(opSub, GasFastestStep, 2, stackLimit(-1))
	jt[DIV] = newOp(opDiv, GasFastStep, 2, stackLimit(-1))
	jt[SDIV] = newOp(opSdiv, GasFastStep, 2, stackLimit(-1))
	jt[MOD] = newOp(opMod, GasFastStep, 2, stackLimit(-1))
	jt[SMOD] = newOp(opSmod, GasFastStep, 2, stackLimit(-1))
	jt[ADDMOD] = newOp(opAddmod, GasMidStep, 3, stackLimit(-2))
	jt[MULMOD] = newOp(opMulmod, GasMidStep, 3, stackLimit(-2))
	jt[EXP] = &operation{execute: opExp, constantGas: GasSlowStep, dynamicGas: gasExpFrontier, minStack: 2, maxStack: stackLimit(-1)}
	jt[SIGNEXTEND] = newOp(opSignExtend, GasFastStep, 2, stackLimit(-1))
	jt[LT] = newOp(opLt, GasFastestStep, 2, stackLimit(-1))
	jt[GT] = newOp(opGt, GasFastestStep, 2, stackLimit(-1))
	jt[SLT] = newOp(opSlt, GasFastestStep, 2, stackLimit(-1))
	jt[SGT] = newOp(opSgt, GasFastestStep, 2, stackLimit(-1))
	jt[EQ] = newOp(opEq, GasFastestStep, 2, stackLimit(-1))
	jt[ISZERO] = newOp(opIszero, GasFastestStep, 1, stackLimit(0))
	jt[AND] = newOp(opAnd, GasFastestStep, 2, stackLimit(-1))
	jt[OR] = newOp(opOr, GasFastestStep, 2, stackLimit(-1))
	jt[XOR] = newOp(opXor, GasFastestStep, 2, stackLimit(-1))
	jt[NOT] = newOp(opNot, GasFastestStep, 1, stackLimit(0))
	jt[BYTE] = newOp(opByte, GasFastestStep, 2, stackLimit(-1))
	jt[KECCAK256] = &operation{execute: opKeccak256, constantGas: params.Keccak256Gas, dynamicGas: gasKeccak256, minStack: 2, maxStack: stackLimit(-1), memorySize: memorySha3}
	jt[ADDRESS] = newOp(opAddress, GasQuickStep, 0, stackLimit(1))
	jt[BALANCE] = &operation{execute: opBalance, constantGas: params.BalanceGasFrontier, minStack: 1, maxStack: stackLimit(0)}
	jt[ORIGIN] = newOp(opOrigin, GasQuickStep, 0, stackLimit(1))
	jt[CALLER] = newOp(opCaller, GasQuickStep, 0, stackLimit(1))
	jt[CALLVALUE] = newOp(opCallValue, GasQuickStep, 0, stackLimit(1))
	jt[CALLDATALOAD] = newOp(opCallDataLoad, GasFastestStep, 1, stackLimit(0))
	jt[CALLDATASIZE] = newOp(opCallDataSize, GasQuickStep, 0, stackLimit(1))
	jt[CALLDATACOPY] = &operation{execute: opCallDataCopy, constantGas: GasFastestStep, dynamicGas: gasCallDataCopy, minStack: 3, maxStack: stackLimit(-3), memorySize: memoryCallDataCopy}
	jt[CODESIZE] = newOp(opCodeSize, GasQuickStep, 0, stackLimit(1))
	jt[CODECOPY] = &operation{execute: opCodeCopy, constantGas: GasFastestStep, dynamicGas: gasCodeCopy, minStack: 3, maxStack: stackLimit(-3), memorySize: memoryCodeCopy}
	jt[GASPRICE] = newOp(opGasprice, GasQuickStep, 0, stackLimit(1))
	jt[EXTCODESIZE] = &operation{execute: opExtCodeSize, constantGas: params.ExtcodeSizeGasFrontier, minStack: 1, maxStack: stackLimit(0)}
	jt[EXTCODECOPY] = &operation{execute: opExtCodeCopy, constantGas: params.ExtcodeCopyBaseFrontier, dynamicGas: gasExtCodeCopy, minStack: 4, maxStack: stackLimit(-4), memorySize: memoryExtCodeCopy}
	jt[BLOCKHASH] = newOp(opBlockhash, GasExtStep, 1, stackLimit(0))
	jt[COINBASE] = newOp(opCoinbase, GasQuickStep, 0, stackLimit(1))
	jt[TIMESTAMP] = newOp(opTimestamp, GasQuickStep, 0, stackLimit(1))
	jt[NUMBER] = newOp(opNumber, GasQuickStep, 0, stackLimit(1))
	jt[DIFFICULTY] = newOp(opDifficulty, GasQuickStep, 0, stackLimit(1))
	jt[GASLIMIT] = newOp(opGasLimit, GasQuickStep, 0, stackLimit(1))
	jt[POP] = newOp(opPop, GasQuickStep, 1, stackLimit(-1))
	jt[MLOAD] = &operation{execute: opMload, constantGas: GasFastestStep, dynamicGas: gasMLoad, minStack: 1, maxStack: stackLimit(0), memorySize: memoryMLoad}
	jt[MSTORE] = &operation{execute: opMstore, constantGas: GasFastestStep, dynamicGas: gasMStore, minStack: 2, maxStack: stackLimit(-2), memorySize: memoryMStore}
	jt[MSTORE8] = &operation{execute: opMstore8, constantGas: GasFastestStep, dynamicGas: gasMStore8, minStack: 2, maxStack: stackLimit(-2), memorySize: memoryMStore8}
	jt[SLOAD] = &operation{execute: opSload, constantGas: params.SloadGasFrontier, minStack: 1, maxStack: stackLimit(0)}
	jt[SSTORE] = &operation{execute: opSstore, dynamicGas: gasSStore, minStack: 2, maxStack: stackLimit(-2)}
	jt[JUMP] = newOp(opJump, GasMidStep, 1, stackLimit(-1))
	jt[JUMPI] = newOp(opJumpi, GasSlowStep, 2, stackLimit(-2))
	jt[PC] = newOp(opPc, GasQuickStep, 0, stackLimit(1))
	jt[MSIZE] = newOp(opMsize, GasQuickStep, 0, stackLimit(1))
	jt[GAS] = newOp(opGas, GasQuickStep, 0, stackLimit(1))
	jt[JUMPDEST] = newOp(opJumpdest, params.JumpdestGas, 0, stackLimit(0))
	jt[RETURN] = &operation{execute: opReturn, dynamicGas: gasReturn, minStack: 2, maxStack: stackLimit(-2), memorySize: memoryReturn}
	jt[CREATE] = &operation{execute: opCreate, constantGas: params.CreateGas, dynamicGas: gasCreate, minStack: 3, maxStack: stackLimit(-2), memorySize: memoryCreate}
	jt[CALL] = &operation{execute: opCall, constantGas: params.CallGasFrontier, dynamicGas: gasCall, minStack: 7, maxStack: stackLimit(-6), memorySize: memoryCall}
	jt[CALLCODE] = &operation{execute: opCallCode, constantGas: params.CallGasFrontier, dynamicGas: gasCallCode, minStack: 7, maxStack: stackLimit(-6), memorySize: memoryCall}
	jt[SELFDESTRUCT] = &operation{execute: opSelfdestruct, dynamicGas: gasSelfdestruct, minStack: 1, maxStack: stackLimit(-1)}
	jt[INVALID] = nil

	for i := byte(PUSH1); i <= byte(PUSH32); i++ {
		n := int(i - byte(PUSH1) + 1)
		jt[i] = &operation{execute: makePush(uint64(n), n), constantGas: GasFastestStep, minStack: 0, maxStack: stackLimit(1)}
	}
	for i := byte(DUP1); i <= byte(DUP16); i++ {
		n := int(i-byte(DUP1)) + 1
		jt[i] = &operation{execute: makeDup(n), constantGas: GasFastestStep, minStack: n, maxStack: stackLimit(1)}
	}
	for i := byte(SWAP1); i <= byte(SWAP16); i++ {
		n := int(i-byte(SWAP1)) + 1
		jt[i] = &operation{execute: makeSwap(n), constantGas: GasFastestStep, minStack: n + 1, maxStack: stackLimit(0)}
	}
	for i, n := LOG0, 0; i <= LOG4; i, n = i+1, n+1 {
		jt[i] = &operation{execute: makeLog(n), constantGas: params.LogGas, dynamicGas: makeGasLog(uint64(n)), minStack: 2 + n, maxStack: stackLimit(-(2 + n)), memorySize: memoryLog}
	}
	return jt
}

func newHomesteadInstructionSet() JumpTable {
	jt := newFrontierInstructionSet()
	jt[DELEGATECALL] = &operation{execute: opDelegateCall, constantGas: params.CallGasFrontier, dynamicGas: gasDelegateCall, minStack: 6, maxStack: stackLimit(-5), memorySize: memoryDelegateCall}
	return jt
}

func newTangerineWhistleInstructionSet() JumpTable {
	jt := newHomesteadInstructionSet()
	jt[BALANCE].constantGas = params.BalanceGasEIP150
	jt[EXTCODESIZE].constantGas = params.ExtcodeSizeGasEIP150
	jt[EXTCODECOPY].constantGas = params.ExtcodeCopyBaseEIP150
	jt[SLOAD].constantGas = params.SloadGasEIP150
	jt[CALL].constantGas = params.CallGasEIP150
	jt[CALLCODE].constantGas = params.CallGasEIP150
	jt[DELEGATECALL].constantGas = params.CallGasEIP150
	return jt
}

func newSpuriousDragonInstructionSet() JumpTable {
	jt := newTangerineWhistleInstructionSet()
	jt[EXP].dynamicGas = gasExpEIP158
	return jt
}

func newByzantiumInstructionSet() JumpTable {
	jt := newSpuriousDragonInstructionSet()
	jt[STATICCALL] = &operation{execute: opStaticCall, constantGas: params.CallGasEIP150, dynamicGas: gasStaticCall, minStack: 6, maxStack: stackLimit(-5), memorySize: memoryStaticCall}
	jt[RETURNDATASIZE] = newOp(opReturnDataSize, GasQuickStep, 0, stackLimit(1))
	jt[RETURNDATACOPY] = &operation{execute: opReturnDataCopy, constantGas: GasFastestStep, dynamicGas: gasReturnDataCopy, minStack: 3, maxStack: stackLimit(-3), memorySize: memoryReturnDataCopy}
	jt[REVERT] = &operation{execute: opRevert, dynamicGas: gasRevert, minStack: 2, maxStack: stackLimit(-2), memorySize: memoryRevert}
	return jt
}

func newConstantinopleInstructionSet() JumpTable {
	jt := newByzantiumInstructionSet()
	jt[SHL] = newOp(opSHL, GasFastestStep, 2, stackLimit(-1))
	jt[SHR] = newOp(opSHR, GasFastestStep, 2, stackLimit(-1))
	jt[SAR] = newOp(opSAR, GasFastestStep, 2, stackLimit(-1))
	jt[EXTCODEHASH] = &operation{execute: opExtCodeHash, constantGas: params.ExtcodeHashGasConstantinople, minStack: 1, maxStack: stackLimit(0)}
	jt[CREATE2] = &operation{execute: opCreate2, constantGas: params.Create2Gas, dynamicGas: gasCreate2, minStack: 4, maxStack: stackLimit(-3), memorySize: memoryCreate2}
	return jt
}

func newIstanbulInstructionSet() JumpTable {
	jt := newConstantinopleInstructionSet()
	jt[BALANCE].constantGas = params.BalanceGasEIP1884
	jt[EXTCODEHASH].constantGas = params.ExtcodeHashGasEIP1884
	jt[SLOAD].constantGas = params.SloadGasEIP1884
	jt[SSTORE].dynamicGas = gasSStoreEIP2200
	jt[CHAINID] = newOp(opChainID, GasQuickStep, 0, stackLimit(1))
	jt[SELFBALANCE] = newOp(opSelfBalance, GasFastStep, 0, stackLimit(1))
	return jt
}

func newBerlinInstructionSet() JumpTable {
	jt := newIstanbulInstructionSet()
	jt[SLOAD] = &operation{execute: opSload, dynamicGas: gasSLoad, minStack: 1, maxStack: stackLimit(0)}
	jt[EXTCODECOPY].constantGas, jt[EXTCODECOPY].dynamicGas = 0, warmColdWrap(gasExtCodeCopy)
	jt[EXTCODESIZE].constantGas, jt[EXTCODESIZE].dynamicGas = 0, accessListGasOnly(params.ExtcodeSizeGasEIP150)
	jt[EXTCODEHASH].constantGas, jt[EXTCODEHASH].dynamicGas = 0, accessListGasOnly(params.ExtcodeHashGasEIP1884)
	jt[BALANCE].constantGas, jt[BALANCE].dynamicGas = 0, accessListGasOnly(params.BalanceGasEIP1884)
	jt[CALL].dynamicGas = gasCall
	jt[CALLCODE].dynamicGas = gasCallCode
	jt[DELEGATECALL].dynamicGas = gasDelegateCall
	jt[STATICCALL].dynamicGas = gasStaticCall
	jt[SSTORE].dynamicGas = gasSStoreEIP2929
	jt[SELFDESTRUCT].dynamicGas = gasSelfdestruct
	return jt
}

func newLondonInstructionSet() JumpTable {
	jt := newBerlinInstructionSet()
	jt[BASEFEE] = newOp(opBaseFee, GasQuickStep, 0, stackLimit(1))
	jt[SELFDESTRUCT].dynamicGas = gasSelfdestruct
	return jt
}

func newShanghaiInstructionSet() JumpTable {
	jt := newLondonInstructionSet()
	jt[PUSH0] = newOp(opPush0, GasQuickStep, 0, stackLimit(1))
	jt[CREATE].dynamicGas = gasCreateEip3860
	jt[CREATE2].dynamicGas = gasCreate2Eip3860
	return jt
}

func newCancunInstructionSet() JumpTable {
	jt := newShanghaiInstructionSet()
	jt[TLOAD] = newOp(opTload, params.WarmStorageReadCostEIP2929, 1, stackLimit(0))
	jt[TSTORE] = newOp(opTstore, params.WarmStorageReadCostEIP2929, 2, stackLimit(-2))
	jt[MCOPY] = &operation{execute: opMcopy, constantGas: GasFastestStep, dynamicGas: gasMcopy, minStack: 3, maxStack: stackLimit(-3), memorySize: memoryMcopy}
	return jt
}

// accessListGasOnly wraps a flat per-fork constant as an EIP-2929 access
// list cost: warm reads pay WarmStorageReadCostEIP2929, cold reads pay the
// full legacy constant.
func accessListGasOnly(legacyConst uint64) gasFunc {
	return func(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
		addr := addressFromStackTop(stack)
		if evm.StateDB.AddressInAccessList(addr) {
			return params.WarmStorageReadCostEIP2929, nil
		}
		evm.StateDB.AddAddressToAccessList(addr)
		return legacyConst, nil
	}
}

// warmColdWrap layers the EIP-2929 cold-access surcharge on top of an
// existing gasFunc (used for EXTCODECOPY, whose dynamic cost already
// includes the memory-copier charge).
func warmColdWrap(inner gasFunc) gasFunc {
	return func(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
		addr := addressFromStackTop(stack)
		var surcharge uint64
		if evm.StateDB.AddressInAccessList(addr) {
			surcharge = params.WarmStorageReadCostEIP2929
		} else {
			evm.StateDB.AddAddressToAccessList(addr)
			surcharge = params.ColdAccountAccessCostEIP2929
		}
		gas, err := inner(evm, contract, stack, mem, memorySize)
		if err != nil {
			return 0, err
		}
		return gas + surcharge, nil
	}
}

func addressFromStackTop(stack *Stack) common.Address {
	return common.Address(stack.Back(0).Bytes20())
}
