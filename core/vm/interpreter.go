package vm

import (
	"context"
	"hash"
	"sync"

	"golang.org/x/exp/slog"
)

// Config tunes the interpreter's behaviour; mirrors go-ethereum's
// vm.Config but strips everything the Non-goals exclude (tracing hooks,
// EOF, verkle witnesses).
type Config struct {
	// ExtraEips lists EIPs to enable on top of the active Rules, matching
	// go-ethereum's ExtraEips knob for opting individual EIPs in outside a
	// full hardfork jump.
	ExtraEips []int

	// AnalysisCache is the Host-owned bounded JUMPDEST cache. Nil falls
	// back to a package-level default cache.
	AnalysisCache *AnalysisCache
}

// ScopeContext carries the per-call-frame state an opcode handler touches:
// its Memory, Stack and the Contract (code/gas/caller) it's executing
// against. One ScopeContext exists per active frame.
type ScopeContext struct {
	Memory   *Memory
	Stack    *Stack
	Contract *Contract
}

// keccakState is reused across KECCAK256 invocations within one
// interpreter instance to avoid re-allocating a hasher per opcode.
type keccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

// EVMInterpreter is the direct-threaded dispatch loop: it fetches an
// opcode, validates stack/gas/static-context preconditions,
// executes the handler, and advances PC — without ever materializing an
// AST or using per-opcode virtual dispatch.
type EVMInterpreter struct {
	evm *EVM
	cfg Config

	hasher    keccakState // Keccak256 hasher shared across opcode invocations
	hasherBuf [32]byte

	readOnly   bool   // whether to throw on state-modifying opcodes
	returnData []byte // last CALL/CALLCODE/DELEGATECALL/STATICCALL return data
}

// NewEVMInterpreter returns a new interpreter, selecting the active
// Schedule's jump table from evm.chainRules: selected by block number
// via a monotonic mapping.
func NewEVMInterpreter(evm *EVM) *EVMInterpreter {
	var table JumpTable
	switch {
	case evm.chainRules.IsCancun:
		table = newCancunInstructionSet()
	case evm.chainRules.IsShanghai:
		table = newShanghaiInstructionSet()
	case evm.chainRules.IsLondon:
		table = newLondonInstructionSet()
	case evm.chainRules.IsBerlin:
		table = newBerlinInstructionSet()
	case evm.chainRules.IsIstanbul:
		table = newIstanbulInstructionSet()
	case evm.chainRules.IsConstantinople:
		table = newConstantinopleInstructionSet()
	case evm.chainRules.IsByzantium:
		table = newByzantiumInstructionSet()
	case evm.chainRules.IsEIP158:
		table = newSpuriousDragonInstructionSet()
	case evm.chainRules.IsEIP150:
		table = newTangerineWhistleInstructionSet()
	case evm.chainRules.IsHomestead:
		table = newHomesteadInstructionSet()
	default:
		table = newFrontierInstructionSet()
	}
	for _, eip := range evm.Config.ExtraEips {
		if err := enableEIP(eip, &table); err != nil {
			// Unknown EIPs are a caller configuration mistake, not a
			// runtime condition the interpreter should eat silently.
			panic(err)
		}
	}
	evm.interpreterTable = &table
	return &EVMInterpreter{evm: evm, cfg: evm.Config}
}

var scopeContextPool = sync.Pool{
	New: func() any { return new(ScopeContext) },
}

// Run loops over contract.Code starting at pc 0 until the contract
// terminates: Running -> {Stopped, Reverted, Done, Trap(sub-call)} with
// Trap serviced synchronously inline rather than as a separate yield,
// since Go's native call stack already gives us that for free —
// evm.Call/Create recurse directly into a child EVMInterpreter.Run rather
// than being driven by an outer step() loop.
func (in *EVMInterpreter) Run(contract *Contract, input []byte, readOnly bool) (ret []byte, err error) {
	in.evm.depth++
	defer func() { in.evm.depth-- }()

	// Reset the previous call's return data; it's only valid for the
	// RETURNDATASIZE/RETURNDATACOPY immediately following a sub-call.
	in.returnData = nil

	if len(contract.Code) == 0 {
		return nil, nil
	}

	if readOnly && !in.readOnly {
		in.readOnly = true
		defer func() { in.readOnly = false }()
	}

	var (
		op          OpCode
		mem         = NewMemory()
		stack       = newstack()
		callContext = scopeContextPool.Get().(*ScopeContext)
		pc          = uint64(0)
		cost        uint64
	)
	callContext.Memory = mem
	callContext.Stack = stack
	callContext.Contract = contract
	defer func() {
		returnStack(stack)
		scopeContextPool.Put(callContext)
	}()

	contract.Input = input

	for {
		if in.evm.abort.Load() {
			return nil, ErrOutOfGas
		}
		if int(pc) >= len(contract.Code) {
			break // implicit STOP at end of code
		}
		op = OpCode(contract.Code[pc])
		operation := in.evm.interpreterTable[op]
		if operation == nil {
			return nil, &ErrInvalidOpCodeWith{OpCode: op}
		}
		if sLen := stack.len(); sLen < operation.minStack {
			return nil, &ErrStackUnderflow{StackLen: sLen, Required: operation.minStack}
		} else if sLen > operation.maxStack {
			return nil, &ErrStackOverflow{StackLen: sLen, Limit: operation.maxStack}
		}
		if in.readOnly && isStateMutatingOp(op) {
			return nil, ErrWriteProtection
		}

		cost = operation.constantGas
		if !contract.UseGas(cost) {
			return nil, ErrOutOfGas
		}

		var memorySize uint64
		if operation.memorySize != nil {
			memSize, overflow := operation.memorySize(stack)
			if overflow {
				return nil, ErrGasUintOverflow
			}
			if memorySize, overflow = safeMul(toWordSize(memSize), 32); overflow {
				return nil, ErrGasUintOverflow
			}
		}
		if operation.dynamicGas != nil {
			var dynamicCost uint64
			dynamicCost, err = operation.dynamicGas(in.evm, contract, stack, mem, memorySize)
			if err != nil {
				return nil, err
			}
			if !contract.UseGas(dynamicCost) {
				return nil, ErrOutOfGas
			}
		}
		if memorySize > 0 {
			mem.Resize(memorySize)
		}

		if log.Enabled(context.Background(), slog.LevelDebug) {
			log.Debug("op", "pc", pc, "op", op.String(), "gas", contract.Gas, "cost", cost, "depth", in.evm.depth)
		}

		res, err := operation.execute(&pc, in, callContext)
		if err != nil {
			return nil, err
		}
		pc++

		if res != nil {
			return res, nil
		}
	}
	return nil, nil
}

func safeMul(x, y uint64) (uint64, bool) {
	if x == 0 || y == 0 {
		return 0, false
	}
	r := x * y
	return r, r/y != x
}

func isStateMutatingOp(op OpCode) bool {
	switch op {
	case SSTORE, LOG0, LOG1, LOG2, LOG3, LOG4, CREATE, CREATE2, SELFDESTRUCT, TSTORE:
		return true
	case CALL:
		return false // value check happens in opCall itself; CALL with value 0 is allowed in static context
	}
	return false
}
