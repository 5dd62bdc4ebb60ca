package vm

import (
	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/params"
)

// Gas costs for operations that don't fit the constant/dynamic split below.
const (
	GasQuickStep   = params.GasQuickStep
	GasFastestStep = params.GasFastestStep
	GasFastStep    = params.GasFastStep
	GasMidStep     = params.GasMidStep
	GasSlowStep    = params.GasSlowStep
	GasExtStep     = params.GasExtStep
)

// gasFunc computes the dynamic portion of an opcode's gas cost: memory
// expansion, SSTORE/SLOAD cold-warm variants,
// LOG*, CALL*/CREATE* families, KECCAK256. It is called after the
// constant cost has already been charged and after memorySize has been
// evaluated but BEFORE Memory.Resize actually grows the buffer, so it can
// still fail the frame with ErrOutOfGas before any side effect occurs.
type gasFunc func(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error)

// constGasFunc wraps a flat per-opcode constant as a gas function. The
// jump table stores constant costs directly in operation.constantGas and
// does not call it.
func constGasFunc(gas uint64) func(*EVM, *Contract, *Stack, *Memory, uint64) uint64 {
	return func(*EVM, *Contract, *Stack, *Memory, uint64) uint64 { return gas }
}

// memoryGasCost implements the quadratic expansion formula
// w·Gmemory + w²/512, billing only the delta against the frame's
// previously paid memoryGasCost (mem.lastGasCost).
func memoryGasCost(mem *Memory, newMemSize uint64) (uint64, error) {
	if newMemSize == 0 {
		return 0, nil
	}
	if newMemSize > 0x1FFFFFFFE0 {
		return 0, ErrGasUintOverflow
	}
	newMemSizeWords := toWordSize(newMemSize)
	newMemSize = newMemSizeWords * 32

	if newMemSize > uint64(mem.Len()) {
		square := newMemSizeWords * newMemSizeWords
		linCoef := newMemSizeWords * params.MemoryGas
		quadCoef := square / params.QuadCoeffDiv
		newTotalFee := linCoef + quadCoef

		fee := newTotalFee - mem.lastGasCost
		mem.lastGasCost = newTotalFee
		return fee, nil
	}
	return 0, nil
}

// callGas implements the all-but-one-64th rule (EIP-150): the gas
// forwardable to a sub-call is min(requested, floor(gasLeft * 63/64))
// post-EIP-150, or simply the requested amount pre-EIP-150 (bounded by
// what's actually available).
func callGas(isEip150 bool, availableGas, base uint64, callCost *uint256.Int) (uint64, error) {
	if isEip150 {
		availableGas -= base
		gas := availableGas - availableGas/64
		// If the requested amount doesn't fit in 64 bits, it's certainly
		// bigger than the capped "gas" computed above, so forward the cap.
		if !callCost.IsUint64() || gas < callCost.Uint64() {
			return gas, nil
		}
	}
	if !callCost.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	return callCost.Uint64(), nil
}
