package vm

// RunPrecompiledContract charges p's required gas for input and, if the
// remaining gas covers it, runs p. Precompiles never get a REVERT: any
// failure consumes all gas handed to it, treating a precompile as an
// opaque host-provided builtin with no partial-gas
// refund path.
func RunPrecompiledContract(p PrecompiledContract, input []byte, suppliedGas uint64) (ret []byte, remainingGas uint64, err error) {
	gasCost := p.RequiredGas(input)
	if suppliedGas < gasCost {
		return nil, 0, ErrOutOfGas
	}
	suppliedGas -= gasCost
	output, err := p.Run(input)
	if err != nil {
		return nil, 0, err
	}
	return output, suppliedGas, nil
}
