package params

const (
	// GasLimitBoundDivisor is the bound divisor of the gas limit, used in
	// update calculations by the (external) block-import driver.
	GasLimitBoundDivisor uint64 = 1024
	// MinGasLimit is the minimum a block's gas limit may ever be.
	MinGasLimit uint64 = 5000

	// Stack and call-depth limits consulted directly by the interpreter.
	StackLimit       uint64 = 1024 // maximum number of elements on the EVM stack
	CallCreateDepth  uint64 = 1024 // maximum depth of call/create stack

	// Fixed gas tiers from the Yellow Paper's instruction table, reused by
	// the static-gas column of the jump table.
	GasQuickStep   uint64 = 2
	GasFastestStep uint64 = 3
	GasFastStep    uint64 = 5
	GasMidStep     uint64 = 8
	GasSlowStep    uint64 = 10
	GasExtStep     uint64 = 20

	// SSTORE, frontier/homestead pricing.
	SstoreSetGas   uint64 = 20000
	SstoreResetGas uint64 = 5000
	SstoreClearGas uint64 = 5000
	SstoreRefundGas uint64 = 15000

	// SSTORE, EIP-1283/1706 net-gas metering (Constantinople/Petersburg, pre-Istanbul).
	NetSstoreNoopGas        uint64 = 200
	NetSstoreInitGas        uint64 = 20000
	NetSstoreCleanGas       uint64 = 5000
	NetSstoreDirtyGas       uint64 = 200
	NetSstoreClearRefund    uint64 = 15000
	NetSstoreResetRefund    uint64 = 4800
	NetSstoreResetClearRefund uint64 = 19800

	// SSTORE, EIP-2200 (Istanbul).
	SloadGasEIP2200                    uint64 = 800
	SstoreSetGasEIP2200                uint64 = 20000
	SstoreResetGasEIP2200               uint64 = 5000
	SstoreClearsScheduleRefundEIP2200  uint64 = 15000
	SstoreSentryGasEIP2200              uint64 = 2300

	// SSTORE / SLOAD, EIP-2929 (Berlin) cold/warm access pricing.
	ColdAccountAccessCostEIP2929 uint64 = 2600
	ColdSloadCostEIP2929         uint64 = 2100
	WarmStorageReadCostEIP2929   uint64 = 100
	SstoreSetGasEIP2929          uint64 = 20000
	SstoreResetGasEIP2929        uint64 = 5000 - ColdSloadCostEIP2929
	SstoreClearsScheduleRefundEIP3529 uint64 = 4800 // EIP-3529 shrinks the clear refund

	LogGas         uint64 = 375
	LogTopicGas    uint64 = 375
	LogDataGas     uint64 = 8

	Keccak256Gas     uint64 = 30
	Keccak256WordGas uint64 = 6

	CopyGas uint64 = 3

	ExpGas          uint64 = 10
	ExpByteFrontier uint64 = 10
	ExpByteEIP158   uint64 = 50

	MemoryGas     uint64 = 3
	QuadCoeffDiv  uint64 = 512

	CreateGas               uint64 = 32000
	Create2Gas               uint64 = 32000
	InitCodeWordGas          uint64 = 2   // EIP-3860
	MaxInitCodeSize          uint64 = 2 * 24576
	MaxCodeSize              uint64 = 24576 // EIP-170
	CreateDataGas           uint64 = 200  // per byte of deployed code stored

	CallValueTransferGas uint64 = 9000
	CallNewAccountGas    uint64 = 25000
	CallStipend          uint64 = 2300 // stipend given to callees with a non-zero value transfer
	CallGasFrontier      uint64 = 40
	CallGasEIP150        uint64 = 700

	SelfdestructRefundGas  uint64 = 24000
	SelfdestructGasEIP150  uint64 = 5000
	CreateBySelfdestructGas uint64 = 25000

	JumpdestGas uint64 = 1
	BalanceGasFrontier uint64 = 20
	BalanceGasEIP150   uint64 = 400
	BalanceGasEIP1884  uint64 = 700

	ExtcodeSizeGasFrontier uint64 = 20
	ExtcodeSizeGasEIP150   uint64 = 700
	ExtcodeCopyBaseFrontier uint64 = 20
	ExtcodeCopyBaseEIP150   uint64 = 700
	ExtcodeHashGasConstantinople uint64 = 400
	ExtcodeHashGasEIP1884        uint64 = 700

	SloadGasFrontier uint64 = 50
	SloadGasEIP150   uint64 = 200
	SloadGasEIP1884  uint64 = 800

	TxGas                 uint64 = 21000
	TxGasContractCreation uint64 = 53000
	TxDataZeroGas         uint64 = 4
	TxDataNonZeroGasFrontier uint64 = 68
	TxDataNonZeroGasEIP2028  uint64 = 16

	RefundQuotient       uint64 = 2 // pre-London refund cap denominator
	RefundQuotientEIP3529 uint64 = 5 // post-London (EIP-3529) refund cap denominator
)
