package vm

import "fmt"

// enableEIP activates a single EIP's opcode changes on top of an already
// built fork table, mirroring go-ethereum's ExtraEips mechanism for
// enabling an EIP ahead of (or independent of) the fork that normally
// ships it.
func enableEIP(eip int, jt *JumpTable) error {
	switch eip {
	case 3855: // PUSH0, shipped by default from Shanghai
		jt[PUSH0] = newOp(opPush0, GasQuickStep, 0, 1)
	case 3198: // BASEFEE, shipped by default from London
		jt[BASEFEE] = newOp(opBaseFee, GasQuickStep, 0, 1)
	case 1344: // CHAINID, shipped by default from Istanbul
		jt[CHAINID] = newOp(opChainID, GasQuickStep, 0, 1)
	case 1884: // SELFBALANCE, shipped by default from Istanbul
		jt[SELFBALANCE] = newOp(opSelfBalance, GasFastStep, 0, 1)
	default:
		return fmt.Errorf("undefined eip %d", eip)
	}
	return nil
}
