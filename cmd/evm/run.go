package main

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os"

	"github.com/fatih/color"
	cli "github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/core/vm/runtime"
	"github.com/ethereum/go-ethereum/params"
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "execute a state-test vector and report pass/fail",
	ArgsUsage: "<vector.json>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "all-forks", Usage: "enable every hardfork from genesis instead of mainnet's schedule"},
	},
	Action: runAction,
}

func runAction(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return cli.Exit("missing test vector path", 2)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("read %s: %v", path, err), 2)
	}
	v, err := loadVector(data)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	chainConfig := params.MainnetChainConfig
	if ctx.Bool("all-forks") {
		chainConfig = params.AllEthashProtocolChanges
	}

	state := runtime.NewState()
	for addrHex, acct := range v.Pre {
		addr := hexToAddress(addrHex)
		state.CreateAccount(addr)
		state.SetNonce(addr, hexToUint64(acct.Nonce))
		state.AddBalance(addr, hexToUint256(acct.Balance))
		if code := hexToBytes(acct.Code); len(code) > 0 {
			state.SetCode(addr, code)
		}
		for k, val := range acct.Storage {
			state.SetState(addr, hexToHash(k), hexToHash(val))
		}
	}

	cfg := &runtime.Config{
		ChainConfig: chainConfig,
		Origin:      hexToAddress(v.Transaction.From),
		Coinbase:    hexToAddress(v.Env.Coinbase),
		BlockNumber: hexToBig(v.Env.Number),
		Time:        hexToUint64(v.Env.Timestamp),
		GasLimit:    hexToUint64(v.Transaction.GasLimit),
		Difficulty:  hexToBig(v.Env.Difficulty),
		BaseFee:     hexToBig(v.Env.BaseFee),
		Value:       hexToUint256(v.Transaction.Value),
		GasPrice:    new(big.Int),
		State:       state,
	}
	if cfg.GasLimit == 0 {
		cfg.GasLimit = hexToUint64(v.Env.GasLimit)
	}

	input := hexToBytes(v.Transaction.Data)

	var (
		ret         []byte
		leftOverGas uint64
		runErr      error
		deployed    common.Address
	)
	if v.Transaction.To == "" {
		ret, deployed, leftOverGas, runErr = runtime.Create(input, cfg)
		_ = deployed
	} else {
		cfg.Address = hexToAddress(v.Transaction.To)
		ret, leftOverGas, runErr = runtime.Execute(nil, input, cfg)
	}

	gasUsed := cfg.GasLimit - leftOverGas

	status := "success"
	switch {
	case runErr == vm.ErrExecutionReverted:
		status = "revert"
	case runErr != nil:
		status = "error"
	}

	want := v.Expect.Status
	if want == "" {
		want = "success"
	}

	pass := status == want
	for addrHex, wantAcct := range v.Post {
		addr := hexToAddress(addrHex)
		if state.GetBalance(addr).ToBig().Cmp(hexToBig(wantAcct.Balance)) != 0 {
			pass = false
		}
		if state.GetNonce(addr) != hexToUint64(wantAcct.Nonce) {
			pass = false
		}
		for slot, wantVal := range wantAcct.Storage {
			if state.GetState(addr, hexToHash(slot)) != hexToHash(wantVal) {
				pass = false
			}
		}
	}

	if pass {
		fmt.Println(color.GreenString("PASS"), "status:", status, "gasUsed:", gasUsed, "ret:", hex.EncodeToString(ret))
		return nil
	}

	msg := fmt.Sprintf("status: got %s want %s", status, want)
	if runErr != nil {
		msg += fmt.Sprintf(" (%v)", runErr)
	}
	fmt.Println(color.RedString("FAIL"), msg)
	return cli.Exit("", 1)
}
