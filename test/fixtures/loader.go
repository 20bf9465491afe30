package fixtures

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// fixturesDir returns the absolute path to the fixtures directory.
func fixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// ArtifactsDir returns a Hardhat-style artifacts directory holding Raffle.
func ArtifactsDir() string {
	return filepath.Join(fixturesDir(), "artifacts")
}

// Receipt returns the JSON-RPC result of eth_getTransactionReceipt for a
// successful contract creation.
func Receipt(txHash common.Hash, contract common.Address, block, gasUsed uint64) map[string]any {
	return map[string]any{
		"type":              "0x0",
		"status":            "0x1",
		"cumulativeGasUsed": hexutil.EncodeUint64(gasUsed),
		"gasUsed":           hexutil.EncodeUint64(gasUsed),
		"effectiveGasPrice": "0x3b9aca00",
		"logsBloom":         "0x" + strings.Repeat("0", 512),
		"logs":              []any{},
		"transactionHash":   txHash.Hex(),
		"transactionIndex":  "0x0",
		"contractAddress":   contract.Hex(),
		"blockHash":         common.HexToHash("0xb1").Hex(),
		"blockNumber":       hexutil.EncodeUint64(block),
	}
}
