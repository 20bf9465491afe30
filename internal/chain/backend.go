package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ErrChainIDMismatch is returned when the node serves another chain than the
// one configured for the network.
var ErrChainIDMismatch = errors.New("chain id mismatch")

// Backend is the part of an Ethereum JSON-RPC client needed to deploy
// contracts. *ethclient.Client satisfies it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

var _ Backend = (*ethclient.Client)(nil)

// Dial connects to the JSON-RPC endpoint at url.
func Dial(ctx context.Context, url string) (*ethclient.Client, error) {
	c, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dialing rpc: %w", err)
	}
	return c, nil
}

// VerifyChainID checks that the node behind b serves chain want.
func VerifyChainID(ctx context.Context, b Backend, want int64) (*big.Int, error) {
	got, err := b.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching chain id: %w", err)
	}
	if !got.IsInt64() || got.Int64() != want {
		return nil, fmt.Errorf("%w: node reports %s, network is configured with %d", ErrChainIDMismatch, got, want)
	}
	return got, nil
}
