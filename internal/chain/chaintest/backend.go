// Package chaintest provides an in-memory chain.Backend for tests.
package chaintest

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Backend mines every sent transaction into its own block. Exported fields
// may be set before use to inject behavior.
type Backend struct {
	mu sync.Mutex

	ID          *big.Int
	Head        uint64
	GasPrice    *big.Int
	GasEstimate uint64

	// AdvancePerPoll is added to Head after every BlockNumber call.
	AdvancePerPoll uint64
	// ReceiptDelay is the number of TransactionReceipt calls answered with
	// NotFound before a receipt is returned.
	ReceiptDelay int
	// Revert makes mined transactions fail.
	Revert bool

	ChainIDErr  error
	EstimateErr error
	SendErr     error

	Sent     []*types.Transaction
	Code     map[common.Address][]byte
	receipts map[common.Hash]*types.Receipt
	nonces   map[common.Address]uint64
}

// New returns a Backend for chain id at head block 1.
func New(id int64) *Backend {
	return &Backend{
		ID:          big.NewInt(id),
		Head:        1,
		GasPrice:    big.NewInt(1_000_000_000),
		GasEstimate: 500_000,
		Code:        make(map[common.Address][]byte),
		receipts:    make(map[common.Hash]*types.Receipt),
		nonces:      make(map[common.Address]uint64),
	}
}

func (b *Backend) ChainID(ctx context.Context) (*big.Int, error) {
	if b.ChainIDErr != nil {
		return nil, b.ChainIDErr
	}
	return new(big.Int).Set(b.ID), nil
}

func (b *Backend) BlockNumber(ctx context.Context) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	head := b.Head
	b.Head += b.AdvancePerPoll
	return head, nil
}

func (b *Backend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nonces[account], nil
}

func (b *Backend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(b.GasPrice), nil
}

func (b *Backend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	if b.EstimateErr != nil {
		return 0, b.EstimateErr
	}
	return b.GasEstimate, nil
}

// SendTransaction mines tx into a new block.
func (b *Backend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if b.SendErr != nil {
		return b.SendErr
	}
	from, err := types.Sender(types.NewLondonSigner(b.ID), tx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.Sent = append(b.Sent, tx)
	b.nonces[from] = tx.Nonce() + 1
	b.Head++

	receipt := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      tx.Hash(),
		BlockNumber: new(big.Int).SetUint64(b.Head),
		GasUsed:     tx.Gas() / 2,
	}
	if b.Revert {
		receipt.Status = types.ReceiptStatusFailed
	} else if tx.To() == nil {
		receipt.ContractAddress = crypto.CreateAddress(from, tx.Nonce())
		b.Code[receipt.ContractAddress] = []byte{0x60, 0x80}
	}
	b.receipts[tx.Hash()] = receipt
	return nil
}

func (b *Backend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ReceiptDelay > 0 {
		b.ReceiptDelay--
		return nil, ethereum.NotFound
	}
	r, ok := b.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func (b *Backend) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Code[account], nil
}
