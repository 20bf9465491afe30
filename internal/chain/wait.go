package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrTxReverted is returned when a mined transaction has status 0.
var ErrTxReverted = errors.New("transaction reverted")

// WaitForReceipt polls every poll until the transaction is mined or ctx is
// done. A reverted transaction returns its receipt together with
// ErrTxReverted.
func WaitForReceipt(ctx context.Context, b Backend, hash common.Hash, poll time.Duration) (*types.Receipt, error) {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		receipt, err := b.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			if receipt.Status == types.ReceiptStatusFailed {
				return receipt, fmt.Errorf("%w (hash: %s)", ErrTxReverted, hash.Hex())
			}
			return receipt, nil
		case !errors.Is(err, ethereum.NotFound):
			return nil, fmt.Errorf("fetching receipt %s: %w", hash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("transaction %s not mined: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// WaitForConfirmations blocks until the block holding a transaction has
// confirmations blocks on top of it, counting the block itself as the
// first. confirmations <= 1 returns immediately.
func WaitForConfirmations(ctx context.Context, b Backend, minedIn uint64, confirmations uint64, poll time.Duration) error {
	if confirmations <= 1 {
		return nil
	}
	target := minedIn + confirmations - 1

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		head, err := b.BlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("fetching block number: %w", err)
		}
		if head >= target {
			return nil
		}

		select {
		case <-ctx.Done():
			var have uint64
			if head >= minedIn {
				have = head - minedIn + 1
			}
			return fmt.Errorf("waiting for %d confirmations (at %d of %d): %w",
				confirmations, have, confirmations, ctx.Err())
		case <-ticker.C:
		}
	}
}
