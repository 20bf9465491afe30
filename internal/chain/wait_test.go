package chain_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/Mohsinsiddi/w3deploy/internal/chain"
	"github.com/Mohsinsiddi/w3deploy/internal/chain/chaintest"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const poll = time.Millisecond

// Well-known Hardhat/Anvil test account #0: never fund on mainnet.
const testPrivKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func sendCreation(t *testing.T, b *chaintest.Backend) *types.Transaction {
	t.Helper()
	key, err := crypto.HexToECDSA(testPrivKeyHex)
	require.NoError(t, err)
	tx := types.NewTx(&types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(1), Gas: 100_000, Data: []byte{0x60}})
	signed, err := types.SignTx(tx, types.NewLondonSigner(b.ID), key)
	require.NoError(t, err)
	require.NoError(t, b.SendTransaction(context.Background(), signed))
	return signed
}

func TestVerifyChainID(t *testing.T) {
	b := chaintest.New(31337)
	id, err := chain.VerifyChainID(context.Background(), b, 31337)
	require.NoError(t, err)
	assert.Equal(t, int64(31337), id.Int64())

	_, err = chain.VerifyChainID(context.Background(), b, 5)
	assert.ErrorIs(t, err, chain.ErrChainIDMismatch)
}

func TestVerifyChainIDRPCError(t *testing.T) {
	b := chaintest.New(1)
	b.ChainIDErr = errors.New("connection refused")
	_, err := chain.VerifyChainID(context.Background(), b, 1)
	assert.ErrorContains(t, err, "connection refused")
}

func TestWaitForReceiptAfterPending(t *testing.T) {
	b := chaintest.New(31337)
	tx := sendCreation(t, b)
	b.ReceiptDelay = 3

	r, err := chain.WaitForReceipt(context.Background(), b, tx.Hash(), poll)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), r.TxHash)
	assert.NotEqual(t, common.Address{}, r.ContractAddress)
}

func TestWaitForReceiptReverted(t *testing.T) {
	b := chaintest.New(31337)
	b.Revert = true
	tx := sendCreation(t, b)

	r, err := chain.WaitForReceipt(context.Background(), b, tx.Hash(), poll)
	assert.ErrorIs(t, err, chain.ErrTxReverted)
	require.NotNil(t, r)
}

func TestWaitForReceiptContextDone(t *testing.T) {
	b := chaintest.New(31337)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := chain.WaitForReceipt(ctx, b, common.HexToHash("0x01"), poll)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitForConfirmationsSingleReturnsImmediately(t *testing.T) {
	b := chaintest.New(1)
	require.NoError(t, chain.WaitForConfirmations(context.Background(), b, 100, 1, poll))
	require.NoError(t, chain.WaitForConfirmations(context.Background(), b, 100, 0, poll))
}

func TestWaitForConfirmationsWaitsForBlocks(t *testing.T) {
	b := chaintest.New(1)
	b.Head = 10
	b.AdvancePerPoll = 1

	require.NoError(t, chain.WaitForConfirmations(context.Background(), b, 10, 6, poll))
	assert.GreaterOrEqual(t, b.Head, uint64(15))
}

func TestWaitForConfirmationsContextDone(t *testing.T) {
	b := chaintest.New(1)
	b.Head = 10
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := chain.WaitForConfirmations(ctx, b, 10, 6, poll)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "at 1 of 6")
}

func TestWaitForConfirmationsNodeBehindReceipt(t *testing.T) {
	b := chaintest.New(1)
	b.Head = 8
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := chain.WaitForConfirmations(ctx, b, 10, 6, poll)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "at 0 of 6")
}
