package deploy

import (
	"testing"

	"github.com/Mohsinsiddi/w3deploy/internal/config"
	"github.com/Mohsinsiddi/w3deploy/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T, signers wallet.Set) *Env {
	t.Helper()
	cfg := config.Default()
	n, err := cfg.Network(config.NetworkHardhat)
	require.NoError(t, err)
	return NewEnv(cfg, n, signers, nil)
}

func TestGetNamedAccounts(t *testing.T) {
	signers := wallet.DevSigners()
	env := testEnv(t, signers)

	got := env.GetNamedAccounts()
	assert.Equal(t, signers[0].Address(), got[config.RoleDeployer])
	assert.Equal(t, signers[1].Address(), got[config.RolePlayer])
}

func TestGetNamedAccountsOmitsMissingIndex(t *testing.T) {
	env := testEnv(t, wallet.DevSigners()[:1])

	got := env.GetNamedAccounts()
	assert.Contains(t, got, config.RoleDeployer)
	assert.NotContains(t, got, config.RolePlayer)
}

func TestNamedAccountPerNetworkOverride(t *testing.T) {
	env := testEnv(t, wallet.DevSigners())
	env.Config.NamedAccounts[config.RolePlayer] = config.NamedAccount{Default: 1, Networks: map[string]int{config.NetworkHardhat: 3}}

	addr, err := env.NamedAccount(config.RolePlayer)
	require.NoError(t, err)
	assert.Equal(t, env.Signers()[3].Address(), addr)
}

func TestNamedAccountErrors(t *testing.T) {
	env := testEnv(t, wallet.DevSigners()[:1])

	_, err := env.NamedAccount(config.RolePlayer)
	assert.ErrorIs(t, err, ErrUnknownRole)
	assert.ErrorIs(t, err, wallet.ErrAccountIndexOutOfRange)

	_, err = env.NamedAccount("treasury")
	assert.ErrorIs(t, err, ErrUnknownRole)
}
