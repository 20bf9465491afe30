package scripts

import (
	"context"
	"errors"
	"testing"

	"github.com/Mohsinsiddi/w3deploy/internal/config"
	"github.com/Mohsinsiddi/w3deploy/internal/contract"
	"github.com/Mohsinsiddi/w3deploy/internal/deploy"
	"github.com/Mohsinsiddi/w3deploy/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deployCall struct {
	name string
	opts deploy.Options
}

type fakeDeployments struct {
	calls []deployCall
	err   error
}

func (f *fakeDeployments) Deploy(ctx context.Context, name string, opts deploy.Options) (*deploy.Deployment, error) {
	f.calls = append(f.calls, deployCall{name: name, opts: opts})
	if f.err != nil {
		return nil, f.err
	}
	return &deploy.Deployment{Name: name}, nil
}

func (f *fakeDeployments) Get(name string) (*contract.Record, error) {
	return nil, contract.ErrDeploymentNotFound
}

func (f *fakeDeployments) Log(args ...any) {}

func newEnv(t *testing.T, signers wallet.Set, d deploy.Deployments) *deploy.Env {
	t.Helper()
	cfg := config.Default()
	n, err := cfg.Network(config.NetworkHardhat)
	require.NoError(t, err)
	return deploy.NewEnv(cfg, n, signers, d)
}

func TestRaffleDeploysOnce(t *testing.T) {
	signers := wallet.DevSigners()
	fake := &fakeDeployments{}

	require.NoError(t, Raffle(context.Background(), newEnv(t, signers, fake)))

	require.Len(t, fake.calls, 1)
	call := fake.calls[0]
	assert.Equal(t, "Raffle", call.name)
	assert.Equal(t, signers[0].Address(), call.opts.From)
	assert.NotNil(t, call.opts.Args)
	assert.Empty(t, call.opts.Args)
	assert.True(t, call.opts.Log)
	assert.Equal(t, uint64(6), call.opts.WaitConfirmations)
}

func TestRafflePropagatesError(t *testing.T) {
	boom := errors.New("insufficient funds")
	fake := &fakeDeployments{err: boom}

	err := Raffle(context.Background(), newEnv(t, wallet.DevSigners(), fake))
	assert.Same(t, boom, err)
	assert.Len(t, fake.calls, 1)
}

func TestRaffleWithoutDeployer(t *testing.T) {
	fake := &fakeDeployments{}
	err := Raffle(context.Background(), newEnv(t, nil, fake))
	assert.ErrorIs(t, err, wallet.ErrAccountIndexOutOfRange)
	assert.Empty(t, fake.calls)
}

func TestAllTags(t *testing.T) {
	scripts := All()
	require.Len(t, scripts, 1)
	assert.ElementsMatch(t, []string{"all", "raffle"}, scripts[0].Tags)
}
