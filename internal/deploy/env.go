package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/w3deploy/internal/config"
	"github.com/Mohsinsiddi/w3deploy/internal/contract"
	"github.com/Mohsinsiddi/w3deploy/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
)

// ErrUnknownRole is returned for a role that is not configured or whose
// index has no signer on the selected network.
var ErrUnknownRole = errors.New("named account not available")

// Deployments is the helper deploy scripts use to deploy and log.
type Deployments interface {
	Deploy(ctx context.Context, name string, opts Options) (*Deployment, error)
	Get(name string) (*contract.Record, error)
	Log(args ...any)
}

// Env is the execution context handed to every deploy script.
type Env struct {
	Config      *config.Config
	Network     *config.Network
	Deployments Deployments

	signers wallet.Set
}

// NewEnv builds the script context for network.
func NewEnv(cfg *config.Config, network *config.Network, signers wallet.Set, d Deployments) *Env {
	return &Env{Config: cfg, Network: network, Deployments: d, signers: signers}
}

// Signers returns the network's signer list.
func (e *Env) Signers() wallet.Set {
	return e.signers
}

// GetNamedAccounts maps every configured role to the address of its signer.
// Roles whose index has no signer on this network are left out.
func (e *Env) GetNamedAccounts() map[string]common.Address {
	out := make(map[string]common.Address, len(e.Config.NamedAccounts))
	for role, a := range e.Config.NamedAccounts {
		s, err := e.signers.At(a.IndexFor(e.Network.Name))
		if err != nil {
			continue
		}
		out[role] = s.Address()
	}
	return out
}

// NamedAccount resolves a single role, failing when it is unavailable.
func (e *Env) NamedAccount(role string) (common.Address, error) {
	a, ok := e.Config.NamedAccounts[role]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %q is not configured (roles: %v)", ErrUnknownRole, role, e.Config.Roles())
	}
	s, err := e.signers.At(a.IndexFor(e.Network.Name))
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %q on %s: %w", ErrUnknownRole, role, e.Network.Name, err)
	}
	return s.Address(), nil
}
