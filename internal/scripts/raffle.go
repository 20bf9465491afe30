// Package scripts holds the project's deploy scripts.
package scripts

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/w3deploy/internal/config"
	"github.com/Mohsinsiddi/w3deploy/internal/deploy"
)

// RaffleConfirmations is how many blocks the Raffle deployment waits for.
const RaffleConfirmations = 6

// Raffle deploys the Raffle contract from the deployer account with no
// constructor arguments.
func Raffle(ctx context.Context, env *deploy.Env) error {
	deployer, ok := env.GetNamedAccounts()[config.RoleDeployer]
	if !ok {
		_, err := env.NamedAccount(config.RoleDeployer)
		return fmt.Errorf("resolving %s: %w", config.RoleDeployer, err)
	}

	_, err := env.Deployments.Deploy(ctx, "Raffle", deploy.Options{
		From:              deployer,
		Args:              []any{},
		Log:               true,
		WaitConfirmations: RaffleConfirmations,
	})
	return err
}

// All returns every script in run order.
func All() []deploy.Script {
	return []deploy.Script{
		{Name: "raffle", Tags: []string{"all", "raffle"}, Run: Raffle},
	}
}
