package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Mohsinsiddi/w3deploy/internal/chain"
	"github.com/Mohsinsiddi/w3deploy/internal/config"
	"github.com/Mohsinsiddi/w3deploy/internal/contract"
	"github.com/Mohsinsiddi/w3deploy/internal/deploy"
	"github.com/Mohsinsiddi/w3deploy/internal/scripts"
	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/Mohsinsiddi/w3deploy/internal/wallet"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	deployTags []string
	deployYes  bool
	deployPick bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Run deploy scripts against a network",
	Long: `Run the registered deploy scripts against the selected network.

Live networks ask for confirmation unless --yes is given. Deployments are
saved under <paths.deployments>/<network>/ for networks with saveDeployments,
and an unchanged contract that is still on chain is reused.

Examples:
  w3deploy deploy                        # default network, every script
  w3deploy deploy --network sepolia --yes
  w3deploy deploy --tags raffle
  w3deploy deploy --pick                 # choose the network interactively`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		name := networkName()
		if deployPick {
			if networkFlag != "" {
				return errors.New("--pick and --network cannot be used together")
			}
			picked, err := ui.PickItem("Select network", networkItems(), config.NetworkKey(name))
			if err != nil {
				return err
			}
			name = picked
		}
		n, err := cfg.Network(name)
		if err != nil {
			return err
		}

		if n.Live && !deployYes {
			prompt := fmt.Sprintf("Deploy to live network %s (chain %d)?", n.Name, n.ChainID)
			if !ui.Confirm(cmd.InOrStdin(), out, prompt) {
				fmt.Fprintln(out, ui.Meta("Cancelled."))
				return nil
			}
		}

		signers, err := wallet.SignersFor(n.Accounts, n.Live, keystoreFor(n.Accounts))
		if err != nil {
			return fmt.Errorf("accounts for %s: %w", n.Name, err)
		}

		client, err := connect(cmd.Context(), cmd, n)
		if err != nil {
			return err
		}
		defer client.Close()

		runID := uuid.NewString()
		runLog := zerolog.Ctx(cmd.Context()).With().Str("run", runID).Str("network", n.Name).Logger()

		opts := []deploy.Option{
			deploy.WithOutput(out),
			deploy.WithLogger(runLog),
			deploy.WithRunID(runID),
		}
		if n.SaveDeployments {
			opts = append(opts, deploy.WithStore(contract.NewStore(cfg.Paths.Deployments, n.Name)))
		}
		d := deploy.NewDeployer(client, n, signers, cfg.Paths.Artifacts, opts...)
		env := deploy.NewEnv(cfg, n, signers, d)

		runner := deploy.NewRunner(runLog)
		if err := runner.Register(scripts.All()...); err != nil {
			return err
		}

		fmt.Fprintf(out, "%s %s %s\n", ui.StyleTitle.Render("Deploying to"), ui.NetworkName(n.Name), ui.LiveBadge(n.Live))
		done, err := runner.Run(cmd.Context(), env, deployTags)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, ui.Success(fmt.Sprintf("%d script(s) completed on %s", len(done), n.Name)))
		for _, rec := range d.Deployed() {
			if link := chain.AddressURL(n.ChainID, rec.Address.Hex()); link != "" {
				fmt.Fprintln(out, ui.Hint(rec.ContractName+": "+link))
			}
		}
		return nil
	},
}

// connect dials the network and checks that the node serves the
// configured chain.
func connect(ctx context.Context, cmd *cobra.Command, n *config.Network) (*ethclient.Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, config.RPCDialTimeout)
	defer cancel()

	sp := ui.NewSpinner(cmd.ErrOrStderr(), "Connecting to "+n.Name+"...")
	sp.Start()
	defer sp.Stop()

	client, err := chain.Dial(dialCtx, n.URL)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", n.Name, err)
	}
	if _, err := chain.VerifyChainID(dialCtx, client, n.ChainID); err != nil {
		client.Close()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s did not answer within %s: %w", n.Name, config.RPCDialTimeout, err)
		}
		return nil, fmt.Errorf("%s: %w", n.Name, err)
	}
	return client, nil
}

func networkItems() []ui.PickerItem {
	items := make([]ui.PickerItem, 0, len(cfg.Networks))
	for _, name := range cfg.NetworkNames() {
		n := cfg.Networks[name]
		sub := "chain " + strconv.FormatInt(n.ChainID, 10)
		if n.Live {
			sub += " · live"
		}
		items = append(items, ui.PickerItem{Label: name, SubLabel: sub, Value: name})
	}
	return items
}

func init() {
	deployCmd.Flags().StringSliceVarP(&deployTags, "tags", "t", nil, "only run scripts with these tags (comma-separated)")
	deployCmd.Flags().BoolVarP(&deployYes, "yes", "y", false, "skip the confirmation for live networks")
	deployCmd.Flags().BoolVar(&deployPick, "pick", false, "choose the network interactively")
}
