package cmd

import (
	"fmt"
	"strconv"

	"github.com/Mohsinsiddi/w3deploy/internal/contract"
	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/spf13/cobra"
)

var deploymentsCmd = &cobra.Command{
	Use:   "deployments",
	Short: "List saved deployments of a network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		n, err := lookupNetwork(networkName())
		if err != nil {
			return err
		}
		store := contract.NewStore(cfg.Paths.Deployments, n.Name)
		records, err := store.All()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(out, ui.Info("No deployments saved for "+n.Name+"."))
			if !n.SaveDeployments {
				fmt.Fprintln(out, ui.Hint("saveDeployments is off for this network"))
			}
			return nil
		}
		if id, err := store.ChainID(); err == nil && id != n.ChainID {
			fmt.Fprintln(out, ui.Warn(fmt.Sprintf("records were made on chain %d, network is configured for %d", id, n.ChainID)))
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Contract", Width: 16},
			{Title: "Address", Width: 44},
			{Title: "Block", Width: 10},
			{Title: "Gas", Width: 10},
			{Title: "Deployed", Width: 20},
		})
		for _, r := range records {
			block, gas := "—", "—"
			if r.Receipt != nil {
				block = strconv.FormatUint(r.Receipt.BlockNumber, 10)
				gas = strconv.FormatUint(r.Receipt.GasUsed, 10)
			}
			t.AddRow(ui.Row{ui.Val(r.ContractName), ui.Addr(r.Address.Hex()), block, gas, ui.Meta(r.DeployedAt)})
		}
		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d deployment(s) in %s", len(records), store.Dir())))
		return nil
	},
}
