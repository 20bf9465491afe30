package cmd

import (
	"fmt"
	"strconv"

	"github.com/Mohsinsiddi/w3deploy/internal/deploy"
	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/Mohsinsiddi/w3deploy/internal/wallet"
	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Show named accounts and signers of a network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		n, err := lookupNetwork(networkName())
		if err != nil {
			return err
		}
		signers, err := wallet.SignersFor(n.Accounts, n.Live, keystoreFor(n.Accounts))
		if err != nil {
			return fmt.Errorf("accounts for %s: %w", n.Name, err)
		}
		env := deploy.NewEnv(cfg, n, signers, nil)

		t := ui.NewTable([]ui.Column{
			{Title: "Role", Width: 12},
			{Title: "Index", Width: 6},
			{Title: "Address", Width: 44},
		})
		named := env.GetNamedAccounts()
		for _, role := range cfg.Roles() {
			idx := cfg.NamedAccounts[role].IndexFor(n.Name)
			addr, ok := named[role]
			cell := ui.Warn("no signer")
			if ok {
				cell = ui.Addr(addr.Hex())
			}
			t.AddRow(ui.Row{ui.Val(role), strconv.Itoa(idx), cell})
		}

		fmt.Fprintf(out, "%s %s\n", ui.StyleTitle.Render("Named accounts on"), ui.NetworkName(n.Name))
		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d signer(s) available", len(signers))))
		if len(n.Accounts) == 0 && !n.Live {
			fmt.Fprintln(out, ui.Info("using local development accounts"))
		}
		return nil
	},
}
