package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/w3deploy/internal/config"
	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		data, err := yaml.Marshal(redacted(cfg))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Fprintln(out, string(data))
		src := cfg.Source()
		if src == "" {
			src = "built-in defaults"
		}
		fmt.Fprintln(out, ui.Meta("Source: "+src))
		return nil
	},
}

// redacted returns a copy of c safe to print: account keys are masked and
// RPC urls reduced to their host.
func redacted(c *config.Config) *config.Config {
	out := *c
	out.Networks = make(map[string]*config.Network, len(c.Networks))
	for name, n := range c.Networks {
		cp := *n
		cp.URL = redactURL(n.URL)
		cp.Accounts = make([]string, len(n.Accounts))
		for i, a := range n.Accounts {
			cp.Accounts[i] = maskAccount(a)
		}
		out.Networks[name] = &cp
	}
	return &out
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
