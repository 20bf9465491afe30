package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Mohsinsiddi/w3deploy/internal/chain"
	"github.com/Mohsinsiddi/w3deploy/internal/config"
	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// pingConcurrency caps parallel RPC pings.
const pingConcurrency = 4

var networksCmd = &cobra.Command{
	Use:     "networks",
	Aliases: []string{"network"},
	Short:   "Inspect configured networks",
}

var networksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured networks",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 12},
			{Title: "Chain ID", Width: 10},
			{Title: "Confirm.", Width: 8},
			{Title: "Type", Width: 6},
			{Title: "Accounts", Width: 8},
			{Title: "RPC", Width: 34},
		})

		for _, name := range cfg.NetworkNames() {
			n := cfg.Networks[name]
			label := name
			if name == config.NetworkKey(cfg.DefaultNetwork) {
				label += " *"
			}
			t.AddRow(ui.Row{
				ui.NetworkName(label),
				strconv.FormatInt(n.ChainID, 10),
				strconv.FormatUint(n.BlockConfirmations, 10),
				ui.LiveBadge(n.Live),
				strconv.Itoa(len(n.Accounts)),
				redactURL(n.URL),
			})
		}

		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d network(s), * = default", len(cfg.Networks))))
		return nil
	},
}

var networksPingCmd = &cobra.Command{
	Use:   "ping [network...]",
	Short: "Check RPC reachability and chain id of networks",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := args
		if len(names) == 0 {
			names = cfg.NetworkNames()
		}
		nets := make([]*config.Network, 0, len(names))
		for _, name := range names {
			n, err := lookupNetwork(name)
			if err != nil {
				return err
			}
			nets = append(nets, n)
		}

		results := make([]chain.Endpoint, len(nets))
		log := zerolog.Ctx(cmd.Context())
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(pingConcurrency)
		for i, n := range nets {
			if n.URL == "" {
				continue
			}
			g.Go(func() error {
				results[i] = chain.Ping(ctx, n.URL, config.RPCPingTimeout)
				log.Debug().Str("network", n.Name).Dur("latency", results[i].Latency).Err(results[i].Err).Msg("ping")
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderPing(nets, results))
		return nil
	},
}

func renderPing(nets []*config.Network, results []chain.Endpoint) string {
	t := ui.NewTable([]ui.Column{
		{Title: "Name", Width: 12},
		{Title: "Status", Width: 16},
		{Title: "Latency", Width: 9},
		{Title: "Chain ID", Width: 10},
		{Title: "Block", Width: 10},
	})
	for i, n := range nets {
		ep := results[i]
		status, latency, id, block := "", "—", "—", "—"
		switch {
		case n.URL == "":
			status = ui.Warn("no url")
		case ep.Err != nil:
			status = ui.Err("unreachable")
			latency = ep.Latency.Round(time.Millisecond).String()
		case ep.ChainID != n.ChainID:
			status = ui.Warn(fmt.Sprintf("chain %d", ep.ChainID))
		default:
			status = ui.Success("ok")
		}
		if ep.Healthy {
			latency = ep.Latency.Round(time.Millisecond).String()
			id = strconv.FormatInt(ep.ChainID, 10)
			block = strconv.FormatUint(ep.BlockNumber, 10)
		}
		t.AddRow(ui.Row{ui.NetworkName(n.Name), status, latency, id, block})
	}
	return t.Render()
}

func init() {
	networksCmd.AddCommand(networksListCmd, networksPingCmd)
}
