// check-deployer: resolves the deployer account of every configured network
// and prints its native balance, so an underfunded deployer shows up before
// a deployment is attempted.
//
// Run from the project root (reads ./w3deploy.yaml when present):
//
//	go run github.com/Mohsinsiddi/w3deploy/scripts/check-deployer
package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/Mohsinsiddi/w3deploy/internal/chain"
	"github.com/Mohsinsiddi/w3deploy/internal/config"
	"github.com/Mohsinsiddi/w3deploy/internal/wallet"
)

const rpcTimeout = 12 * time.Second

type result struct {
	network  string
	deployer string
	balance  string
	note     string
}

func main() {
	cfg, err := config.Load(os.Getenv("W3DEPLOY_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	names := cfg.NetworkNames()
	results := make([]result, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = check(cfg, name)
		}()
	}
	wg.Wait()

	printTable(results)
}

func check(cfg *config.Config, name string) result {
	r := result{network: name, deployer: "—", balance: "—"}

	n, err := cfg.Network(name)
	if err != nil {
		r.note = shortErr(err)
		return r
	}
	// Only hex keys are resolved here; keyring entries would prompt.
	var accounts []string
	for _, a := range n.Accounts {
		if !strings.HasPrefix(a, wallet.KeyringPrefix) {
			accounts = append(accounts, a)
		}
	}
	signers, err := wallet.SignersFor(accounts, n.Live, nil)
	if err != nil {
		r.note = shortErr(err)
		return r
	}
	s, err := signers.At(cfg.NamedAccounts[config.RoleDeployer].IndexFor(name))
	if err != nil {
		r.note = shortErr(err)
		return r
	}
	r.deployer = shortAddr(s.Address().Hex())

	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()

	client, err := chain.Dial(ctx, n.URL)
	if err != nil {
		r.note = "unreachable"
		return r
	}
	defer client.Close()

	if _, err := chain.VerifyChainID(ctx, client, n.ChainID); err != nil {
		r.note = shortErr(err)
		return r
	}
	wei, err := client.BalanceAt(ctx, s.Address(), nil)
	if err != nil {
		r.note = shortErr(err)
		return r
	}
	r.balance = trimZeros(formatEther(wei))
	if wei.Sign() == 0 {
		r.note = "unfunded"
	}
	return r
}

func printTable(results []result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NETWORK\tDEPLOYER\tBALANCE\tNOTE")
	fmt.Fprintln(w, strings.Repeat("-", 10)+"\t"+
		strings.Repeat("-", 14)+"\t"+
		strings.Repeat("-", 24)+"\t"+
		strings.Repeat("-", 12))
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.network, r.deployer, r.balance, r.note)
	}
	w.Flush()
}

func formatEther(wei *big.Int) string {
	return new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18)).Text('f', 18)
}

func shortAddr(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

func shortErr(err error) string {
	s := err.Error()
	if len(s) > 40 {
		return s[:40] + "…"
	}
	return s
}

// trimZeros removes trailing zeros after decimal: "0.050000000000000000" → "0.05"
func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
