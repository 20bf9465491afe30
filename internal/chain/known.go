package chain

import "strings"

// Known holds display metadata for a public chain.
type Known struct {
	Name     string
	Explorer string // empty for local chains
}

var knownChains = map[int64]Known{
	1:        {Name: "Ethereum", Explorer: "https://etherscan.io"},
	5:        {Name: "Goerli", Explorer: "https://goerli.etherscan.io"},
	17000:    {Name: "Holesky", Explorer: "https://holesky.etherscan.io"},
	11155111: {Name: "Sepolia", Explorer: "https://sepolia.etherscan.io"},
	31337:    {Name: "Hardhat"},
}

// Lookup returns metadata for chain id.
func Lookup(id int64) (Known, bool) {
	k, ok := knownChains[id]
	return k, ok
}

// TxURL returns the explorer link for a transaction, or "" when the chain
// has no known explorer.
func TxURL(id int64, hash string) string {
	k, ok := knownChains[id]
	if !ok || k.Explorer == "" {
		return ""
	}
	return strings.TrimSuffix(k.Explorer, "/") + "/tx/" + hash
}

// AddressURL returns the explorer link for an address, or "".
func AddressURL(id int64, addr string) string {
	k, ok := knownChains[id]
	if !ok || k.Explorer == "" {
		return ""
	}
	return strings.TrimSuffix(k.Explorer, "/") + "/address/" + addr
}
