package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// KeyringPrefix marks an accounts entry that names a key in the keychain,
// e.g. "keyring:deployer".
const KeyringPrefix = "keyring:"

// Errors.
var (
	ErrNoAccounts             = errors.New("no accounts configured")
	ErrAccountIndexOutOfRange = errors.New("account index out of range")
)

// Development keys of local Hardhat/Anvil nodes (default mnemonic, accounts
// #0 to #4). Publicly known: never fund them on a live chain.
var devKeys = []string{
	"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	"5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
	"7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6",
	"47e179ec197488593b187f80a00eb0da91f1b9d0b13f8733639f19c30a34926a",
}

// Set is the ordered signer list of a network. Named account indices point
// into it.
type Set []*Signer

// At returns the signer at index i.
func (s Set) At(i int) (*Signer, error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("%w: index %d, %d account(s) available", ErrAccountIndexOutOfRange, i, len(s))
	}
	return s[i], nil
}

// ByAddress finds the signer for addr.
func (s Set) ByAddress(addr common.Address) (*Signer, bool) {
	for _, sg := range s {
		if sg.Address() == addr {
			return sg, true
		}
	}
	return nil, false
}

// Addresses returns the signer addresses in order.
func (s Set) Addresses() []common.Address {
	out := make([]common.Address, len(s))
	for i, sg := range s {
		out[i] = sg.Address()
	}
	return out
}

// ParseAccounts turns a network's accounts entries into signers. Entries
// are hex private keys or keyring references; blank entries (an unset
// environment variable) are skipped.
func ParseAccounts(entries []string, ks KeyStore) (Set, error) {
	var out Set
	for i, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}

		hexKey := e
		if name, ok := strings.CutPrefix(e, KeyringPrefix); ok {
			if ks == nil {
				return nil, fmt.Errorf("account %d: keystore not available", i)
			}
			k, err := ks.Retrieve(RefFor(name))
			if err != nil {
				return nil, fmt.Errorf("account %d (%s): %w", i, e, err)
			}
			hexKey = k
		}

		s, err := NewSigner(hexKey)
		if err != nil {
			// never echo the entry itself, it may be a key
			return nil, fmt.Errorf("account %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// DevSigners returns the development accounts of a local node.
func DevSigners() Set {
	out := make(Set, 0, len(devKeys))
	for _, k := range devKeys {
		s, err := NewSigner(k)
		if err != nil {
			panic(err)
		}
		out = append(out, s)
	}
	return out
}

// SignersFor resolves the signer list of a network. Local networks without
// configured accounts use the development accounts.
func SignersFor(accounts []string, live bool, ks KeyStore) (Set, error) {
	set, err := ParseAccounts(accounts, ks)
	if err != nil {
		return nil, err
	}
	if len(set) > 0 {
		return set, nil
	}
	if live {
		return nil, ErrNoAccounts
	}
	return DevSigners(), nil
}
