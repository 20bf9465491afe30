package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Mohsinsiddi/w3deploy/internal/config"
	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/Mohsinsiddi/w3deploy/internal/wallet"
)

// networkName returns --network or the configured default.
func networkName() string {
	if networkFlag != "" {
		return networkFlag
	}
	return cfg.DefaultNetwork
}

// lookupNetwork returns the named network without requiring an RPC url, for
// commands that never dial.
func lookupNetwork(name string) (*config.Network, error) {
	name = config.NetworkKey(name)
	n, ok := cfg.Networks[name]
	if !ok || n == nil {
		return nil, fmt.Errorf("%w: %q (known: %s)", config.ErrUnknownNetwork, name, strings.Join(cfg.NetworkNames(), ", "))
	}
	out := *n
	out.Name = name
	return &out, nil
}

// keystoreFor opens the OS keychain only when an account entry needs it.
func keystoreFor(accounts []string) wallet.KeyStore {
	for _, a := range accounts {
		if strings.HasPrefix(strings.TrimSpace(a), wallet.KeyringPrefix) {
			return keystore()
		}
	}
	return nil
}

// redactURL keeps the scheme and host of an RPC url; paths and queries
// often carry API keys.
func redactURL(raw string) string {
	if raw == "" {
		return "—"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "(invalid url)"
	}
	if u.Path == "" || u.Path == "/" {
		if u.RawQuery == "" && u.User == nil {
			return u.Scheme + "://" + u.Host
		}
	}
	return u.Scheme + "://" + u.Host + "/…"
}

// maskAccount hides private keys in an accounts entry.
func maskAccount(entry string) string {
	entry = strings.TrimSpace(entry)
	switch {
	case entry == "":
		return "(unset)"
	case strings.HasPrefix(entry, wallet.KeyringPrefix):
		return entry
	case strings.HasPrefix(entry, "${"):
		return entry
	default:
		return "(private key)"
	}
}

func errorLine(err error) string {
	msg := ui.Err(err.Error())
	switch {
	case errors.Is(err, config.ErrMissingURL):
		msg += "\n" + ui.Hint("set the network's url in w3deploy.yaml or export the variable it references")
	case errors.Is(err, wallet.ErrNoAccounts):
		msg += "\n" + ui.Hint("set PRIVATE_KEY or add keyring:<name> to the network's accounts (see `w3deploy key import`)")
	case errors.Is(err, config.ErrUnknownNetwork):
		msg += "\n" + ui.Hint("run `w3deploy networks list` to see configured networks")
	}
	return msg
}
