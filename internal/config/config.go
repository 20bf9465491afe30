package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the project config file looked up in the working directory.
const FileName = configName + ".yaml"

const (
	configName = "w3deploy"
	envPrefix  = "W3DEPLOY"

	defaultSolidity    = "0.8.18"
	defaultArtifacts   = "artifacts"
	defaultDeployments = "deployments"
	localRPC           = "http://127.0.0.1:8545"
)

// Errors surfaced when a network is selected at run start.
var (
	ErrUnknownNetwork = errors.New("unknown network")
	ErrMissingURL     = errors.New("network has no RPC url")
	ErrInvalidChainID = errors.New("network has no valid chainId")
)

// Default returns the built-in project configuration.
func Default() *Config {
	return &Config{
		DefaultNetwork: NetworkHardhat,
		Networks: map[string]*Network{
			NetworkHardhat: {
				Name:               NetworkHardhat,
				ChainID:            31337,
				BlockConfirmations: 1,
				URL:                localRPC,
			},
			NetworkSepolia: {
				Name:               NetworkSepolia,
				ChainID:            5,
				BlockConfirmations: 3,
				URL:                "${SEPOLIA_RPC_URL}",
				Accounts:           []string{"${PRIVATE_KEY}"},
				Live:               true,
				SaveDeployments:    true,
			},
		},
		Solidity: defaultSolidity,
		NamedAccounts: map[string]NamedAccount{
			RoleDeployer: {Default: 0},
			RolePlayer:   {Default: 1},
		},
		Paths: Paths{
			Artifacts:   defaultArtifacts,
			Deployments: defaultDeployments,
		},
	}
}

// Load reads the project config. An explicit path must exist; with an empty
// path ./w3deploy.yaml is used when present and the built-in defaults
// otherwise. W3DEPLOY_* environment variables override both, and ${VAR}
// references in network urls and accounts are expanded.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.source = v.ConfigFileUsed()

	for name, n := range cfg.Networks {
		if n == nil {
			n = &Network{}
			cfg.Networks[name] = n
		}
		n.Name = name
		n.URL = os.ExpandEnv(n.URL)
		for i, a := range n.Accounts {
			n.Accounts[i] = os.ExpandEnv(a)
		}
	}
	return cfg, nil
}

// Network returns the named network, checking that it can actually be used.
func (c *Config) Network(name string) (*Network, error) {
	if name == "" {
		name = c.DefaultNetwork
	}
	name = NetworkKey(name)
	n, ok := c.Networks[name]
	if !ok || n == nil {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownNetwork, name, strings.Join(c.NetworkNames(), ", "))
	}
	if n.ChainID <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidChainID, name)
	}
	if strings.TrimSpace(n.URL) == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingURL, name)
	}
	out := *n
	out.Name = name
	out.Accounts = append([]string(nil), n.Accounts...)
	return &out, nil
}

// NetworkKey normalises a network name the way config keys are stored:
// viper lowercases map keys, so "Anvil" in a file is held as "anvil".
func NetworkKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NetworkNames returns the configured network names, sorted.
func (c *Config) NetworkNames() []string {
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Roles returns the named account roles, sorted.
func (c *Config) Roles() []string {
	roles := make([]string, 0, len(c.NamedAccounts))
	for r := range c.NamedAccounts {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}

// Source returns the file the config was loaded from, or "" for defaults.
func (c *Config) Source() string {
	return c.source
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// --- helpers ---

// setDefaults registers every leaf of d so that a config file or the
// environment can override single keys without dropping the rest.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("defaultNetwork", d.DefaultNetwork)
	v.SetDefault("solidity", d.Solidity)
	v.SetDefault("paths.artifacts", d.Paths.Artifacts)
	v.SetDefault("paths.deployments", d.Paths.Deployments)

	for name, n := range d.Networks {
		prefix := "networks." + name + "."
		v.SetDefault(prefix+"chainId", n.ChainID)
		v.SetDefault(prefix+"blockConfirmations", n.BlockConfirmations)
		v.SetDefault(prefix+"url", n.URL)
		v.SetDefault(prefix+"accounts", n.Accounts)
		v.SetDefault(prefix+"live", n.Live)
		v.SetDefault(prefix+"saveDeployments", n.SaveDeployments)
	}
	for role, a := range d.NamedAccounts {
		v.SetDefault("namedAccounts."+role+".default", a.Default)
	}
}
