package config

// Config is the project configuration: target networks, compiler version and
// the named account roles shared by every deploy script.
type Config struct {
	DefaultNetwork string                  `json:"defaultNetwork" mapstructure:"defaultNetwork" yaml:"defaultNetwork"`
	Networks       map[string]*Network     `json:"networks"       mapstructure:"networks"       yaml:"networks"`
	Solidity       string                  `json:"solidity"       mapstructure:"solidity"       yaml:"solidity"`
	NamedAccounts  map[string]NamedAccount `json:"namedAccounts"  mapstructure:"namedAccounts"  yaml:"namedAccounts"`
	Paths          Paths                   `json:"paths"          mapstructure:"paths"          yaml:"paths"`

	// internal: file the config was read from, empty for built-in defaults
	source string
}

// Network is one deploy target.
type Network struct {
	Name               string   `json:"-"                  mapstructure:"-"                  yaml:"-"`
	ChainID            int64    `json:"chainId"            mapstructure:"chainId"            yaml:"chainId"`
	BlockConfirmations uint64   `json:"blockConfirmations" mapstructure:"blockConfirmations" yaml:"blockConfirmations"`
	URL                string   `json:"url,omitempty"      mapstructure:"url"                yaml:"url,omitempty"`
	Accounts           []string `json:"accounts,omitempty" mapstructure:"accounts"           yaml:"accounts,omitempty"`
	Live               bool     `json:"live"               mapstructure:"live"               yaml:"live"`
	SaveDeployments    bool     `json:"saveDeployments"    mapstructure:"saveDeployments"    yaml:"saveDeployments"`
}

// NamedAccount maps a role ("deployer", "player") to an index into the
// signer list of the selected network.
type NamedAccount struct {
	Default  int            `json:"default"            mapstructure:"default"  yaml:"default"`
	Networks map[string]int `json:"networks,omitempty" mapstructure:"networks" yaml:"networks,omitempty"`
}

// IndexFor returns the signer index for network, falling back to Default.
func (a NamedAccount) IndexFor(network string) int {
	if i, ok := a.Networks[network]; ok {
		return i
	}
	return a.Default
}

// Paths locates compiled artifacts and saved deployments.
type Paths struct {
	Artifacts   string `json:"artifacts"   mapstructure:"artifacts"   yaml:"artifacts"`
	Deployments string `json:"deployments" mapstructure:"deployments" yaml:"deployments"`
}
