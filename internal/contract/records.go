package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrDeploymentNotFound is returned when no record exists for a contract.
var ErrDeploymentNotFound = errors.New("deployment not found")

const chainIDFile = ".chainId"

// Record is a saved deployment, one file per contract and network.
type Record struct {
	ContractName    string          `json:"contractName"`
	Address         common.Address  `json:"address"`
	ABI             json.RawMessage `json:"abi"`
	TransactionHash common.Hash     `json:"transactionHash"`
	Receipt         *ReceiptSummary `json:"receipt,omitempty"`
	Args            json.RawMessage `json:"args"`
	BytecodeHash    string          `json:"bytecodeHash"`
	Deployer        common.Address  `json:"deployer"`
	DeployedAt      string          `json:"deployedAt"`
	RunID           string          `json:"runId,omitempty"`
}

// ReceiptSummary keeps the receipt fields worth persisting.
type ReceiptSummary struct {
	BlockNumber uint64      `json:"blockNumber"`
	BlockHash   common.Hash `json:"blockHash"`
	GasUsed     uint64      `json:"gasUsed"`
	Status      uint64      `json:"status"`
}

// Store reads and writes the deployment records of one network under
// <root>/<network>/<ContractName>.json.
type Store struct {
	dir string
}

// NewStore creates a Store for network below root.
func NewStore(root, network string) *Store {
	return &Store{dir: filepath.Join(root, network)}
}

// Dir returns the network's deployments directory.
func (s *Store) Dir() string {
	return s.dir
}

// Get returns the record for name.
func (s *Store) Get(name string) (*Record, error) {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s in %s", ErrDeploymentNotFound, name, s.dir)
	}
	if err != nil {
		return nil, err
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing deployment %s: %w", name, err)
	}
	if r.ContractName == "" {
		r.ContractName = name
	}
	return &r, nil
}

// Save writes the record for r.ContractName.
func (s *Store) Save(r *Record) error {
	if r.ContractName == "" {
		return fmt.Errorf("deployment record has no contract name")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating deployments dir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(r.ContractName), data, 0o644)
}

// All returns every record of the network, sorted by contract name.
func (s *Store) All() ([]*Record, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []*Record
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		r, err := s.Get(strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContractName < out[j].ContractName })
	return out, nil
}

// SetChainID records which chain the directory belongs to.
func (s *Store) SetChainID(id int64) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating deployments dir: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, chainIDFile), []byte(strconv.FormatInt(id, 10)), 0o644)
}

// ChainID returns the recorded chain ID, or 0 if none was written.
func (s *Store) ChainID() (int64, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, chainIDFile))
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", chainIDFile, err)
	}
	return id, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}
