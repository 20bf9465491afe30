package contract

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"golang.org/x/crypto/sha3"
)

// Errors returned by artifact lookup.
var (
	ErrArtifactNotFound  = errors.New("artifact not found")
	ErrAmbiguousArtifact = errors.New("artifact name is ambiguous")
)

// ABIEntry is one ABI entry (function, event, constructor...).
type ABIEntry struct {
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Inputs          []ABIParam `json:"inputs"`
	Outputs         []ABIParam `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
}

// ABIParam is a parameter in an ABI entry.
type ABIParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Artifact is a compiled contract: its ABI and deployment bytecode.
type Artifact struct {
	ContractName string
	Path         string
	ABI          []ABIEntry
	RawABI       json.RawMessage
	Bytecode     []byte
}

// FindArtifact locates <name>.json below dir. Both the Hardhat layout
// (artifacts/contracts/Raffle.sol/Raffle.json) and the Foundry layout
// (out/Raffle.sol/Raffle.json) match; Hardhat debug files and build-info
// are skipped. name may also be qualified as "Raffle.sol:Raffle".
func FindArtifact(dir, name string) (string, error) {
	source, contractName, qualified := strings.Cut(name, ":")
	if !qualified {
		contractName = name
	}
	want := contractName + ".json"

	var matches []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != want {
			return nil
		}
		if qualified && filepath.Base(filepath.Dir(path)) != source {
			return nil
		}
		matches = append(matches, path)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s (artifacts dir %s does not exist — compile the contracts first)", ErrArtifactNotFound, name, dir)
	}
	if err != nil {
		return "", fmt.Errorf("searching artifacts: %w", err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s in %s", ErrArtifactNotFound, name, dir)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %s — use the qualified form Source.sol:%s",
			ErrAmbiguousArtifact, name, strings.Join(matches, ", "), contractName)
	}
}

// LoadArtifact loads both the ABI and the deployment bytecode from a
// Hardhat or Foundry artifact JSON file. It returns an error if:
//   - the file is not a valid artifact (no "abi" key)
//   - the artifact contains no bytecode (interface or abstract contract)
//   - the bytecode still has unlinked library placeholders
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read artifact file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("artifact file is empty: %s", path)
	}

	var raw struct {
		ContractName string          `json:"contractName"`
		ABI          json.RawMessage `json:"abi"`
		Bytecode     json.RawMessage `json:"bytecode"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid artifact JSON: %w", err)
	}

	abiJSON := bytes.TrimSpace(raw.ABI)
	if len(abiJSON) < 2 || abiJSON[0] != '[' {
		return nil, fmt.Errorf("artifact has no valid \"abi\" array: %s", path)
	}
	var entries []ABIEntry
	if err := json.Unmarshal(abiJSON, &entries); err != nil {
		return nil, fmt.Errorf("parsing artifact ABI: %w", err)
	}

	if len(raw.Bytecode) == 0 {
		return nil, fmt.Errorf("artifact has no bytecode — cannot deploy an interface or abstract contract: %s", path)
	}
	bcHex, err := extractBytecodeHex(raw.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("extracting bytecode from artifact: %w", err)
	}
	bcHex = strings.TrimPrefix(bcHex, "0x")
	if bcHex == "" {
		return nil, fmt.Errorf("artifact bytecode is empty — cannot deploy an interface or abstract contract: %s", path)
	}
	if strings.Contains(bcHex, "__") {
		return nil, fmt.Errorf("artifact bytecode has unlinked library placeholders: %s", path)
	}
	bc, err := hex.DecodeString(bcHex)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode hex in artifact: %w", err)
	}

	name := raw.ContractName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return &Artifact{
		ContractName: name,
		Path:         path,
		ABI:          entries,
		RawABI:       abiJSON,
		Bytecode:     bc,
	}, nil
}

// Constructor returns the constructor entry, or nil if the contract has
// none.
func (a *Artifact) Constructor() *ABIEntry {
	for i := range a.ABI {
		if a.ABI[i].Type == "constructor" {
			return &a.ABI[i]
		}
	}
	return nil
}

// DeployData returns the creation code: bytecode followed by the
// ABI-encoded constructor arguments.
func (a *Artifact) DeployData(args []any) ([]byte, error) {
	parsed, err := abi.JSON(bytes.NewReader(a.RawABI))
	if err != nil {
		return nil, fmt.Errorf("parsing ABI of %s: %w", a.ContractName, err)
	}
	packed, err := parsed.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("encoding constructor args of %s: %w", a.ContractName, err)
	}
	out := make([]byte, 0, len(a.Bytecode)+len(packed))
	out = append(out, a.Bytecode...)
	return append(out, packed...), nil
}

// BytecodeHash returns the 0x-prefixed keccak256 of the bytecode.
func (a *Artifact) BytecodeHash() string {
	h := sha3.NewLegacyKeccak256()
	h.Write(a.Bytecode)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// extractBytecodeHex handles the two common artifact formats:
//   - Hardhat:  "bytecode": "0x608060..."          (JSON string)
//   - Foundry:  "bytecode": {"object": "0x608060..."} (JSON object)
func extractBytecodeHex(raw json.RawMessage) (string, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str), nil
	}

	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Object != "" {
		return strings.TrimSpace(obj.Object), nil
	}

	return "", fmt.Errorf("bytecode field is neither a hex string nor a {\"object\":\"0x...\"} object")
}
