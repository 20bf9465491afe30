package contract

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBytecode = "0x6080604052348015600f57600080fd5b50603f80601d6000396000f3fe"

func writeArtifact(t *testing.T, path string, artifact map[string]interface{}) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data, err := json.Marshal(artifact)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func raffleArtifact() map[string]interface{} {
	return map[string]interface{}{
		"contractName": "Raffle",
		"abi": []map[string]interface{}{
			{"type": "constructor", "inputs": []map[string]string{}, "stateMutability": "nonpayable"},
			{"name": "enterRaffle", "type": "function", "inputs": []map[string]string{}, "outputs": []map[string]string{}, "stateMutability": "payable"},
		},
		"bytecode": testBytecode,
	}
}

// ---------------------------------------------------------------------------
// FindArtifact
// ---------------------------------------------------------------------------

func TestFindArtifactHardhatLayout(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "contracts", "Raffle.sol", "Raffle.json")
	writeArtifact(t, want, raffleArtifact())
	writeArtifact(t, filepath.Join(dir, "contracts", "Raffle.sol", "Raffle.dbg.json"), map[string]interface{}{"buildInfo": "x"})
	writeArtifact(t, filepath.Join(dir, "build-info", "Raffle.json"), map[string]interface{}{})

	got, err := FindArtifact(dir, "Raffle")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindArtifactNotFound(t *testing.T) {
	_, err := FindArtifact(t.TempDir(), "Raffle")
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestFindArtifactMissingDir(t *testing.T) {
	_, err := FindArtifact(filepath.Join(t.TempDir(), "artifacts"), "Raffle")
	require.ErrorIs(t, err, ErrArtifactNotFound)
	assert.Contains(t, err.Error(), "compile")
}

func TestFindArtifactAmbiguousAndQualified(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "contracts", "Raffle.sol", "Raffle.json")
	b := filepath.Join(dir, "contracts", "test", "RaffleMock.sol", "Raffle.json")
	writeArtifact(t, a, raffleArtifact())
	writeArtifact(t, b, raffleArtifact())

	_, err := FindArtifact(dir, "Raffle")
	assert.ErrorIs(t, err, ErrAmbiguousArtifact)

	got, err := FindArtifact(dir, "Raffle.sol:Raffle")
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

// ---------------------------------------------------------------------------
// LoadArtifact
// ---------------------------------------------------------------------------

func TestLoadArtifactHardhat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Raffle.json")
	writeArtifact(t, path, raffleArtifact())

	a, err := LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, "Raffle", a.ContractName)
	assert.Len(t, a.ABI, 2)
	assert.NotNil(t, a.Constructor())

	want, _ := hex.DecodeString(testBytecode[2:])
	assert.Equal(t, want, a.Bytecode)
}

func TestLoadArtifactFoundry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Raffle.json")
	writeArtifact(t, path, map[string]interface{}{
		"abi":      []map[string]interface{}{{"name": "enterRaffle", "type": "function", "inputs": []map[string]string{}}},
		"bytecode": map[string]string{"object": testBytecode},
	})

	a, err := LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, "Raffle", a.ContractName, "name falls back to the file name")
	assert.Nil(t, a.Constructor())
	assert.NotEmpty(t, a.Bytecode)
}

func TestLoadArtifactErrors(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]map[string]interface{}{
		"no abi":         {"bytecode": testBytecode},
		"no bytecode":    {"abi": []interface{}{}},
		"empty bytecode": {"abi": []interface{}{}, "bytecode": "0x"},
		"unlinked":       {"abi": []interface{}{}, "bytecode": "0x6080__$abc$__6080"},
		"bad hex":        {"abi": []interface{}{}, "bytecode": "0xzz"},
	}
	for name, artifact := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			writeArtifact(t, path, artifact)
			_, err := LoadArtifact(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadArtifact(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// DeployData / BytecodeHash
// ---------------------------------------------------------------------------

func TestDeployDataNoArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Raffle.json")
	writeArtifact(t, path, raffleArtifact())
	a, err := LoadArtifact(path)
	require.NoError(t, err)

	data, err := a.DeployData(nil)
	require.NoError(t, err)
	assert.Equal(t, a.Bytecode, data)

	_, err = a.DeployData([]any{big.NewInt(1)})
	assert.Error(t, err, "argument count mismatch")
}

func TestDeployDataWithConstructorArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Raffle.json")
	artifact := raffleArtifact()
	artifact["abi"] = []map[string]interface{}{
		{"type": "constructor", "inputs": []map[string]string{{"name": "entranceFee", "type": "uint256"}}, "stateMutability": "nonpayable"},
	}
	writeArtifact(t, path, artifact)
	a, err := LoadArtifact(path)
	require.NoError(t, err)

	data, err := a.DeployData([]any{big.NewInt(7)})
	require.NoError(t, err)
	require.Len(t, data, len(a.Bytecode)+32)
	assert.Equal(t, byte(7), data[len(data)-1])
}

func TestBytecodeHash(t *testing.T) {
	a := &Artifact{Bytecode: nil}
	// keccak256 of empty input
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", a.BytecodeHash())

	b := &Artifact{Bytecode: []byte{1}}
	assert.NotEqual(t, a.BytecodeHash(), b.BytecodeHash())
}
