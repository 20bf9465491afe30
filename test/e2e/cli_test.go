package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary before all E2E tests.
	tmp, err := os.MkdirTemp("", "w3deploy-e2e-test")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(tmp, "w3deploy")
	// Build from the module root (two levels up from test/e2e/).
	moduleRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		panic(err)
	}
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = moduleRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

// runCLI runs the binary in projectDir with the deploy-related environment
// cleared, plus extra KEY=value pairs.
func runCLI(t *testing.T, projectDir string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = projectDir
	cmd.Env = append(os.Environ(), "SEPOLIA_RPC_URL=", "PRIVATE_KEY=", "W3DEPLOY_CONFIG=", "NO_COLOR=1")
	cmd.Env = append(cmd.Env, env...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestVersionFlag(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), nil, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "w3deploy")
}

func TestHelpCommand(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), nil, "--help")
	require.NoError(t, err)
	for _, c := range []string{"deploy", "networks", "accounts", "deployments", "key", "init", "config"} {
		assert.Contains(t, out, c)
	}
	assert.Contains(t, out, "--network")
}

func TestInitAndConfigShow(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, nil, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "w3deploy.yaml")

	out, err = runCLI(t, dir, nil, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "defaultNetwork: hardhat")
	assert.Contains(t, out, "chainId: 5")
}

func TestNetworkList(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), nil, "networks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "hardhat")
	assert.Contains(t, out, "sepolia")
}

func TestEnvironmentOverridesDefaultNetwork(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), []string{"W3DEPLOY_DEFAULTNETWORK=sepolia"}, "networks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "sepolia *")
}

func TestAccountsDevelopment(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), nil, "accounts")
	require.NoError(t, err)
	assert.Contains(t, out, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
}

func TestDeployUnknownNetworkFails(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), nil, "deploy", "--network", "mainnet")
	assert.Error(t, err)
	assert.Contains(t, out, "unknown network")
}

func TestDeployUnreachableNodeFails(t *testing.T) {
	env := []string{"W3DEPLOY_NETWORKS_HARDHAT_URL=http://127.0.0.1:1"}
	out, err := runCLI(t, t.TempDir(), env, "deploy")
	assert.Error(t, err)
	assert.Contains(t, out, "hardhat")
}

func TestDeployLiveWithoutURLFails(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), nil, "deploy", "--network", "sepolia", "--yes")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(out), "no rpc url")
}

func TestUnknownCommandShowsError(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), nil, "frobnicate")
	assert.Error(t, err)
}
