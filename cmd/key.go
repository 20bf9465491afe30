package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/Mohsinsiddi/w3deploy/internal/wallet"
	"github.com/spf13/cobra"
)

var (
	keyFlag  string
	keyRmYes bool
	keystore = func() wallet.KeyStore { return wallet.DefaultKeystore() }
	errNoKey = errors.New("no private key given")
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage deployer keys in the OS keychain",
	Long: `Store private keys in the OS keychain instead of environment variables.

A stored key is referenced from a network's accounts as keyring:<name>:

  networks:
    sepolia:
      accounts: ["keyring:deployer"]`,
}

var keyImportCmd = &cobra.Command{
	Use:   "import <name>",
	Short: "Store a private key in the keychain",
	Long: `Store a private key in the keychain under <name>.

The key is read from --key or, when omitted, from the first line of stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		out := cmd.OutOrStdout()

		hexKey := keyFlag
		if hexKey == "" {
			fmt.Fprint(cmd.ErrOrStderr(), ui.Meta("Private key: "))
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			hexKey = strings.TrimSpace(line)
		}
		if hexKey == "" {
			return errNoKey
		}
		s, err := wallet.NewSigner(hexKey)
		if err != nil {
			return err
		}
		if _, err := keystore().Store(name, hexKey); err != nil {
			return err
		}

		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Key %q stored: %s", name, ui.Addr(s.Address().Hex()))))
		fmt.Fprintln(out, ui.Hint(fmt.Sprintf("Reference it in accounts as %s%s", wallet.KeyringPrefix, name)))
		return nil
	},
}

var keyRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a private key from the keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		out := cmd.OutOrStdout()
		if !keyRmYes && !ui.Confirm(cmd.InOrStdin(), out, fmt.Sprintf("Remove key %q?", name)) {
			fmt.Fprintln(out, ui.Meta("Cancelled."))
			return nil
		}
		if err := keystore().Delete(wallet.RefFor(name)); err != nil {
			return fmt.Errorf("removing key %q: %w", name, err)
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Key %q removed.", name)))
		return nil
	},
}

func init() {
	keyImportCmd.Flags().StringVar(&keyFlag, "key", "", "hex private key (prefer stdin, flags end up in shell history)")
	keyRemoveCmd.Flags().BoolVarP(&keyRmYes, "yes", "y", false, "skip confirmation")
	keyCmd.AddCommand(keyImportCmd, keyRemoveCmd)
}
