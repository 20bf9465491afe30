package cmd

import (
	"fmt"
	"os"

	"github.com/Mohsinsiddi/w3deploy/internal/config"
	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a w3deploy.yaml with the default configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		path := cfgPath
		if path == "" {
			path = config.FileName
		}
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success("Wrote "+path))
		fmt.Fprintln(out, ui.Hint("export SEPOLIA_RPC_URL and PRIVATE_KEY, then run `w3deploy deploy --network sepolia`"))
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
}
