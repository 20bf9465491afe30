package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Mohsinsiddi/w3deploy/internal/config"
	"github.com/Mohsinsiddi/w3deploy/internal/logger"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/w3deploy/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgPath     string
	cfg         *config.Config
	verbose     bool
	networkFlag string
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "w3deploy",
	Short: "Deploy contracts to EVM networks",
	Long: `w3deploy runs the project's deploy scripts against a configured network.

  Networks, compiler version and named accounts are read from ./w3deploy.yaml
  (or --config). Without a file the built-in defaults are used: a local
  hardhat node on 127.0.0.1:8545 and sepolia via $SEPOLIA_RPC_URL and
  $PRIVATE_KEY.

Any key can be overridden with a W3DEPLOY_ environment variable, e.g.
W3DEPLOY_DEFAULTNETWORK=sepolia.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l := logger.Init(verbose)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(l.WithContext(ctx))

		// Load config (skip for commands that don't need it). init writes
		// the file, so it must work when the file is missing or broken.
		switch cmd.Name() {
		case "help", "completion", "init":
			return nil
		}
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		l.Debug().Str("source", cfg.Source()).Msg("config loaded")
		return nil
	},
}

// Execute runs the root command. SIGINT cancels the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		stop()
		os.Exit(1)
	}
}

func init() {
	// W3DEPLOY_CONFIG env var is the default for --config.
	if env := os.Getenv("W3DEPLOY_CONFIG"); env != "" {
		cfgPath = env
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", cfgPath, "config file (default: ./w3deploy.yaml)")
	rootCmd.PersistentFlags().StringVarP(&networkFlag, "network", "n", "", "network to use, case-insensitive (default: defaultNetwork from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Register all sub-commands.
	rootCmd.AddCommand(
		initCmd,
		deployCmd,
		networksCmd,
		accountsCmd,
		deploymentsCmd,
		keyCmd,
		configCmd,
	)
}
