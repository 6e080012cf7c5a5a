package main

import (
	"github.com/spf13/cobra"
)

// rootFlags holds the persistent flag values.
type rootFlags struct {
	configPath string
	dataDir    string
	backend    string
	host       string
	canisterID string
	logLevel   string
	json       bool
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "certledger",
		Short:         "Verify and register document certificates",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path (default <data-dir>/config.toml)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "Data directory (default ~/.certledger)")
	pf.StringVar(&flags.backend, "backend", "", "Ledger backend: memory, bolt, postgres or rpc")
	pf.StringVar(&flags.host, "host", "", "Replica host for the rpc backend")
	pf.StringVar(&flags.canisterID, "canister-id", "", "Certificate canister ID for the rpc backend")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.BoolVar(&flags.json, "json", false, "Write machine-readable JSON output")

	rootCmd.AddCommand(newHashCommand(ctx))
	rootCmd.AddCommand(newVerifyCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newStoreCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newIdentityCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
