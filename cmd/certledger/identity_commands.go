package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/certledger-go/identity"
)

type identityOutput struct {
	Principal string `json:"principal"`
	PublicKey string `json:"public_key"`
	KeyFile   string `json:"key_file"`
}

func newIdentityCommand(ctx *commandContext) *cobra.Command {
	identityCmd := &cobra.Command{
		Use:   "identity",
		Short: "Manage the signing identity",
	}
	identityCmd.AddCommand(newIdentityNewCommand(ctx))
	identityCmd.AddCommand(newIdentityShowCommand(ctx))
	return identityCmd
}

func newIdentityNewCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new identity and encrypt it with " + envPassword,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.IdentityPath()
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("identity already exists at %s (use --force to replace it)", path)
				}
			}

			id, err := identity.Generate()
			if err != nil {
				return err
			}
			if err := identity.SaveKeyFile(path, id, os.Getenv(envPassword)); err != nil {
				return err
			}
			return printIdentity(cmd, ctx, id, path)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing identity")
	return cmd
}

func newIdentityShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the configured identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			id, err := ctx.loadIdentity(cfg)
			if err != nil {
				return err
			}
			if id == nil {
				return fmt.Errorf("no identity at %s; create one with `certledger identity new`", cfg.IdentityPath())
			}
			return printIdentity(cmd, ctx, id, cfg.IdentityPath())
		},
	}
}

func printIdentity(cmd *cobra.Command, ctx *commandContext, id *identity.Identity, path string) error {
	out := identityOutput{
		Principal: id.Principal().String(),
		PublicKey: id.PublicKeyHex(),
		KeyFile:   path,
	}
	if ctx.flags.json {
		return writeJSON(cmd, out)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Principal:  %s\n", out.Principal)
	fmt.Fprintf(w, "Public key: %s\n", out.PublicKey)
	fmt.Fprintf(w, "Key file:   %s\n", out.KeyFile)
	return nil
}
