package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/certledger-go/digest"
	"github.com/bitfsorg/certledger-go/workflow"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var noRegister bool

	cmd := &cobra.Command{
		Use:   "verify FILE",
		Short: "Verify a document and register it if unknown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := ctx.newWorkflow(cmd, !noRegister)
			if err != nil {
				return err
			}
			defer ctx.close()

			res, err := wf.RunFile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("verification failed, please try again: %w", err)
			}
			return ctx.printResult(cmd, res)
		},
	}
	cmd.Flags().BoolVar(&noRegister, "no-register", false, "Do not register unknown documents")
	return cmd
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check HASH",
		Short: "Look up a digest without registering it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := ctx.newWorkflow(cmd, false)
			if err != nil {
				return err
			}
			defer ctx.close()

			res, err := wf.RunDigest(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("check failed: %w", err)
			}
			return ctx.printResult(cmd, res)
		},
	}
}

func newStoreCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "store HASH",
		Short: "Register a digest directly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := digest.Normalize(args[0])
			if err != nil {
				return err
			}
			l, err := ctx.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer ctx.close()

			if err := l.Store(cmd.Context(), hash); err != nil {
				return fmt.Errorf("store failed: %w", err)
			}
			if ctx.flags.json {
				return writeJSON(cmd, map[string]string{"hash": hash, "state": workflow.StateStored.String()})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s\n", hash)
			return nil
		},
	}
}

func (c *commandContext) newWorkflow(cmd *cobra.Command, autoRegister bool) (*workflow.Workflow, error) {
	l, err := c.openLedger(cmd.Context())
	if err != nil {
		return nil, err
	}
	return workflow.New(l,
		workflow.WithLogger(c.logger),
		workflow.WithAutoRegister(autoRegister && c.config.AutoRegister),
	), nil
}

func (c *commandContext) printResult(cmd *cobra.Command, res *workflow.Result) error {
	if c.flags.json {
		return writeJSON(cmd, res)
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

func printResult(w io.Writer, res *workflow.Result) {
	switch res.State {
	case workflow.StateFound:
		fmt.Fprintf(w, "Certificate found\n")
	case workflow.StateStored:
		fmt.Fprintf(w, "Certificate registered\n")
	case workflow.StateNotFound:
		fmt.Fprintf(w, "Certificate not found\n")
	default:
		fmt.Fprintf(w, "State: %s\n", res.State)
	}
	fmt.Fprintf(w, "  Hash:      %s\n", res.Hash)
	if cert := res.Certificate; cert != nil {
		fmt.Fprintf(w, "  Owner:     %s\n", cert.Owner)
		fmt.Fprintf(w, "  Timestamp: %s\n", cert.Time().Format("2006-01-02 15:04:05.000000000 UTC"))
	}
}
