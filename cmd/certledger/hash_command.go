package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/certledger-go/digest"
)

type hashOutput struct {
	File string `json:"file"`
	Hash string `json:"hash"`
}

func newHashCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "hash FILE...",
		Short: "Print the certificate digest of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make([]hashOutput, 0, len(args))
			for _, path := range args {
				h, err := digest.FromFile(path)
				if err != nil {
					return err
				}
				out = append(out, hashOutput{File: path, Hash: h})
			}
			if ctx.flags.json {
				return writeJSON(cmd, out)
			}
			for _, o := range out {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", o.Hash, o.File)
			}
			return nil
		},
	}
}
