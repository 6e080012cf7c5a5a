package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/certledger-go/ledger"
)

const listTimeLayout = "2006-01-02 15:04:05"

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registered certificates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := ctx.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer ctx.close()

			entries, err := l.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list failed: %w", err)
			}
			sortEntries(entries)

			if ctx.flags.json {
				if entries == nil {
					entries = []ledger.Entry{}
				}
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No certificates registered")
				return nil
			}
			if !isTerminal(out) {
				for _, e := range entries {
					fmt.Fprintf(out, "%s\t%s\t%d\n", e.Hash, e.Certificate.Owner, e.Certificate.Timestamp)
				}
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Hash, e.Certificate.Owner, e.Certificate.Time().Format(listTimeLayout)})
			}
			fmt.Fprintln(out, renderTable([]string{"Hash", "Owner", "Registered (UTC)"}, rows, nil))
			return nil
		},
	}
}

// sortEntries orders by registration time, then hash.
func sortEntries(entries []ledger.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Certificate, entries[j].Certificate
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return entries[i].Hash < entries[j].Hash
	})
}
