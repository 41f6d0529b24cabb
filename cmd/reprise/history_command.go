package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var artistFlag string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded invocations for an artist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			artist := strings.TrimSpace(artistFlag)
			if artist == "" {
				return fmt.Errorf("artist name is required")
			}

			return ctx.withStores(func(st stores) error {
				entries, err := st.history.ArtistHistory(cmd.Context(), artist)
				if err != nil {
					return err
				}

				stdout := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintf(stdout, "No invocations recorded for %s\n", artist)
					return nil
				}

				now := time.Now().UTC()
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.CallType.String(),
						entry.Target,
						entry.InvokedAt.Format("2006-01-02 15:04:05"),
						yesNo(entry.Quarantined(now)),
					})
				}
				table := renderTable(
					[]string{"Call Type", "Target", "Invoked At (UTC)", "Quarantined"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(stdout, table)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&artistFlag, "artist", "a", "", "Artist name to inspect")
	_ = cmd.MarkFlagRequired("artist")
	return cmd
}
