package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reprise/internal/invocation"
	"reprise/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show system, library, and invocation history status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withStores(func(st stores) error {
				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)

				for _, line := range renderSectionHeader("System Status", colorize) {
					fmt.Fprintln(stdout, line)
				}
				for _, result := range preflight.RunAll(cmd.Context(), st.cfg) {
					kind := statusError
					if result.Passed {
						kind = statusOK
					}
					fmt.Fprintln(stdout, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}
				fmt.Fprintln(stdout)

				for _, line := range renderSectionHeader("Library", colorize) {
					fmt.Fprintln(stdout, line)
				}
				stats, err := st.library.Stats(cmd.Context())
				if err != nil {
					return err
				}
				libraryTable := renderTable(
					[]string{"Entity", "Count"},
					[][]string{
						{"Artists", strconv.Itoa(stats.Artists)},
						{"Albums", strconv.Itoa(stats.Albums)},
						{"Tracks", strconv.Itoa(stats.Tracks)},
						{"Files", strconv.Itoa(stats.Files)},
					},
					[]columnAlignment{alignLeft, alignRight},
				)
				fmt.Fprintln(stdout, libraryTable)
				fmt.Fprintln(stdout)

				for _, line := range renderSectionHeader("Invocation History", colorize) {
					fmt.Fprintln(stdout, line)
				}
				counts, err := st.history.CountByCallType(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(counts))
				for _, callType := range invocation.AllCallTypes() {
					rows = append(rows, []string{
						callType.String(),
						strconv.Itoa(counts[callType]),
					})
				}
				historyTable := renderTable(
					[]string{"Call Type", "Tracked"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				)
				fmt.Fprintln(stdout, historyTable)
				return nil
			})
		},
	}
}
