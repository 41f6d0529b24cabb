package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reprise/internal/invocation"
)

func newDueCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "due <call-type>",
		Short: "Preview the artists the next refresh pass would invoke",
		Long: "Preview the artists the next refresh pass would invoke for an " +
			"artist-scheduled call type (artist.getInfo, artist.getSimilar, " +
			"or artist.getTopTracks).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callType, ok := invocation.ParseCallType(args[0])
			if !ok {
				return fmt.Errorf("unknown call type %q", args[0])
			}
			switch callType {
			case invocation.ArtistGetInfo, invocation.ArtistGetSimilar, invocation.ArtistGetTopTracks:
			default:
				return fmt.Errorf("call type %q has no artist worklist", callType)
			}

			return ctx.withStores(func(st stores) error {
				artists, err := st.history.ArtistsDueForRefresh(cmd.Context(), callType)
				if err != nil {
					return err
				}

				stdout := cmd.OutOrStdout()
				if len(artists) == 0 {
					fmt.Fprintf(stdout, "Nothing due for %s\n", callType)
					return nil
				}

				rows := make([][]string, 0, len(artists))
				for _, artist := range artists {
					rows = append(rows, []string{
						strconv.FormatInt(artist.ID, 10),
						artist.Name,
					})
				}
				table := renderTable(
					[]string{"ID", "Artist"},
					rows,
					[]columnAlignment{alignRight, alignLeft},
				)
				fmt.Fprintln(stdout, table)
				fmt.Fprintf(stdout, "%d artists due for %s\n", len(artists), callType)
				return nil
			})
		},
	}
}
