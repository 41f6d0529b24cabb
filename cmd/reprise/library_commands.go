package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Local library maintenance",
	}

	libraryCmd.AddCommand(newLibraryAddCommand(ctx))
	return libraryCmd
}

func newLibraryAddCommand(ctx *commandContext) *cobra.Command {
	var albumFlag string
	var trackFlag string
	var fileFlag string

	cmd := &cobra.Command{
		Use:   "add <artist>",
		Short: "Add an artist, and optionally an album, track, or file, to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			artist := strings.TrimSpace(args[0])
			if artist == "" {
				return fmt.Errorf("artist name is required")
			}
			album := strings.TrimSpace(albumFlag)
			track := strings.TrimSpace(trackFlag)
			file := strings.TrimSpace(fileFlag)
			if file != "" && track == "" {
				return fmt.Errorf("--file requires --track")
			}

			return ctx.withStores(func(st stores) error {
				stdout := cmd.OutOrStdout()

				a, err := st.library.EnsureArtist(cmd.Context(), artist)
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "Artist %s (#%d)\n", a.Name, a.ID)

				if album != "" {
					al, err := st.library.EnsureAlbum(cmd.Context(), artist, album)
					if err != nil {
						return err
					}
					fmt.Fprintf(stdout, "Album %s (#%d)\n", al.Name, al.ID)
				}

				if track != "" {
					if file != "" {
						f, err := st.library.AddFile(cmd.Context(), artist, track, file)
						if err != nil {
							return err
						}
						fmt.Fprintf(stdout, "Track %s with file %s (#%d)\n", track, f.Path, f.ID)
					} else {
						tr, err := st.library.EnsureTrack(cmd.Context(), artist, track)
						if err != nil {
							return err
						}
						fmt.Fprintf(stdout, "Track %s (#%d)\n", tr.Name, tr.ID)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&albumFlag, "album", "", "Album name to register under the artist")
	cmd.Flags().StringVar(&trackFlag, "track", "", "Track name to register under the artist")
	cmd.Flags().StringVar(&fileFlag, "file", "", "Local file path backing the track (requires --track)")
	return cmd
}
