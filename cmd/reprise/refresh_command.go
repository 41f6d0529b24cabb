package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reprise/internal/refresh"
)

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Run one refresh pass and report the outcome",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withStores(func(st stores) error {
				logger := fileLogger(st.cfg)
				service, err := buildService(st.cfg, st.history, logger)
				if err != nil {
					return err
				}
				manager, err := refresh.NewManager(st.cfg, service, st.history, logger)
				if err != nil {
					return fmt.Errorf("build refresh manager: %w", err)
				}

				summary, err := manager.RunOnce(cmd.Context())
				if err != nil {
					return err
				}

				stdout := cmd.OutOrStdout()
				table := renderTable(
					[]string{"Due", "Refreshed", "Denied", "Failed", "Skipped"},
					[][]string{{
						strconv.Itoa(summary.Due),
						strconv.Itoa(summary.Refreshed),
						strconv.Itoa(summary.Denied),
						strconv.Itoa(summary.Failed),
						strconv.Itoa(summary.Skipped),
					}},
					[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
				)
				fmt.Fprintln(stdout, table)
				return nil
			})
		},
	}
}
