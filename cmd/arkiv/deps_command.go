package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arkiv/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tool and directory requirements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			statuses := deps.CheckBinaries(deps.Required(cfg.FFmpegBinary(), cfg.FFprobeBinary()))
			statuses = append(statuses, deps.CheckLibraryDir(cfg.Paths.LibraryDir))

			headers := []string{"Dependency", "Command", "Available", "Detail"}
			rows := make([][]string, 0, len(statuses))
			allOK := true
			for _, status := range statuses {
				if !status.Available && !status.Optional {
					allOK = false
				}
				rows = append(rows, []string{status.Name, status.Command, yesNo(status.Available), status.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft}))

			if !allOK {
				return fmt.Errorf("one or more required dependencies are unavailable")
			}
			return nil
		},
	}
}
