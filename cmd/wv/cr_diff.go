package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wikivault/wikivault/internal/ui"
)

var crDiffCmd = &cobra.Command{
	Use:   "diff <cr-id> [doc-key]",
	Short: "Show what a change request changes against its base",
	Long: `Without a doc key, prints one summary row per added, deleted, or
modified document. With a doc key, prints a unified content diff of that
page between the base and working revisions.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 2 {
			diff, err := svc.DiffPage(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if jsonOutput {
				outputJSON(diff)
				return nil
			}
			fmt.Print(ui.RenderPageDiff(diff))
			return nil
		}

		entries, err := svc.Diff(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(entries)
			return nil
		}
		fmt.Println(ui.RenderDiffTable(entries))
		return nil
	},
}

func init() {
	crCmd.AddCommand(crDiffCmd)
}
