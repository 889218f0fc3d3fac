package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wikivault/wikivault/internal/types"
	"github.com/wikivault/wikivault/internal/ui"
)

var crMergeCmd = &cobra.Command{
	Use:   "merge <cr-id>",
	Short: "Merge a change request into its space's main revision",
	Long: `Runs the three-way merge of the change request's head against the
current main, using the change request's base as the common ancestor.
Non-overlapping edits combine, including line-level content merges.
Conflicts abort the merge without touching the live tree and are listed
by 'wv cr conflicts'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rev, err := svc.Merge(cmd.Context(), principal(), args[0])
		if err != nil {
			if types.IsValidation(err) {
				// Conflicts persist even though the merge rolled back.
				conflicts, listErr := svc.ListConflicts(cmd.Context(), args[0])
				if listErr == nil && len(conflicts) > 0 {
					if jsonOutput {
						outputJSON(map[string]interface{}{
							"error":     err.Error(),
							"conflicts": conflicts,
						})
						os.Exit(exitCode(err))
					}
					fmt.Println(ui.RenderFail("Merge failed with conflicts:"))
					fmt.Println(ui.RenderConflictTable(conflicts))
				}
			}
			return err
		}

		if jsonOutput {
			outputJSON(rev)
			return nil
		}
		fmt.Printf("%s Merged change request %s\n", ui.RenderPass("✓"), args[0])
		fmt.Println("  " + ui.RenderRevisionSummary(rev))
		return nil
	},
}

var crConflictsCmd = &cobra.Command{
	Use:   "conflicts <cr-id>",
	Short: "List the conflicts recorded by the last merge attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conflicts, err := svc.ListConflicts(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(conflicts)
			return nil
		}
		fmt.Println(ui.RenderConflictTable(conflicts))
		return nil
	},
}

func init() {
	crCmd.AddCommand(crMergeCmd)
	crCmd.AddCommand(crConflictsCmd)
}
