package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wikivault/wikivault/internal/ui"
)

var reorderCmd = &cobra.Command{
	Use:   "reorder <doc-id> <sibling-id>...",
	Short: "Reorder a document among its siblings, optionally reparenting it",
	Long: `Rewrites the sibling order of a document's parent to the given ID
sequence. With --parent the document moves under a new parent first.
Routes never change.

Callers holding a live-write role update the live tree directly and the
space's main revision advances. Everyone else has the same edit recorded
in their draft change request.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		newParentID, _ := cmd.Flags().GetString("parent")

		result, err := svc.Reorder(cmd.Context(), principal(), args[0], newParentID, args[1:])
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(result)
			return nil
		}
		if result.Contribution {
			fmt.Printf("%s Recorded reorder in draft change request %s\n", ui.RenderPass("✓"), result.CR.ID)
			fmt.Println(ui.MutedStyle.Render("Request review and merge to publish it."))
			return nil
		}
		fmt.Printf("%s Reordered live tree\n", ui.RenderPass("✓"))
		return nil
	},
}

func init() {
	reorderCmd.Flags().String("parent", "", "New parent document ID")
	rootCmd.AddCommand(reorderCmd)
}
