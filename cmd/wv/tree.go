package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wikivault/wikivault/internal/ui"
)

var treeCmd = &cobra.Command{
	Use:   "tree <route>",
	Short: "Show a space's live document tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := svc.GetTree(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(root)
			return nil
		}
		fmt.Println(ui.RenderDocTree(root))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
