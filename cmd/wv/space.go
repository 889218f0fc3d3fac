package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wikivault/wikivault/internal/slug"
	"github.com/wikivault/wikivault/internal/ui"
)

var spaceCmd = &cobra.Command{
	Use:   "space",
	Short: "Manage wiki spaces",
}

var spaceCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a space with a fresh root group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		route, _ := cmd.Flags().GetString("route")
		if route == "" {
			route = slug.Make(args[0])
		}
		space, err := svc.CreateSpace(cmd.Context(), principal(), args[0], route)
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(space)
			return nil
		}
		fmt.Printf("%s Created space %s at route %q\n", ui.RenderPass("✓"), space.ID, space.Route)
		return nil
	},
}

var spaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all spaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spaces, err := svc.ListSpaces(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(spaces)
			return nil
		}
		fmt.Println(ui.RenderSpaceTable(spaces))
		return nil
	},
}

var spaceRoutesCmd = &cobra.Command{
	Use:   "routes <route> <new-route>",
	Short: "Rewrite a space's route prefix across its whole subtree",
	Long: `Moves a space and every document under it to a new route prefix.
This is the only operation that changes permalinks; reorders and merges
never touch them.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		updated, err := svc.UpdateRoutes(cmd.Context(), principal(), args[0], args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(map[string]interface{}{
				"old_route": args[0],
				"new_route": args[1],
				"updated":   updated,
			})
			return nil
		}
		fmt.Printf("%s Rewrote %d route(s): %s -> %s\n", ui.RenderPass("✓"), updated, args[0], args[1])
		return nil
	},
}

func init() {
	spaceCreateCmd.Flags().String("route", "", "Route for the space (default: slugified name)")
	spaceCmd.AddCommand(spaceCreateCmd)
	spaceCmd.AddCommand(spaceListCmd)
	spaceCmd.AddCommand(spaceRoutesCmd)
	rootCmd.AddCommand(spaceCmd)
}
