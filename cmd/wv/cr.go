package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wikivault/wikivault/internal/types"
	"github.com/wikivault/wikivault/internal/ui"
)

var crCmd = &cobra.Command{
	Use:     "cr",
	Aliases: []string{"change-request"},
	Short:   "Work with change requests",
}

var crCreateCmd = &cobra.Command{
	Use:   "create <route>",
	Short: "Open a change request against a space",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")

		cr, err := svc.CreateChangeRequest(cmd.Context(), principal(), args[0], title, description)
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(cr)
			return nil
		}
		fmt.Printf("%s Opened change request %s\n", ui.RenderPass("✓"), cr.ID)
		printChangeRequest(cr)
		return nil
	},
}

var crDraftCmd = &cobra.Command{
	Use:   "draft <route>",
	Short: "Get or create your draft change request for a space",
	Long: `Reuses your newest open draft for the space. A draft whose base
fell behind main is replaced when it carries no edits of its own,
otherwise it is kept and flagged outdated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cr, err := svc.GetOrCreateDraft(cmd.Context(), principal(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(cr)
			return nil
		}
		printChangeRequest(cr)
		return nil
	},
}

var crListCmd = &cobra.Command{
	Use:   "list <route>",
	Short: "List change requests for a space",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		statusFlag, _ := cmd.Flags().GetString("status")

		crs, err := svc.ListChangeRequests(cmd.Context(), args[0], types.CRStatus(statusFlag))
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(crs)
			return nil
		}
		fmt.Println(ui.RenderChangeRequestTable(crs))
		return nil
	},
}

var crShowCmd = &cobra.Command{
	Use:   "show <cr-id>",
	Short: "Show a change request with its reviewers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cr, err := svc.GetChangeRequest(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(cr)
			return nil
		}
		printChangeRequest(cr)
		fmt.Println()
		fmt.Println(ui.RenderReviewerTable(cr.Reviewers))
		return nil
	},
}

var crUpdateCmd = &cobra.Command{
	Use:   "update <cr-id>",
	Short: "Update a change request's title or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var title, description *string
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			title = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			description = &v
		}

		cr, err := svc.UpdateChangeRequest(cmd.Context(), principal(), args[0], title, description)
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(cr)
			return nil
		}
		fmt.Printf("%s Updated change request %s\n", ui.RenderPass("✓"), cr.ID)
		return nil
	},
}

var crArchiveCmd = &cobra.Command{
	Use:   "archive <cr-id>",
	Short: "Archive a change request without merging it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !jsonOutput {
			if !ui.PromptYesNo(fmt.Sprintf("Archive change request %s?", args[0]), false) {
				fmt.Println("Canceled.")
				return nil
			}
		}

		if err := svc.ArchiveChangeRequest(cmd.Context(), principal(), args[0]); err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(map[string]string{"id": args[0], "status": string(types.StatusArchived)})
			return nil
		}
		fmt.Printf("%s Archived change request %s\n", ui.RenderPass("✓"), args[0])
		return nil
	},
}

var crOutdatedCmd = &cobra.Command{
	Use:   "outdated <cr-id>",
	Short: "Check whether a change request fell behind its space's main revision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outdated, err := svc.CheckOutdated(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(map[string]interface{}{"id": args[0], "outdated": outdated})
			return nil
		}
		if outdated {
			fmt.Println(ui.RenderWarn("Outdated: main has moved past this change request's base."))
		} else {
			fmt.Println(ui.RenderPass("Up to date with main."))
		}
		return nil
	},
}

func printChangeRequest(cr *types.ChangeRequest) {
	fmt.Printf("%s  %s\n", ui.TitleStyle.Render(cr.ID), cr.Title)
	fmt.Printf("  Status:  %s", ui.StatusBadge(cr.Status))
	if cr.Outdated && cr.Open() {
		fmt.Printf("  %s", ui.RenderWarn("(outdated)"))
	}
	fmt.Println()
	fmt.Printf("  Owner:   %s\n", cr.Owner)
	fmt.Printf("  Base:    %s\n", cr.BaseRevisionID)
	fmt.Printf("  Head:    %s\n", cr.HeadRevisionID)
	if cr.MergeRevisionID != "" {
		fmt.Printf("  Merged:  %s by %s\n", cr.MergeRevisionID, cr.MergedBy)
	}
	if cr.Description != "" {
		fmt.Printf("  About:   %s\n", cr.Description)
	}
}

func init() {
	crCreateCmd.Flags().String("title", "", "Change request title (required)")
	crCreateCmd.Flags().String("description", "", "Change request description")
	_ = crCreateCmd.MarkFlagRequired("title")

	crListCmd.Flags().String("status", "", "Filter by status (Draft, In Review, Approved, ...)")

	crUpdateCmd.Flags().String("title", "", "New title")
	crUpdateCmd.Flags().String("description", "", "New description")

	crArchiveCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	crCmd.AddCommand(crCreateCmd)
	crCmd.AddCommand(crDraftCmd)
	crCmd.AddCommand(crListCmd)
	crCmd.AddCommand(crShowCmd)
	crCmd.AddCommand(crUpdateCmd)
	crCmd.AddCommand(crArchiveCmd)
	crCmd.AddCommand(crOutdatedCmd)
	rootCmd.AddCommand(crCmd)
}
