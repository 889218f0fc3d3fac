package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wikivault/wikivault/internal/types"
	"github.com/wikivault/wikivault/internal/ui"
)

var crReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Request and record reviews on a change request",
}

var crReviewRequestCmd = &cobra.Command{
	Use:   "request <cr-id> <reviewer>[,<reviewer>...]",
	Short: "Request review from a set of reviewers",
	Long: `Replaces the reviewer roster with the given list, all reset to
Requested, and moves the change request to In Review. Re-requesting
review drops earlier approvals.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reviewers := strings.Split(args[1], ",")
		if err := svc.RequestReview(cmd.Context(), principal(), args[0], reviewers); err != nil {
			return err
		}

		cr, err := svc.GetChangeRequest(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(cr)
			return nil
		}
		fmt.Printf("%s Review requested from %d reviewer(s)\n", ui.RenderPass("✓"), len(cr.Reviewers))
		fmt.Println(ui.RenderReviewerTable(cr.Reviewers))
		return nil
	},
}

func reviewActionRunE(action types.ReviewStatus) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		asReviewer, _ := cmd.Flags().GetString("as")
		comment, _ := cmd.Flags().GetString("comment")

		cr, err := svc.ReviewAction(cmd.Context(), principal(), args[0], asReviewer, action, comment)
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(cr)
			return nil
		}
		fmt.Printf("%s Recorded %s; change request is now %s\n",
			ui.RenderPass("✓"), action, ui.StatusBadge(cr.Status))
		fmt.Println(ui.RenderReviewerTable(cr.Reviewers))
		return nil
	}
}

var crReviewApproveCmd = &cobra.Command{
	Use:   "approve <cr-id>",
	Short: "Approve a change request",
	Args:  cobra.ExactArgs(1),
	RunE:  reviewActionRunE(types.ReviewApproved),
}

var crReviewRejectCmd = &cobra.Command{
	Use:   "request-changes <cr-id>",
	Short: "Ask the author for changes",
	Args:  cobra.ExactArgs(1),
	RunE:  reviewActionRunE(types.ReviewChangesRequested),
}

func init() {
	for _, c := range []*cobra.Command{crReviewApproveCmd, crReviewRejectCmd} {
		c.Flags().String("as", "", "Record the verdict for another reviewer (moderators only)")
		c.Flags().String("comment", "", "Review comment")
	}

	crReviewCmd.AddCommand(crReviewRequestCmd)
	crReviewCmd.AddCommand(crReviewApproveCmd)
	crReviewCmd.AddCommand(crReviewRejectCmd)
	crCmd.AddCommand(crReviewCmd)
}
