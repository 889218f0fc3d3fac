package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wikivault/wikivault/internal/ui"
)

var pageCmd = &cobra.Command{
	Use:   "page <route>",
	Short: "Show the live page at a permalink route",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")
		width, _ := cmd.Flags().GetInt("width")

		doc, err := svc.GetPage(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(doc)
			return nil
		}

		fmt.Println(ui.TitleStyle.Render(doc.Title))
		fmt.Println(ui.MutedStyle.Render(fmt.Sprintf("route %s  key %s  updated %s",
			doc.Route, doc.DocKey, doc.UpdatedAt.Local().Format("2006-01-02 15:04"))))
		if !doc.IsPublished {
			fmt.Println(ui.RenderWarn("unpublished"))
		}
		fmt.Println()
		if raw {
			fmt.Println(doc.Content)
			return nil
		}
		fmt.Print(ui.RenderMarkdown(doc.Content, width))
		return nil
	},
}

func init() {
	pageCmd.Flags().Bool("raw", false, "Print the raw markdown source")
	pageCmd.Flags().Int("width", 0, "Wrap width for rendered output (default: terminal width)")
	rootCmd.AddCommand(pageCmd)
}
