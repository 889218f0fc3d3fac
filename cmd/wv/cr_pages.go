package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/wikivault/wikivault/internal/types"
	"github.com/wikivault/wikivault/internal/ui"
	"github.com/wikivault/wikivault/internal/wiki"
)

var crTreeCmd = &cobra.Command{
	Use:   "tree <cr-id>",
	Short: "Show a change request's working tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := svc.GetCRTree(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(root)
			return nil
		}
		fmt.Println(ui.RenderCRTree(root))
		return nil
	},
}

var crPageCmd = &cobra.Command{
	Use:   "page <cr-id> <doc-key>",
	Short: "Show one page from a change request's working revision",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		page, err := svc.GetCRPage(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(page)
			return nil
		}

		fmt.Println(ui.TitleStyle.Render(page.Item.Title))
		meta := fmt.Sprintf("key %s  slug %s", page.Item.DocKey, page.Item.Slug)
		if page.Route != "" {
			meta += "  live route " + page.Route
		}
		fmt.Println(ui.MutedStyle.Render(meta))
		fmt.Println()
		if raw {
			fmt.Println(page.Content)
			return nil
		}
		fmt.Print(ui.RenderMarkdown(page.Content, 0))
		return nil
	},
}

// pageFormInput holds the raw string values from the new-page form UI.
type pageFormInput struct {
	Title     string
	Slug      string
	ParentKey string
	Content   string
	IsGroup   bool
	Published bool
}

var crNewPageCmd = &cobra.Command{
	Use:   "new-page <cr-id>",
	Short: "Add a page or group to a change request",
	Long: `Adds a document to the change request's working revision. With
--title the page is created from flags; without it an interactive form
opens. The page lands in the live tree only when the change request
merges.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := pageInputFromFlags(cmd)
		if err != nil {
			return err
		}
		if in.Title == "" {
			formIn, err := runNewPageForm()
			if err != nil {
				return err
			}
			if formIn == nil {
				fmt.Fprintln(os.Stderr, "Page creation canceled.")
				return nil
			}
			in = *formIn
		}

		item, err := svc.CreatePage(cmd.Context(), principal(), args[0], in)
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(item)
			return nil
		}
		kind := "page"
		if item.IsGroup {
			kind = "group"
		}
		fmt.Printf("%s Added %s %q with key %s\n", ui.RenderPass("✓"), kind, item.Title, item.DocKey)
		return nil
	},
}

func pageInputFromFlags(cmd *cobra.Command) (wiki.PageInput, error) {
	title, _ := cmd.Flags().GetString("title")
	slugFlag, _ := cmd.Flags().GetString("slug")
	parentKey, _ := cmd.Flags().GetString("parent")
	isGroup, _ := cmd.Flags().GetBool("group")
	published, _ := cmd.Flags().GetBool("published")

	content, err := contentFromFlags(cmd)
	if err != nil {
		return wiki.PageInput{}, err
	}

	in := wiki.PageInput{
		ParentKey:   parentKey,
		Title:       title,
		Slug:        slugFlag,
		IsGroup:     isGroup,
		IsPublished: published,
		Content:     content,
	}
	if cmd.Flags().Changed("order") {
		order, _ := cmd.Flags().GetInt("order")
		in.OrderIndex = &order
	}
	return in, nil
}

// contentFromFlags reads page content from --content, --content-file, or
// --content-file=- for stdin.
func contentFromFlags(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("content") {
		content, _ := cmd.Flags().GetString("content")
		return content, nil
	}
	if !cmd.Flags().Changed("content-file") {
		return "", nil
	}
	path, _ := cmd.Flags().GetString("content-file")
	if path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(raw), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(raw), nil
}

// runNewPageForm collects page fields interactively. Returns nil input
// when the user aborts.
func runNewPageForm() (*wiki.PageInput, error) {
	raw := &pageFormInput{Published: true}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("Page title (required)").
				Placeholder("e.g., Getting Started").
				Value(&raw.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Slug").
				Description("URL segment (default: slugified title)").
				Value(&raw.Slug),

			huh.NewInput().
				Title("Parent key").
				Description("Doc key of the parent group (default: root group)").
				Value(&raw.ParentKey),

			huh.NewConfirm().
				Title("Group?").
				Description("Groups hold children instead of content").
				Value(&raw.IsGroup),

			huh.NewConfirm().
				Title("Published?").
				Value(&raw.Published),
		),

		huh.NewGroup(
			huh.NewText().
				Title("Content").
				Description("Markdown body (skip for groups)").
				CharLimit(100000).
				Value(&raw.Content),

			huh.NewConfirm().
				Title("Add this page?").
				Affirmative("Add").
				Negative("Cancel"),
		),
	)

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return nil, nil
		}
		return nil, fmt.Errorf("form error: %w", err)
	}

	return &wiki.PageInput{
		ParentKey:   strings.TrimSpace(raw.ParentKey),
		Title:       strings.TrimSpace(raw.Title),
		Slug:        strings.TrimSpace(raw.Slug),
		IsGroup:     raw.IsGroup,
		IsPublished: raw.Published,
		Content:     raw.Content,
	}, nil
}

var crEditCmd = &cobra.Command{
	Use:   "edit <cr-id> <doc-key>",
	Short: "Edit a page inside a change request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var upd types.DocumentUpdate
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			upd.Title = &v
		}
		if cmd.Flags().Changed("slug") {
			v, _ := cmd.Flags().GetString("slug")
			upd.Slug = &v
		}
		if cmd.Flags().Changed("published") {
			v, _ := cmd.Flags().GetBool("published")
			upd.IsPublished = &v
		}
		if cmd.Flags().Changed("content") || cmd.Flags().Changed("content-file") {
			content, err := contentFromFlags(cmd)
			if err != nil {
				return err
			}
			upd.Content = &content
		}

		item, err := svc.UpdatePage(cmd.Context(), principal(), args[0], args[1], upd)
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(item)
			return nil
		}
		fmt.Printf("%s Updated %q\n", ui.RenderPass("✓"), item.Title)
		return nil
	},
}

var crMoveCmd = &cobra.Command{
	Use:   "move <cr-id> <doc-key> <new-parent-key>",
	Short: "Move a page under a different parent in a change request",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var order *int
		if cmd.Flags().Changed("order") {
			v, _ := cmd.Flags().GetInt("order")
			order = &v
		}

		if err := svc.MovePage(cmd.Context(), principal(), args[0], args[1], args[2], order); err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(map[string]string{"doc_key": args[1], "parent_key": args[2]})
			return nil
		}
		fmt.Printf("%s Moved %s under %s\n", ui.RenderPass("✓"), args[1], args[2])
		return nil
	},
}

var crReorderCmd = &cobra.Command{
	Use:   "reorder <cr-id> <parent-key> <doc-key>...",
	Short: "Reorder the children of a group in a change request",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.ReorderChildren(cmd.Context(), principal(), args[0], args[1], args[2:]); err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(map[string]interface{}{"parent_key": args[1], "order": args[2:]})
			return nil
		}
		fmt.Printf("%s Reordered children of %s\n", ui.RenderPass("✓"), args[1])
		return nil
	},
}

var crDeleteCmd = &cobra.Command{
	Use:   "delete <cr-id> <doc-key>",
	Short: "Delete a page (and its subtree) in a change request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !jsonOutput {
			if !ui.PromptYesNo(fmt.Sprintf("Delete %s and everything under it?", args[1]), false) {
				fmt.Println("Canceled.")
				return nil
			}
		}

		if err := svc.DeletePage(cmd.Context(), principal(), args[0], args[1]); err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(map[string]string{"doc_key": args[1], "deleted": "true"})
			return nil
		}
		fmt.Printf("%s Deleted %s\n", ui.RenderPass("✓"), args[1])
		return nil
	},
}

func init() {
	crPageCmd.Flags().Bool("raw", false, "Print the raw markdown source")

	for _, c := range []*cobra.Command{crNewPageCmd, crEditCmd} {
		c.Flags().String("title", "", "Page title")
		c.Flags().String("slug", "", "URL segment")
		c.Flags().Bool("published", false, "Published flag")
		c.Flags().String("content", "", "Markdown content")
		c.Flags().String("content-file", "", "Read content from a file ('-' for stdin)")
	}
	crNewPageCmd.Flags().String("parent", "", "Parent group doc key (default: root group)")
	crNewPageCmd.Flags().Bool("group", false, "Create a group instead of a page")
	crNewPageCmd.Flags().Int("order", 0, "Position among siblings (default: last)")
	crMoveCmd.Flags().Int("order", 0, "Position among the new siblings (default: last)")
	crDeleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	crCmd.AddCommand(crTreeCmd)
	crCmd.AddCommand(crPageCmd)
	crCmd.AddCommand(crNewPageCmd)
	crCmd.AddCommand(crEditCmd)
	crCmd.AddCommand(crMoveCmd)
	crCmd.AddCommand(crReorderCmd)
	crCmd.AddCommand(crDeleteCmd)
}
