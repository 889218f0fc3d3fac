package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/wikivault/wikivault/internal/wiki"
)

func treeStyles(t *tree.Tree) *tree.Tree {
	t.EnumeratorStyle(lipgloss.NewStyle().Foreground(ColorAccent))
	t.RootStyle(lipgloss.NewStyle().Bold(true).Foreground(ColorAccent))
	return t
}

func docLabel(node *wiki.TreeNode) string {
	d := node.Document
	label := d.Title
	if d.IsGroup {
		label += " /"
	}
	if !d.IsPublished && !d.IsGroup {
		label += " " + MutedStyle.Render("(unpublished)")
	}
	return fmt.Sprintf("%s  %s", label, MutedStyle.Render(d.Route))
}

// BuildDocTree constructs a lipgloss/tree for a live document tree.
func BuildDocTree(root *wiki.TreeNode) *tree.Tree {
	if root == nil {
		return nil
	}
	t := treeStyles(tree.New().Root(docLabel(root)))
	for _, child := range root.Children {
		addDocNode(t, child)
	}
	return t
}

func addDocNode(parent *tree.Tree, node *wiki.TreeNode) {
	if len(node.Children) == 0 {
		parent.Child(docLabel(node))
		return
	}
	sub := tree.New().Root(docLabel(node))
	sub.EnumeratorStyle(lipgloss.NewStyle().Foreground(ColorAccent))
	for _, child := range node.Children {
		addDocNode(sub, child)
	}
	parent.Child(sub)
}

// RenderDocTree renders a live document tree, or a hint when empty.
func RenderDocTree(root *wiki.TreeNode) string {
	t := BuildDocTree(root)
	if t == nil {
		return TableHintStyle.Render("Empty tree.")
	}
	return t.String()
}

func crLabel(node *wiki.CRNode) string {
	item := node.Item
	label := item.Title
	if item.IsGroup {
		label += " /"
	}
	if node.LiveID == "" {
		label += " " + PassStyle.Render("(new)")
	}
	return fmt.Sprintf("%s  %s", label, MutedStyle.Render(item.DocKey))
}

// BuildCRTree constructs a lipgloss/tree for a change request's working
// revision.
func BuildCRTree(root *wiki.CRNode) *tree.Tree {
	if root == nil {
		return nil
	}
	t := treeStyles(tree.New().Root(crLabel(root)))
	for _, child := range root.Children {
		addCRNode(t, child)
	}
	return t
}

func addCRNode(parent *tree.Tree, node *wiki.CRNode) {
	if len(node.Children) == 0 {
		parent.Child(crLabel(node))
		return
	}
	sub := tree.New().Root(crLabel(node))
	sub.EnumeratorStyle(lipgloss.NewStyle().Foreground(ColorAccent))
	for _, child := range node.Children {
		addCRNode(sub, child)
	}
	parent.Child(sub)
}

// RenderCRTree renders a change request's working tree.
func RenderCRTree(root *wiki.CRNode) string {
	t := BuildCRTree(root)
	if t == nil {
		return TableHintStyle.Render("Empty working tree.")
	}
	return t.String()
}
