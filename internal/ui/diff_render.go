package ui

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/wikivault/wikivault/internal/wiki"
)

// RenderPageDiff renders a unified diff of one page between a change
// request's base and head, with the page's title as the file label.
func RenderPageDiff(diff *wiki.PageDiff) string {
	var baseContent, headContent, baseLabel, headLabel string
	baseLabel, headLabel = "base", "head"
	if diff.Base != nil {
		baseContent = diff.Base.Content
		baseLabel = "base: " + diff.Base.Item.Title
	} else {
		baseLabel = "base: (absent)"
	}
	if diff.Head != nil {
		headContent = diff.Head.Content
		headLabel = "head: " + diff.Head.Item.Title
	} else {
		headLabel = "head: (deleted)"
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(baseContent),
		B:        difflib.SplitLines(headContent),
		FromFile: baseLabel,
		ToFile:   headLabel,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	if text == "" {
		return TableHintStyle.Render("Content unchanged.")
	}
	if !ShouldUseColor() {
		return text
	}

	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			b.WriteString(PassStyle.Render(strings.TrimSuffix(line, "\n")) + "\n")
		case strings.HasPrefix(line, "-"):
			b.WriteString(FailStyle.Render(strings.TrimSuffix(line, "\n")) + "\n")
		case strings.HasPrefix(line, "@@"):
			b.WriteString(TitleStyle.Render(strings.TrimSuffix(line, "\n")) + "\n")
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}
