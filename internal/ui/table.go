package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wikivault/wikivault/internal/types"
)

// Table Styles
var (
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent).
				Align(lipgloss.Center)

	TableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TableHintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	TableBorderStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)
)

// newTable creates a bordered table with default styling.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		Headers(headers...)
}

func shortTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// RenderSpaceTable renders spaces one per row.
func RenderSpaceTable(spaces []*types.Space) string {
	if len(spaces) == 0 {
		return TableHintStyle.Render("No spaces yet. Create one with 'wv space create'.")
	}
	t := newTable("ROUTE", "NAME", "MAIN REVISION", "UPDATED")
	for _, s := range spaces {
		main := s.MainRevisionID
		if main == "" {
			main = "(none)"
		}
		t.Row(s.Route, s.DisplayName, main, shortTime(s.UpdatedAt))
	}
	return t.Render()
}

// RenderChangeRequestTable renders a change request listing.
func RenderChangeRequestTable(crs []*types.ChangeRequest) string {
	if len(crs) == 0 {
		return TableHintStyle.Render("No change requests found.")
	}
	t := newTable("ID", "TITLE", "STATUS", "OWNER", "UPDATED")
	for _, cr := range crs {
		status := StatusBadge(cr.Status)
		if cr.Outdated && cr.Open() {
			status += " " + WarnStyle.Render("(outdated)")
		}
		t.Row(cr.ID, cr.Title, status, cr.Owner, shortTime(cr.UpdatedAt))
	}
	return t.Render()
}

// RenderReviewerTable renders the reviewer roster of a change request.
func RenderReviewerTable(reviewers []types.Reviewer) string {
	if len(reviewers) == 0 {
		return TableHintStyle.Render("No reviewers requested.")
	}
	t := newTable("REVIEWER", "STATUS", "REVIEWED", "COMMENT")
	for _, r := range reviewers {
		reviewed := ""
		if r.ReviewedAt != nil {
			reviewed = shortTime(*r.ReviewedAt)
		}
		t.Row(r.Reviewer, ReviewBadge(r.Status), reviewed, r.Comment)
	}
	return t.Render()
}

// RenderDiffTable renders a change request's summary diff.
func RenderDiffTable(entries []types.DiffEntry) string {
	if len(entries) == 0 {
		return TableHintStyle.Render("No changes against the base revision.")
	}
	t := newTable("CHANGE", "KEY", "TITLE")
	for _, e := range entries {
		change := e.ChangeType
		if ShouldUseColor() {
			switch e.ChangeType {
			case types.ChangeAdded:
				change = PassStyle.Render(change)
			case types.ChangeDeleted:
				change = FailStyle.Render(change)
			default:
				change = WarnStyle.Render(change)
			}
		}
		title := e.Title
		if e.IsGroup {
			title += " /"
		}
		t.Row(change, e.DocKey, title)
	}
	return t.Render()
}

// RenderConflictTable renders the open conflicts of a failed merge.
func RenderConflictTable(conflicts []*types.MergeConflict) string {
	if len(conflicts) == 0 {
		return TableHintStyle.Render("No merge conflicts recorded.")
	}
	t := newTable("KEY", "TYPE", "STATUS", "RECORDED")
	for _, c := range conflicts {
		kind := string(c.Type)
		if ShouldUseColor() {
			kind = FailStyle.Render(kind)
		}
		t.Row(c.DocKey, kind, string(c.Status), shortTime(c.CreatedAt))
	}
	return t.Render()
}

// RenderRevisionSummary renders a one-line revision fingerprint.
func RenderRevisionSummary(rev *types.Revision) string {
	return fmt.Sprintf("%s  %s  (%d docs, tree %.12s, content %.12s)",
		rev.ID, rev.Message, rev.DocCount, rev.TreeHash, rev.ContentHash)
}
