package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wikivault/wikivault/internal/types"
)

// Palette shared by every renderer.
var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "25", Dark: "39"}
	ColorPass   = lipgloss.AdaptiveColor{Light: "28", Dark: "42"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "130", Dark: "214"}
	ColorFail   = lipgloss.AdaptiveColor{Light: "124", Dark: "203"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "245", Dark: "243"}
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	WarnStyle = lipgloss.NewStyle().
			Foreground(ColorWarn)

	PassStyle = lipgloss.NewStyle().
			Foreground(ColorPass)

	FailStyle = lipgloss.NewStyle().
			Foreground(ColorFail)
)

// RenderPass colors a success marker when color is on.
func RenderPass(s string) string {
	if ShouldUseColor() {
		return PassStyle.Render(s)
	}
	return s
}

// RenderWarn colors a warning marker when color is on.
func RenderWarn(s string) string {
	if ShouldUseColor() {
		return WarnStyle.Render(s)
	}
	return s
}

// RenderFail colors a failure marker when color is on.
func RenderFail(s string) string {
	if ShouldUseColor() {
		return FailStyle.Render(s)
	}
	return s
}

// StatusBadge renders a change request status with its conventional
// color. Plain text when color is off.
func StatusBadge(status types.CRStatus) string {
	text := string(status)
	if !ShouldUseColor() {
		return text
	}
	switch status {
	case types.StatusMerged, types.StatusApproved:
		return PassStyle.Render(text)
	case types.StatusChangesRequested:
		return WarnStyle.Render(text)
	case types.StatusArchived:
		return MutedStyle.Render(text)
	default:
		return TitleStyle.Render(text)
	}
}

// ReviewBadge renders a reviewer verdict.
func ReviewBadge(status types.ReviewStatus) string {
	text := string(status)
	if !ShouldUseColor() {
		return text
	}
	switch status {
	case types.ReviewApproved:
		return PassStyle.Render(text)
	case types.ReviewChangesRequested:
		return WarnStyle.Render(text)
	default:
		return MutedStyle.Render(text)
	}
}
