package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonnii/gg/internal/stackmodel"
)

// entryColor picks a color for an entry by its position, cycling through
// ggColors so entries read distinctly in a stack listing.
func entryColor(position int) lipgloss.Color {
	c := ggColors[position%len(ggColors)]
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}

// FormatEntryLine renders one line of `gg ls` output for e: a
// colored circle, the short SHA, the title, and the PR/MR status label.
func FormatEntryLine(e stackmodel.Entry, isCurrent bool) string {
	circle := "◯"
	if isCurrent {
		circle = "◉"
	}
	circleStyle := lipgloss.NewStyle().Foreground(entryColor(e.Position))

	sha := ColorDim(e.ShortSHA)
	status := statusStyle(stackmodel.StatusDisplay(e)).Render(stackmodel.StatusDisplay(e))

	return fmt.Sprintf("%s %s %s  %s", circleStyle.Render(circle), sha, e.Title, status)
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "merged":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	case "approved":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	case "closed":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	case "draft", "not pushed":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	}
}

// ColorBranchName colors a branch name, highlighting it when it's the
// current one.
func ColorBranchName(branchName string, isCurrent bool) string {
	if isCurrent {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Render(branchName + " (current)")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Render(branchName)
}

// ColorNeedsRestack highlights text warning that a stack has fallen behind its base.
func ColorNeedsRestack(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(text)
}

// ColorDim renders text dimmed/gray.
func ColorDim(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(text)
}

// ColorGood renders text green, for success messages.
func ColorGood(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true).Render(text)
}

// ColorWarn renders text yellow, for warnings.
func ColorWarn(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(text)
}

// ColorBad renders text red, for errors.
func ColorBad(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(text)
}
