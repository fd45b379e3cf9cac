package report

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("205")
	colorSecondary = lipgloss.Color("241")
	colorSuccess   = lipgloss.Color("42")
	colorError     = lipgloss.Color("160")
	colorWarning   = lipgloss.Color("214")
	colorText      = lipgloss.Color("252")

	styleTitle   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleSubtle  = lipgloss.NewStyle().Foreground(colorSecondary)
	styleText    = lipgloss.NewStyle().Foreground(colorText)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning)

	styleBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorSecondary).
			Padding(0, 1)

	styleLabel = lipgloss.NewStyle().Foreground(colorSecondary).Width(20)
)

// tierStyle colours a quality tier from best (green) to worst (red).
func tierStyle(tier string) lipgloss.Style {
	switch tier {
	case "excellent", "good":
		return styleSuccess
	case "fair":
		return styleWarning
	default:
		return styleError
	}
}

func verdict(passed bool) string {
	if passed {
		return styleSuccess.Render("PASS")
	}
	return styleError.Render("FAIL")
}
