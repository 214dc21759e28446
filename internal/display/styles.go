package display

import "github.com/charmbracelet/lipgloss"

// ── Styles ───────────────────────────────────────────────────────

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e4e4e7"))

	backHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Item / recipe names: soft mint.
	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	// Primary text: light zinc.
	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Secondary text: dimmed zinc for hints and metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#bae6fd"))

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#18181b")).
			Background(lipgloss.Color("#bbf7d0")).
			Padding(0, 2)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa")).
				Background(lipgloss.Color("#3f3f46")).
				Padding(0, 2)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa")).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#18181b")).
			Background(lipgloss.Color("#bae6fd")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3f3f46")).
			Padding(0, 1)

	// Error banner: soft coral.
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#f87171")).
			PaddingLeft(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa")).
			Italic(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	inputTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))
)
