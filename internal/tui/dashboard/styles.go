package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/weatherlens/internal/theme"
)

var (
	// Colors
	successColor = lipgloss.Color("42")  // Green
	errorColor   = lipgloss.Color("196") // Red
	mutedColor   = lipgloss.Color("245") // Gray
	textColor    = lipgloss.Color("252")

	// Title style
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			PaddingRight(2)

	// Header style
	headerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(mutedColor).
			PaddingBottom(1).
			MarginBottom(1)

	cityStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(mutedColor)

	sectionTitleStyle = lipgloss.NewStyle().
				Bold(true).
				MarginBottom(1)

	// Form styles
	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(18)

	focusedLabelStyle = labelStyle.
				Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			MarginTop(1).
			BorderStyle(lipgloss.RoundedBorder())

	// Rule card styles
	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			Padding(0, 1).
			MarginBottom(1)

	pillStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	badgeStyle = lipgloss.NewStyle().
			Foreground(textColor).
			PaddingRight(2)

	dateStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	// Footer style
	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(mutedColor).
			PaddingTop(1).
			MarginTop(1)

	// Error banner style
	errorBannerStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Background(lipgloss.Color("52")). // Dark red background
				Bold(true).
				Padding(0, 2).
				MarginBottom(1).
				BorderStyle(lipgloss.ThickBorder()).
				BorderForeground(errorColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	// Help overlay styles
	helpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(textColor)

	helpBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			Padding(1, 3)

	// Confirm dialog styles
	confirmBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(errorColor).
			Padding(1, 4).
			Align(lipgloss.Center)

	// Empty state style
	emptyStateStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true).
			PaddingTop(1).
			PaddingBottom(1)
)

// palette holds the styles derived from the current weather theme.
type palette struct {
	accent   lipgloss.Style
	glow     lipgloss.Color
	floating lipgloss.Style
}

func newPalette(d theme.Descriptor) palette {
	return palette{
		accent:   lipgloss.NewStyle().Foreground(d.Accent.Color()).Bold(true),
		glow:     d.Glow.Color(),
		floating: lipgloss.NewStyle().Foreground(d.Floating.Color()),
	}
}

// pill renders a rule name on its condition tint.
func pill(name string, condition string, night bool) string {
	tint := theme.CardTint(condition, night)
	fg := lipgloss.Color("#111827")
	if night {
		fg = lipgloss.Color("#f9fafb")
	}
	return pillStyle.Background(tint.Color()).Foreground(fg).Render(name)
}

// ApplyMaxWidth applies a maximum width to all relevant styles
func ApplyMaxWidth(width int) {
	headerStyle = headerStyle.Width(width - 2)
	footerStyle = footerStyle.Width(width - 2)
	cardStyle = cardStyle.MaxWidth(width - 2)
}
