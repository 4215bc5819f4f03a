package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/weatherlens/internal/alert"
	"github.com/alexisbeaulieu97/weatherlens/internal/alertstore"
)

// Button labels for the create form.
const (
	buttonIdle       = "Create Alert"
	buttonSubmitting = "Creating..."
)

// View renders the current model state
func (m Model) View() string {
	switch m.viewMode {
	case ViewHelp:
		return m.renderHelpView()
	case ViewConfirm:
		return m.renderConfirmView()
	default:
		return m.renderAlertsView()
	}
}

// renderAlertsView renders the form beside the rule list.
func (m Model) renderAlertsView() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	p := newPalette(m.descriptor())
	var content strings.Builder

	content.WriteString(m.renderHeader(p))
	content.WriteString("\n")
	content.WriteString(m.renderBackground(p))
	content.WriteString("\n")

	if m.showError {
		content.WriteString(m.renderErrorBanner())
		content.WriteString("\n")
	}

	content.WriteString(m.renderForm(p))
	content.WriteString("\n\n")
	content.WriteString(m.renderRules(p))
	content.WriteString("\n")

	if err := m.store.LastDeleteError(); err != nil {
		content.WriteString(noticeStyle.Render("Could not delete alert: " + err.Error()))
		content.WriteString("\n")
	}

	content.WriteString(m.renderFooter())

	return content.String()
}

// renderHeader renders the greeting, weather icon and city tabs.
func (m Model) renderHeader(p palette) string {
	d := m.descriptor()
	title := titleStyle.Render(fmt.Sprintf("%s %s", d.Icon, m.prefs.Greeting()))

	tabs := make([]string, 0, len(m.cities))
	for i, city := range m.cities {
		style := cityStyle
		if i == m.cityIdx {
			style = p.accent.Padding(0, 1).Underline(true)
		}
		tabs = append(tabs, style.Render(city))
	}
	cities := strings.Join(tabs, " ")
	if m.focus == FocusCities {
		cities = p.accent.Render("‹ ") + cities + p.accent.Render(" ›")
	}

	return headerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, cities))
}

// renderBackground colors each cell of the decorative strip with the
// floating element style for its column.
func (m Model) renderBackground(p palette) string {
	d := m.descriptor()
	rows := m.renderer.RenderBackground(d.Condition, d.Night, m.width-2, backgroundRows)
	if len(rows) == 0 {
		return ""
	}
	return p.floating.Render(strings.Join(rows, "\n"))
}

// renderErrorBanner renders the error banner
func (m Model) renderErrorBanner() string {
	return errorBannerStyle.Render("⚠ " + m.errorMsg)
}

// renderForm renders the new alert form for the selected city.
func (m Model) renderForm(p palette) string {
	title := "Create Alert"
	if city := m.City(); city != "" {
		title = fmt.Sprintf("Create Alert for %s", city)
	}

	lines := []string{p.accent.Render(title)}
	for i, field := range alert.FormFields() {
		focused := m.focus == FocusForm && i == m.fieldIdx
		label := labelStyle.Render(fieldLabels[field])
		if focused {
			label = focusedLabelStyle.Foreground(p.glow).Render(fieldLabels[field])
		}

		var value string
		if field == alert.FieldWeatherCondition {
			value = m.renderConditionPicker(focused)
		} else {
			value = m.inputs[field].View()
		}
		lines = append(lines, label+" "+value)
	}

	lines = append(lines, m.renderButton(p))
	return sectionTitleStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderConditionPicker(focused bool) string {
	label := m.conditionOptions()[m.conditionIdx].Label()
	if focused {
		return "‹ " + label + " ›"
	}
	return label
}

// renderButton renders the submit button in its current state.
func (m Model) renderButton(p palette) string {
	text := buttonIdle
	style := buttonStyle.BorderForeground(mutedColor)

	switch {
	case m.store.Submitting():
		text = m.spinner.View() + " " + buttonSubmitting
	case m.store.Phase() == alertstore.SubmitSucceeded:
		text = m.store.Message()
		style = buttonStyle.BorderForeground(successColor).Foreground(successColor)
	}

	if m.focus == FocusForm && m.currentField() == "" {
		style = style.BorderForeground(p.glow)
	}
	return style.Render(text)
}

// renderRules renders the rule list according to the store phase.
func (m Model) renderRules(p palette) string {
	city := m.City()
	if city == "" {
		return emptyStateStyle.Render("Select a city to see its alerts.")
	}

	title := sectionTitleStyle.Render(p.accent.Render(fmt.Sprintf("Alerts for %s", city)))

	var body string
	switch m.store.Phase() {
	case alertstore.Idle, alertstore.Loading:
		body = m.spinner.View() + " Loading alerts..."
	case alertstore.ReadyEmpty:
		body = emptyStateStyle.Render(m.store.Message())
	case alertstore.Error:
		if len(m.store.Rules()) == 0 {
			body = errorBannerStyle.Render(m.store.Message())
		} else {
			body = m.renderCards(p)
		}
	default:
		body = m.renderCards(p)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body)
}

func (m Model) renderCards(p palette) string {
	rules := m.store.Rules()
	if len(rules) == 0 {
		return emptyStateStyle.Render(alertstore.EmptyMessage(m.City()))
	}

	cards := make([]string, 0, len(rules))
	for i, rule := range rules {
		cards = append(cards, m.renderCard(rule, p, m.focus == FocusRules && i == m.ruleCursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// renderCard renders one rule with the thresholds it sets.
func (m Model) renderCard(rule alert.Rule, p palette, selected bool) string {
	name := pill(rule.AlertName, string(rule.WeatherCondition), m.night)
	header := name + "  " + dateStyle.Render(rule.CreatedAt.Format("02/01/06"))

	badges := []string{badgeStyle.Render("🌡 " + m.prefs.Unit.Format(rule.Temperature))}
	if rule.Humidity != nil {
		badges = append(badges, badgeStyle.Render(fmt.Sprintf("💧 %s%%", formatNumber(*rule.Humidity))))
	}
	if rule.WindSpeed != nil {
		badges = append(badges, badgeStyle.Render(fmt.Sprintf("💨 %s km/h", formatNumber(*rule.WindSpeed))))
	}
	if rule.CloudCoverage != nil {
		badges = append(badges, badgeStyle.Render(fmt.Sprintf("☁ %s%%", formatNumber(*rule.CloudCoverage))))
	}
	if rule.WeatherCondition != alert.ConditionAny {
		badges = append(badges, badgeStyle.Render(rule.WeatherCondition.Label()))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		noticeStyle.Render(rule.Email),
		strings.Join(badges, ""),
	)

	style := cardStyle.BorderForeground(mutedColor)
	if selected {
		style = cardStyle.BorderForeground(p.glow)
	}
	return style.Render(body)
}

func formatNumber(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}

// renderFooter renders the footer with keyboard shortcuts
func (m Model) renderFooter() string {
	var shortcuts string
	switch m.focus {
	case FocusCities:
		shortcuts = "←/→: City  r: Refresh  tab: Next  ?: Help  q: Quit"
	case FocusRules:
		shortcuts = "↑/↓: Move  d: Delete  r: Refresh  tab: Next  ?: Help  q: Quit"
	default:
		shortcuts = "↑/↓: Field  enter: Next/Submit  tab: Next  ctrl+c: Quit"
	}
	return footerStyle.Render(shortcuts)
}

// renderHelpView renders the help screen
func (m Model) renderHelpView() string {
	p := newPalette(m.descriptor())
	sections := []struct {
		title string
		keys  [][2]string
	}{
		{"Navigation", [][2]string{
			{"tab", "Next section"},
			{"shift+tab", "Previous section"},
			{"←/→ h/l", "Change city"},
			{"↑/↓ k/j", "Move between fields or alerts"},
		}},
		{"Alerts", [][2]string{
			{"enter", "Next field, or submit on the button"},
			{"d", "Delete the selected alert"},
			{"r", "Refresh alerts"},
		}},
		{"General", [][2]string{
			{"?", "Toggle help"},
			{"esc", "Dismiss error"},
			{"q", "Quit"},
			{"ctrl+c", "Quit from anywhere"},
		}},
	}

	var b strings.Builder
	b.WriteString(p.accent.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, section := range sections {
		b.WriteString(sectionTitleStyle.Render(section.title))
		b.WriteString("\n")
		for _, kv := range section.keys {
			b.WriteString(helpKeyStyle.Render(kv[0]))
			b.WriteString(helpDescStyle.Render(kv[1]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(noticeStyle.Render("Press ? or esc to return"))

	return helpBoxStyle.BorderForeground(p.glow).Render(b.String())
}

// renderConfirmView renders the delete confirmation dialog
func (m Model) renderConfirmView() string {
	body := fmt.Sprintf("Delete alert %q for %s?\n\n(y) Yes   (n) No", m.confirmName, m.City())
	return confirmBoxStyle.Render(body)
}
