package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/weatherlens/internal/alert"
	"github.com/alexisbeaulieu97/weatherlens/internal/alertstore"
	"github.com/alexisbeaulieu97/weatherlens/internal/theme"
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// System messages
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		ApplyMaxWidth(m.width)

		// Check minimum terminal size
		const minWidth = 60
		const minHeight = 20
		if m.width < minWidth || m.height < minHeight {
			m.showError = true
			m.errorMsg = fmt.Sprintf("Terminal too small (%dx%d). Minimum size: %dx%d",
				m.width, m.height, minWidth, minHeight)
		} else if m.showError && strings.HasPrefix(m.errorMsg, "Terminal too small") {
			m.showError = false
			m.errorMsg = ""
		}

		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	// Spinner tick for loading animations
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	// Alert store results
	case alertstore.ListResultMsg:
		cmd := m.store.Update(msg)
		m.clampRuleCursor()
		return m, cmd

	case alertstore.CreateResultMsg:
		cmd := m.store.Update(msg)
		m.form.Update(msg)
		if msg.Succeeded() {
			m.resetInputs()
			m.focusField(0)
		} else {
			m.showError = true
			m.errorMsg = alertstore.CreateFailedMessage
		}
		return m, cmd

	case alertstore.DeleteResultMsg:
		cmd := m.store.Update(msg)
		m.clampRuleCursor()
		return m, cmd

	// Day and night
	case NightCheckMsg:
		if !m.nightFixed {
			m.night = theme.IsNight(msg.At)
		}
		return m, nightCheckCmd(m.clock)

	case PrefsSavedMsg:
		if msg.Err != nil {
			m.log.Error(msg.Err, "save preferences failed")
		}
		return m, nil

	// Error handling
	case ErrorMsg:
		m.showError = true
		m.errorMsg = msg.Message
		return m, nil

	case ClearErrorMsg:
		m.showError = false
		m.errorMsg = ""
		return m, nil
	}

	// Anything else may belong to the store, such as flash expiry.
	return m, m.store.Update(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewHelp:
		switch msg.String() {
		case "?", "esc", "q":
			m.viewMode = ViewAlerts
		}
		return m, nil

	case ViewConfirm:
		return m.handleConfirmKeys(msg)
	}

	switch msg.String() {
	case "tab":
		m.focus = m.focus.next()
		return m, m.focusField(m.fieldIdx)
	case "shift+tab":
		m.focus = m.focus.prev()
		return m, m.focusField(m.fieldIdx)
	}

	switch m.focus {
	case FocusCities:
		return m.handleCityKeys(msg)
	case FocusRules:
		return m.handleRuleKeys(msg)
	default:
		return m.handleFormKeys(msg)
	}
}

// handleGlobalKeys handles keys shared by the sections that do not take text.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.viewMode = ViewHelp
	case "r":
		return m, m.store.Refresh()
	case "esc":
		m.showError = false
		m.errorMsg = ""
	}
	return m, nil
}

func (m Model) handleCityKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.cities) == 0 {
		return m.handleGlobalKeys(msg)
	}

	switch msg.String() {
	case "left", "h":
		return m.selectCity(m.cityIdx - 1)
	case "right", "l":
		return m.selectCity(m.cityIdx + 1)
	}
	return m.handleGlobalKeys(msg)
}

// selectCity switches the selected city and remembers it.
func (m Model) selectCity(index int) (tea.Model, tea.Cmd) {
	n := len(m.cities)
	m.cityIdx = ((index % n) + n) % n
	m.ruleCursor = 0
	city := m.City()
	return m, tea.Batch(m.store.SelectCity(city), saveLastCityCmd(m.saver, city))
}

func (m Model) handleRuleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.ruleCursor > 0 {
			m.ruleCursor--
		}
		return m, nil
	case "down", "j":
		if m.ruleCursor < len(m.store.Rules())-1 {
			m.ruleCursor++
		}
		return m, nil
	case "d", "delete", "x":
		rule, ok := m.selectedRule()
		if !ok {
			return m, nil
		}
		m.confirmID = rule.ID
		m.confirmName = rule.AlertName
		m.viewMode = ViewConfirm
		return m, nil
	}
	return m.handleGlobalKeys(msg)
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.confirmID
		m.viewMode = ViewAlerts
		m.confirmID = ""
		m.confirmName = ""
		return m, m.store.Delete(id)
	case "n", "N", "esc", "q":
		m.viewMode = ViewAlerts
		m.confirmID = ""
		m.confirmName = ""
	}
	return m, nil
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := m.currentField()

	switch msg.String() {
	case "up", "shift+up":
		return m, m.focusField(m.fieldIdx - 1)
	case "down", "shift+down":
		return m, m.focusField(m.fieldIdx + 1)
	case "esc":
		m.showError = false
		m.errorMsg = ""
		return m, nil
	case "enter":
		if field != "" && field != alert.FieldWeatherCondition {
			return m, m.focusField(m.fieldIdx + 1)
		}
		if field == "" {
			return m.submit()
		}
	}

	if field == alert.FieldWeatherCondition {
		switch msg.String() {
		case "left", "h":
			m.cycleCondition(-1)
		case "right", "l", " ", "enter":
			m.cycleCondition(1)
		}
		return m, nil
	}

	if field == "" {
		return m.handleGlobalKeys(msg)
	}

	ti := m.inputs[field]
	var cmd tea.Cmd
	ti, cmd = ti.Update(msg)
	m.inputs[field] = ti
	m.form.SetField(field, ti.Value())
	return m, cmd
}

// submit validates the form and starts a create when it is valid.
func (m Model) submit() (tea.Model, tea.Cmd) {
	cmd, err := m.form.Submit()
	if err != nil {
		m.showError = true
		m.errorMsg = err.Error()
		return m, nil
	}
	m.showError = false
	m.errorMsg = ""
	return m, cmd
}
