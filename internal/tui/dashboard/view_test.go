package dashboard

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/alexisbeaulieu97/weatherlens/internal/alertstore"
	"github.com/alexisbeaulieu97/weatherlens/internal/prefs"
	"github.com/alexisbeaulieu97/weatherlens/internal/units"
)

func TestView_Initializing(t *testing.T) {
	m := newTestModel(t, newFakeService(), nil)
	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 0, Height: 0})

	assert.Equal(t, "Initializing...", newModel.(Model).View())
}

func TestView_AlertsPage(t *testing.T) {
	m := newTestModel(t, newFakeService(), nil)
	view := m.View()

	assert.Contains(t, view, "Hello, Asha!")
	assert.Contains(t, view, "☀️")
	for _, city := range []string{"Delhi", "Mumbai", "Pune"} {
		assert.Contains(t, view, city)
	}
	assert.Contains(t, view, "Create Alert for Delhi")
	assert.Contains(t, view, "Weather Condition")
	assert.Contains(t, view, buttonIdle)

	assert.Contains(t, view, "Alerts for Delhi")
	assert.Contains(t, view, "High Temp")
	assert.Contains(t, view, "Storm Watch")
	assert.Contains(t, view, "asha@example.com")
	assert.Contains(t, view, "05/03/24")
	assert.Contains(t, view, "30°C")
	assert.Contains(t, view, "60%")
	assert.Contains(t, view, "Thunderstorm")
}

func TestView_GreetingWithoutName(t *testing.T) {
	m := newTestModel(t, newFakeService(), nil)
	m.prefs = prefs.Preferences{}

	assert.Contains(t, m.View(), "Hello!")
}

func TestView_TemperatureUsesPreferredUnit(t *testing.T) {
	m := newTestModel(t, newFakeService(), nil)
	m.prefs.Unit = units.Fahrenheit

	assert.Contains(t, m.View(), "86°F")
}

func TestView_NightIcon(t *testing.T) {
	m := newTestModel(t, newFakeService(), nil)
	m.night = true

	assert.Contains(t, m.View(), "🌙")
}

func TestView_EmptyCity(t *testing.T) {
	m := newTestModel(t, newFakeService(), nil)
	m = pressAll(t, m, "shift+tab")
	m, cmd := press(t, m, "left")
	m = drain(t, m, cmd)

	assert.Contains(t, m.View(), "No alerts found for Pune.")
}

func TestView_FetchFailure(t *testing.T) {
	svc := newFakeService()
	svc.listErr = errors.New("connection refused")
	m := newTestModel(t, svc, nil)

	view := m.View()
	assert.Contains(t, view, alertstore.FetchFailedMessage)
	assert.NotContains(t, view, "High Temp")
}

func TestView_Loading(t *testing.T) {
	m := newTestModel(t, newFakeService(), nil)
	m = pressAll(t, m, "shift+tab", "right")

	assert.Contains(t, m.View(), "Loading alerts...")
}

func TestView_DeleteFailureNotice(t *testing.T) {
	svc := newFakeService()
	svc.deleteErr = errors.New("boom")
	m := newTestModel(t, svc, nil)

	m = pressAll(t, m, "tab", "d")
	m, cmd := press(t, m, "y")
	m = drain(t, m, cmd)

	assert.Contains(t, m.View(), "Could not delete alert")
}

func TestView_ConfirmDialog(t *testing.T) {
	m := newTestModel(t, newFakeService(), nil)
	m = pressAll(t, m, "tab", "d")

	view := m.View()
	assert.Contains(t, view, `Delete alert "High Temp" for Delhi?`)
	assert.Contains(t, view, "(y) Yes")
}

func TestView_HelpScreen(t *testing.T) {
	m := newTestModel(t, newFakeService(), nil)
	m = pressAll(t, m, "tab", "?")

	view := m.View()
	assert.Contains(t, view, "Keyboard Shortcuts")
	assert.Contains(t, view, "Delete the selected alert")
}

func TestView_FooterFollowsFocus(t *testing.T) {
	m := newTestModel(t, newFakeService(), nil)
	assert.Contains(t, m.renderFooter(), "enter: Next/Submit")

	m = pressAll(t, m, "tab")
	assert.Contains(t, m.renderFooter(), "d: Delete")

	m = pressAll(t, m, "tab")
	assert.Contains(t, m.renderFooter(), "←/→: City")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "60", formatNumber(60))
	assert.Equal(t, "12.5", formatNumber(12.5))
	assert.Equal(t, "0", formatNumber(0))
}
