package dashboard

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/alexisbeaulieu97/weatherlens/internal/alert"
	"github.com/alexisbeaulieu97/weatherlens/internal/alertform"
	"github.com/alexisbeaulieu97/weatherlens/internal/alertstore"
	"github.com/alexisbeaulieu97/weatherlens/internal/logger"
	"github.com/alexisbeaulieu97/weatherlens/internal/prefs"
	"github.com/alexisbeaulieu97/weatherlens/internal/theme"
)

// backgroundRows is the height of the decorative strip under the header.
const backgroundRows = 2

// Options configures the dashboard.
type Options struct {
	Store     *alertstore.Store
	Cities    []string
	City      string
	Prefs     prefs.Preferences
	Saver     PreferenceSaver
	Condition string
	// Night forces night (true) or day (false); nil follows the clock.
	Night    *bool
	Clock    clockwork.Clock
	Renderer theme.BackgroundRenderer
	Logger   *logger.Logger
}

// Model is the alerts page model
type Model struct {
	// Core data
	store *alertstore.Store
	form  *alertform.Controller
	saver PreferenceSaver
	log   *logger.Logger
	prefs prefs.Preferences

	// City selection
	cities  []string
	cityIdx int

	// Theme inputs
	condition  string
	night      bool
	nightFixed bool
	clock      clockwork.Clock
	renderer   theme.BackgroundRenderer

	// Form state
	inputs       map[string]textinput.Model
	fieldIdx     int
	conditionIdx int

	// UI state
	viewMode    ViewMode
	focus       Focus
	ruleCursor  int
	confirmID   string
	confirmName string
	spinner     spinner.Model
	showError   bool
	errorMsg    string

	// Dimensions
	width  int
	height int
}

// NewModel creates a new dashboard model
func NewModel(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = theme.StaticRenderer{}
	}

	m := Model{
		store:     opts.Store,
		form:      alertform.New(opts.Store),
		saver:     opts.Saver,
		log:       opts.Logger,
		prefs:     opts.Prefs,
		cities:    opts.Cities,
		condition: opts.Condition,
		clock:     clock,
		renderer:  renderer,
		inputs:    make(map[string]textinput.Model),
		viewMode:  ViewAlerts,
		focus:     FocusForm,
		spinner:   s,
		width:     80,
		height:    24,
	}

	for i, city := range m.cities {
		if city == opts.City {
			m.cityIdx = i
		}
	}

	if opts.Night != nil {
		m.night = *opts.Night
		m.nightFixed = true
	} else {
		m.night = theme.IsNight(clock.Now())
	}

	for _, field := range alert.FormFields() {
		if field == alert.FieldWeatherCondition {
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[field]
		ti.CharLimit = 64
		m.inputs[field] = ti
	}
	m.focusField(0)

	return m
}

// Init selects the initial city and starts the spinner and night clock.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if city := m.City(); city != "" {
		cmds = append(cmds, m.store.SelectCity(city))
	}
	if !m.nightFixed {
		cmds = append(cmds, nightCheckCmd(m.clock))
	}
	return tea.Batch(cmds...)
}

var fieldLabels = map[string]string{
	alert.FieldAlertName:        "Alert Name",
	alert.FieldEmail:            "Email",
	alert.FieldWeatherCondition: "Weather Condition",
	alert.FieldTemperature:      "Temperature (°C)",
	alert.FieldHumidity:         "Humidity (%)",
	alert.FieldWindSpeed:        "Wind Speed (km/h)",
	alert.FieldCloudCoverage:    "Cloud Coverage (%)",
}

var placeholders = map[string]string{
	alert.FieldAlertName:     "High Temp",
	alert.FieldEmail:         "you@example.com",
	alert.FieldTemperature:   "required",
	alert.FieldHumidity:      "optional",
	alert.FieldWindSpeed:     "optional",
	alert.FieldCloudCoverage: "optional",
}

// Helper Methods

// City returns the selected city, or "" when no cities are configured.
func (m Model) City() string {
	if m.cityIdx < 0 || m.cityIdx >= len(m.cities) {
		return ""
	}
	return m.cities[m.cityIdx]
}

// Focus returns the section receiving keys.
func (m Model) Focus() Focus {
	return m.focus
}

// GetViewMode returns the current view mode
func (m Model) GetViewMode() ViewMode {
	return m.viewMode
}

// ErrorMessage returns the banner text, or "" when no banner is shown.
func (m Model) ErrorMessage() string {
	if !m.showError {
		return ""
	}
	return m.errorMsg
}

// Form returns the raw input held by the form controller.
func (m Model) Form() alert.Form {
	return m.form.Form()
}

// IsNight reports whether the night theme is active.
func (m Model) IsNight() bool {
	return m.night
}

func (m Model) descriptor() theme.Descriptor {
	return theme.Derive(m.condition, m.night)
}

// fieldCount includes the submit button after the last form field.
func fieldCount() int {
	return len(alert.FormFields()) + 1
}

func (m Model) currentField() string {
	fields := alert.FormFields()
	if m.fieldIdx < len(fields) {
		return fields[m.fieldIdx]
	}
	return ""
}

// focusField moves keyboard focus inside the form, blurring the old input.
func (m *Model) focusField(index int) tea.Cmd {
	n := fieldCount()
	m.fieldIdx = ((index % n) + n) % n

	var cmd tea.Cmd
	for field, ti := range m.inputs {
		if field == m.currentField() && m.focus == FocusForm {
			cmd = ti.Focus()
		} else {
			ti.Blur()
		}
		m.inputs[field] = ti
	}
	return cmd
}

func (m Model) conditionOptions() []alert.Condition {
	return append([]alert.Condition{alert.ConditionAny}, alert.Conditions()...)
}

// cycleCondition steps through the condition picker and mirrors the choice
// into the form.
func (m *Model) cycleCondition(delta int) {
	options := m.conditionOptions()
	n := len(options)
	m.conditionIdx = ((m.conditionIdx+delta)%n + n) % n
	m.form.SetField(alert.FieldWeatherCondition, string(options[m.conditionIdx]))
}

// resetInputs clears every widget after a successful create.
func (m *Model) resetInputs() {
	for field, ti := range m.inputs {
		ti.SetValue("")
		m.inputs[field] = ti
	}
	m.conditionIdx = 0
}

// clampRuleCursor keeps the rule cursor inside the current list.
func (m *Model) clampRuleCursor() {
	n := len(m.store.Rules())
	if m.ruleCursor >= n {
		m.ruleCursor = n - 1
	}
	if m.ruleCursor < 0 {
		m.ruleCursor = 0
	}
}

// selectedRule returns the rule under the cursor.
func (m Model) selectedRule() (alert.Rule, bool) {
	rules := m.store.Rules()
	if m.ruleCursor < 0 || m.ruleCursor >= len(rules) {
		return alert.Rule{}, false
	}
	return rules[m.ruleCursor], true
}
