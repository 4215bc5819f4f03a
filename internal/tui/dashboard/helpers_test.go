package dashboard

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/weatherlens/internal/alert"
	"github.com/alexisbeaulieu97/weatherlens/internal/alertstore"
	"github.com/alexisbeaulieu97/weatherlens/internal/prefs"
	"github.com/alexisbeaulieu97/weatherlens/internal/units"
)

var createdAt = time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)

type fakeService struct {
	mu        sync.Mutex
	rules     map[string][]alert.Rule
	listErr   error
	createErr error
	deleteErr error
	created   []alert.Draft
	deleted   []string
	nextID    int
}

func newFakeService() *fakeService {
	return &fakeService{
		rules: map[string][]alert.Rule{
			"Delhi": {
				{ID: "d1", AlertName: "High Temp", Email: "asha@example.com", CityName: "Delhi", Temperature: 30, Humidity: ptr(60.0), CreatedAt: createdAt},
				{ID: "d2", AlertName: "Storm Watch", Email: "asha@example.com", CityName: "Delhi", Temperature: 25, WeatherCondition: alert.ConditionThunderstorm, CreatedAt: createdAt},
			},
			"Mumbai": {
				{ID: "m1", AlertName: "Humid", Email: "ravi@example.com", CityName: "Mumbai", Temperature: 28, CreatedAt: createdAt},
			},
		},
	}
}

func (f *fakeService) List(_ context.Context, city string) ([]alert.Rule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]alert.Rule, len(f.rules[city]))
	copy(out, f.rules[city])
	return out, nil
}

func (f *fakeService) Create(_ context.Context, draft alert.Draft) (alert.Rule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return alert.Rule{}, f.createErr
	}
	f.created = append(f.created, draft)
	f.nextID++
	rule := alert.Rule{
		ID:               fmt.Sprintf("n%d", f.nextID),
		AlertName:        draft.AlertName,
		Email:            draft.Email,
		CityName:         draft.CityName,
		Temperature:      draft.Temperature,
		Humidity:         draft.Humidity,
		WindSpeed:        draft.WindSpeed,
		CloudCoverage:    draft.CloudCoverage,
		WeatherCondition: draft.WeatherCondition,
		CreatedAt:        createdAt,
	}
	f.rules[draft.CityName] = append(f.rules[draft.CityName], rule)
	return rule, nil
}

func (f *fakeService) Delete(_ context.Context, city, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	kept := f.rules[city][:0]
	for _, r := range f.rules[city] {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.rules[city] = kept
	return nil
}

type recordingSaver struct {
	prefs prefs.Preferences
	err   error
	calls int
}

func (r *recordingSaver) Update(fn func(*prefs.Preferences)) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	fn(&r.prefs)
	return nil
}

func ptr(v float64) *float64 { return &v }

func day() *bool {
	night := false
	return &night
}

// newTestModel builds a dashboard on svc with Delhi selected and its rules
// loaded.
func newTestModel(t *testing.T, svc *fakeService, saver PreferenceSaver) Model {
	t.Helper()

	store := alertstore.New(svc, alertstore.WithFlashDuration(0))
	m := NewModel(Options{
		Store:     store,
		Cities:    []string{"Delhi", "Mumbai", "Pune"},
		City:      "Delhi",
		Prefs:     prefs.Preferences{Name: "Asha", Unit: units.Celsius},
		Saver:     saver,
		Condition: "clear",
		Night:     day(),
	})

	m = drain(t, m, m.Init())
	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return newModel.(Model)
}

// drain runs cmd and every follow-up, feeding results through Update.
// Spinner ticks and quit are dropped so the loop ends.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			updated, follow := m.Update(msg)
			var ok bool
			m, ok = updated.(Model)
			require.True(t, ok)
			queue = append(queue, follow)
		}
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends one key and returns the follow-up command without running it.
func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(keyMsg(k))
	next, ok := updated.(Model)
	require.True(t, ok)
	return next, cmd
}

// pressAll sends keys in order and discards their commands.
func pressAll(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = press(t, m, k)
	}
	return m
}

// fillForm types a valid rule into the form and leaves focus on the button.
func fillForm(t *testing.T, m Model) Model {
	t.Helper()
	return pressAll(t, m,
		"Heat Wave", "down",
		"asha@example.com", "down",
		"right", "down",
		"35", "down",
		"40", "down",
		"down",
		"down",
	)
}
