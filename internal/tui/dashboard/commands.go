package dashboard

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/alexisbeaulieu97/weatherlens/internal/prefs"
)

// nightCheckInterval is how often the day/night theme is re-evaluated.
const nightCheckInterval = time.Minute

// nightCheckCmd waits one interval on clock and reports the time.
func nightCheckCmd(clock clockwork.Clock) tea.Cmd {
	return func() tea.Msg {
		at := <-clock.After(nightCheckInterval)
		return NightCheckMsg{At: at}
	}
}

// saveLastCityCmd records city as the last selected one.
func saveLastCityCmd(saver PreferenceSaver, city string) tea.Cmd {
	if saver == nil {
		return nil
	}
	return func() tea.Msg {
		err := saver.Update(func(p *prefs.Preferences) {
			p.LastCity = city
		})
		return PrefsSavedMsg{Err: err}
	}
}
