package dashboard

import (
	"github.com/alexisbeaulieu97/weatherlens/internal/prefs"
)

// PreferenceSaver persists preference changes made from the dashboard.
// *prefs.Store implements it.
type PreferenceSaver interface {
	Update(fn func(*prefs.Preferences)) error
}
