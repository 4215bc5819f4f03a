package dashboard

import "time"

// ViewMode determines which screen to render
type ViewMode int

const (
	ViewAlerts ViewMode = iota
	ViewHelp
	ViewConfirm
)

// Focus names the section receiving keyboard input.
type Focus int

const (
	FocusCities Focus = iota
	FocusForm
	FocusRules
)

func (f Focus) next() Focus {
	return (f + 1) % 3
}

func (f Focus) prev() Focus {
	return (f + 2) % 3
}

// NightCheckMsg asks the model to recompute day or night from the clock.
type NightCheckMsg struct {
	At time.Time
}

// PrefsSavedMsg reports the outcome of persisting the selected city.
type PrefsSavedMsg struct {
	Err error
}

// ErrorMsg shows a banner.
type ErrorMsg struct {
	Message string
}

// ClearErrorMsg hides the banner.
type ClearErrorMsg struct{}
