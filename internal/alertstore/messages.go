package alertstore

import "github.com/alexisbeaulieu97/weatherlens/internal/alert"

// ListResultMsg carries the outcome of a list request. City and Seq identify
// the request so superseded results can be dropped.
type ListResultMsg struct {
	City  string
	Seq   uint64
	Rules []alert.Rule
	Err   error
}

// CreateResultMsg carries the outcome of a create request.
type CreateResultMsg struct {
	City string
	Rule alert.Rule
	Err  error
}

// Succeeded reports whether the rule was stored.
func (m CreateResultMsg) Succeeded() bool {
	return m.Err == nil
}

// DeleteResultMsg carries the outcome of a delete request.
type DeleteResultMsg struct {
	City string
	ID   string
	Err  error
}

// flashExpiredMsg ends the success flash identified by token.
type flashExpiredMsg struct {
	token uint64
}
