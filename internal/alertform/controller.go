// Package alertform holds the transient input of the new-alert form and
// hands validated drafts to the alert store.
package alertform

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/weatherlens/internal/alert"
	"github.com/alexisbeaulieu97/weatherlens/internal/alertstore"
)

// Submitter accepts validated drafts. *alertstore.Store implements it.
type Submitter interface {
	Submit(draft alert.Draft) (tea.Cmd, error)
}

// Controller owns the form fields between submissions.
type Controller struct {
	store Submitter
	form  alert.Form
	err   error
}

// New creates an empty form bound to store.
func New(store Submitter) *Controller {
	return &Controller{store: store}
}

// SetField updates one field by name. Unknown names are ignored and report false.
func (c *Controller) SetField(field, value string) bool {
	return c.form.Set(field, value)
}

// Form returns the current raw input.
func (c *Controller) Form() alert.Form {
	return c.form
}

// Err returns the last validation or submit error, cleared by the next Submit.
func (c *Controller) Err() error {
	return c.err
}

// Reset clears every field and the last error.
func (c *Controller) Reset() {
	c.form = alert.Form{}
	c.err = nil
}

// Submit validates the form and, when it is valid, passes the draft to the
// store. A validation failure returns the error and no command, so nothing
// is sent.
func (c *Controller) Submit() (tea.Cmd, error) {
	c.err = nil

	draft, err := alert.Validate(c.form)
	if err != nil {
		c.err = err
		return nil, err
	}

	cmd, err := c.store.Submit(draft)
	if err != nil {
		c.err = err
		return nil, err
	}
	return cmd, nil
}

// Update clears the form when a create succeeds. Failed creates leave the
// input in place so the user can retry.
func (c *Controller) Update(msg tea.Msg) {
	result, ok := msg.(alertstore.CreateResultMsg)
	if !ok {
		return
	}
	if result.Succeeded() {
		c.Reset()
		return
	}
	c.err = result.Err
}
