// Package dialog shows modal dialogs on the UI goroutine on behalf of the
// render goroutine and hands the outcome back through the event queue.
package dialog

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Kind selects the buttons a dialog offers.
type Kind int

const (
	// KindMessage has a single acknowledge button.
	KindMessage Kind = iota
	// KindConfirm has an affirmative and a negative button.
	KindConfirm
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	if k == KindConfirm {
		return "confirm"
	}
	return "message"
}

// Dialog is one presented dialog. Exactly one of Confirm, Cancel or Dismiss
// takes effect; later calls are no-ops. All three are safe from any goroutine.
type Dialog struct {
	ID       uuid.UUID
	Kind     Kind
	Title    string
	Message  string
	Positive string
	Negative string

	resolved atomic.Bool
	outcome  func(confirmed bool)
}

func newDialog(kind Kind, title, message string, outcome func(bool)) *Dialog {
	d := &Dialog{
		ID:       uuid.New(),
		Kind:     kind,
		Title:    title,
		Message:  message,
		Positive: "OK",
		outcome:  outcome,
	}
	if kind == KindConfirm {
		d.Positive = "Yes"
		d.Negative = "No"
	}
	return d
}

// Confirm resolves with the affirmative button. For a message dialog this
// is the acknowledge button. It reports whether this call resolved the dialog.
func (d *Dialog) Confirm() bool {
	return d.resolve(true)
}

// Cancel resolves with the negative button.
func (d *Dialog) Cancel() bool {
	return d.resolve(false)
}

// Dismiss resolves because the dialog was closed some other way (back,
// outside tap, host teardown). It counts as negative.
func (d *Dialog) Dismiss() bool {
	return d.resolve(false)
}

// Resolved reports whether an outcome was already chosen.
func (d *Dialog) Resolved() bool {
	return d.resolved.Load()
}

func (d *Dialog) resolve(confirmed bool) bool {
	if !d.resolved.CompareAndSwap(false, true) {
		return false
	}
	if d.Kind == KindMessage {
		confirmed = true
	}
	if d.outcome != nil {
		d.outcome(confirmed)
	}
	return true
}

// String is used in log lines.
func (d *Dialog) String() string {
	return fmt.Sprintf("%s %q", d.Kind, d.Title)
}
