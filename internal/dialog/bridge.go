package dialog

import (
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/gamehost/internal/eventqueue"
	"github.com/vovakirdan/gamehost/internal/uithread"
)

// ErrNoPresenter is used when a dialog is requested with no presenter attached.
var ErrNoPresenter = errors.New("dialog: no presenter")

// Presenter puts a dialog on screen. It is called on the UI goroutine and
// must not block; the user's choice is reported later through the Dialog.
type Presenter interface {
	Present(d *Dialog) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(d *Dialog) error

// Present calls f(d).
func (f PresenterFunc) Present(d *Dialog) error {
	return f(d)
}

// Sink receives dialog outcomes on the render goroutine. engine.Core satisfies it.
type Sink interface {
	OnMessageDialogClosed()
	OnConfirmDialogClosed(confirmed bool)
}

// Bridge routes dialog requests from the render goroutine to the UI
// goroutine and outcomes back to the render goroutine.
type Bridge struct {
	ui     uithread.Poster
	queue  *eventqueue.Queue
	sink   Sink
	logger *log.Logger

	mu        sync.Mutex
	presenter Presenter
	open      map[uuid.UUID]*Dialog
}

// NewBridge creates a bridge. The presenter may be attached later with SetPresenter.
func NewBridge(ui uithread.Poster, q *eventqueue.Queue, sink Sink, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bridge{
		ui:     ui,
		queue:  q,
		sink:   sink,
		logger: logger,
		open:   make(map[uuid.UUID]*Dialog),
	}
}

// SetPresenter replaces the presenter used for dialogs shown after the call.
func (b *Bridge) SetPresenter(p Presenter) {
	b.mu.Lock()
	b.presenter = p
	b.mu.Unlock()
}

// ShowMessage requests a message dialog. It returns immediately; the engine
// hears OnMessageDialogClosed exactly once, on the render goroutine.
func (b *Bridge) ShowMessage(title, message string) uuid.UUID {
	return b.show(KindMessage, title, message, func(bool) {
		b.queue.Enqueue(b.sink.OnMessageDialogClosed)
	})
}

// ShowConfirm requests a confirm dialog. The engine hears
// OnConfirmDialogClosed exactly once; true only for the affirmative button.
func (b *Bridge) ShowConfirm(title, message string) uuid.UUID {
	return b.show(KindConfirm, title, message, func(confirmed bool) {
		b.queue.Enqueue(func() { b.sink.OnConfirmDialogClosed(confirmed) })
	})
}

// Ask shows a confirm dialog for a host-side caller. onResult runs once on
// the UI goroutine.
func (b *Bridge) Ask(title, message, positive, negative string, onResult func(confirmed bool)) uuid.UUID {
	return b.ask(KindConfirm, title, message, positive, negative, onResult)
}

// Tell shows a message dialog for a host-side caller. onClosed runs once on
// the UI goroutine, however the dialog was closed.
func (b *Bridge) Tell(title, message string, onClosed func()) uuid.UUID {
	return b.ask(KindMessage, title, message, "", "", func(bool) {
		if onClosed != nil {
			onClosed()
		}
	})
}

func (b *Bridge) ask(kind Kind, title, message, positive, negative string, onResult func(bool)) uuid.UUID {
	d := newDialog(kind, title, message, nil)
	if positive != "" {
		d.Positive = positive
	}
	if negative != "" {
		d.Negative = negative
	}
	d.outcome = func(confirmed bool) {
		if onResult != nil {
			b.ui.Post(func() { onResult(confirmed) })
		}
	}
	return b.present(d)
}

func (b *Bridge) show(kind Kind, title, message string, outcome func(bool)) uuid.UUID {
	return b.present(newDialog(kind, title, message, outcome))
}

func (b *Bridge) present(d *Dialog) uuid.UUID {
	deliver := d.outcome
	d.outcome = func(confirmed bool) {
		b.forget(d.ID)
		b.logger.Debug("dialog closed", "id", d.ID, "kind", d.Kind, "confirmed", confirmed)
		deliver(confirmed)
	}

	b.mu.Lock()
	b.open[d.ID] = d
	b.mu.Unlock()

	b.ui.Post(func() {
		b.mu.Lock()
		p := b.presenter
		b.mu.Unlock()

		err := ErrNoPresenter
		if p != nil {
			err = p.Present(d)
		}
		if err != nil {
			b.logger.Warn("cannot present dialog", "id", d.ID, "title", d.Title, "error", err)
			d.Dismiss()
		}
	})
	return d.ID
}

func (b *Bridge) forget(id uuid.UUID) {
	b.mu.Lock()
	delete(b.open, id)
	b.mu.Unlock()
}

// Open returns the number of dialogs that have not been resolved.
func (b *Bridge) Open() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.open)
}

// DismissAll resolves every open dialog as dismissed.
func (b *Bridge) DismissAll() int {
	b.mu.Lock()
	pending := make([]*Dialog, 0, len(b.open))
	for _, d := range b.open {
		pending = append(pending, d)
	}
	b.mu.Unlock()

	n := 0
	for _, d := range pending {
		if d.Dismiss() {
			n++
		}
	}
	return n
}
