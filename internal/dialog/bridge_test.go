package dialog

import (
	"errors"
	"sync"
	"testing"

	"github.com/vovakirdan/gamehost/internal/eventqueue"
	"github.com/vovakirdan/gamehost/internal/uithread"
)

type outcomeSink struct {
	messages int
	confirms []bool
}

func (s *outcomeSink) OnMessageDialogClosed()       { s.messages++ }
func (s *outcomeSink) OnConfirmDialogClosed(c bool) { s.confirms = append(s.confirms, c) }

// capture keeps presented dialogs so tests can press buttons on them.
type capture struct {
	dialogs []*Dialog
}

func (c *capture) Present(d *Dialog) error {
	c.dialogs = append(c.dialogs, d)
	return nil
}

func newTestBridge() (*Bridge, *eventqueue.Queue, *outcomeSink, *capture) {
	q := eventqueue.New(nil)
	sink := &outcomeSink{}
	p := &capture{}
	b := NewBridge(uithread.Inline{}, q, sink, nil)
	b.SetPresenter(p)
	return b, q, sink, p
}

func TestConfirmDismissDeliversFalseOnce(t *testing.T) {
	b, q, sink, p := newTestBridge()

	b.ShowConfirm("Quit?", "Really quit?")
	if len(p.dialogs) != 1 {
		t.Fatalf("presented %d dialogs, expected 1", len(p.dialogs))
	}
	d := p.dialogs[0]
	if d.Kind != KindConfirm || d.Positive != "Yes" || d.Negative != "No" {
		t.Errorf("dialog = %+v, expected a Yes/No confirm", d)
	}

	if !d.Dismiss() {
		t.Error("first Dismiss() should resolve the dialog")
	}
	if d.Dismiss() || d.Confirm() {
		t.Error("later resolutions should be no-ops")
	}

	if len(sink.confirms) != 0 {
		t.Fatal("outcome should wait for the render goroutine")
	}
	q.Drain()

	if len(sink.confirms) != 1 || sink.confirms[0] {
		t.Errorf("confirms = %v, expected [false]", sink.confirms)
	}
	if b.Open() != 0 {
		t.Errorf("Open() = %d, expected 0 after resolution", b.Open())
	}
}

func TestConfirmOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		press    func(*Dialog) bool
		expected bool
	}{
		{"affirmative", (*Dialog).Confirm, true},
		{"negative", (*Dialog).Cancel, false},
		{"dismissed", (*Dialog).Dismiss, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, q, sink, p := newTestBridge()
			b.ShowConfirm("t", "m")
			tc.press(p.dialogs[0])
			q.Drain()

			if len(sink.confirms) != 1 || sink.confirms[0] != tc.expected {
				t.Errorf("confirms = %v, expected [%v]", sink.confirms, tc.expected)
			}
		})
	}
}

func TestMessageClosedOnAnyExit(t *testing.T) {
	b, q, sink, p := newTestBridge()

	b.ShowMessage("Hello", "World")
	b.ShowMessage("Again", "World")
	p.dialogs[0].Confirm()
	p.dialogs[1].Dismiss()
	p.dialogs[1].Confirm()
	q.Drain()

	if sink.messages != 2 {
		t.Errorf("messages = %d, expected 2", sink.messages)
	}
	if len(sink.confirms) != 0 {
		t.Errorf("message dialogs should not report confirm outcomes, got %v", sink.confirms)
	}
}

func TestPresenterFailureResolvesNegative(t *testing.T) {
	q := eventqueue.New(nil)
	sink := &outcomeSink{}
	b := NewBridge(uithread.Inline{}, q, sink, nil)
	b.SetPresenter(PresenterFunc(func(*Dialog) error { return errors.New("window gone") }))

	b.ShowConfirm("t", "m")
	q.Drain()
	if len(sink.confirms) != 1 || sink.confirms[0] {
		t.Errorf("confirms = %v, expected [false]", sink.confirms)
	}

	b.SetPresenter(nil)
	b.ShowMessage("t", "m")
	q.Drain()
	if sink.messages != 1 {
		t.Errorf("messages = %d, expected 1 when no presenter is attached", sink.messages)
	}
}

func TestConcurrentResolutionDeliversOnce(t *testing.T) {
	b, q, sink, p := newTestBridge()
	b.ShowConfirm("race", "m")
	d := p.dialogs[0]

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				d.Confirm()
			} else {
				d.Dismiss()
			}
		}()
	}
	wg.Wait()
	q.Drain()

	if len(sink.confirms) != 1 {
		t.Errorf("confirms = %v, expected exactly one outcome", sink.confirms)
	}
}

func TestAskRunsCallbackOnUIGoroutine(t *testing.T) {
	b, q, _, p := newTestBridge()

	var got []bool
	b.Ask("Rate", "Enjoying it?", "Rate now", "Later", func(c bool) { got = append(got, c) })
	d := p.dialogs[0]
	if d.Positive != "Rate now" || d.Negative != "Later" {
		t.Errorf("buttons = %q/%q, expected custom labels", d.Positive, d.Negative)
	}

	d.Confirm()
	if len(got) != 1 || !got[0] {
		t.Errorf("callback got %v, expected [true]", got)
	}
	if q.Len() != 0 {
		t.Error("host-side dialogs should not enqueue engine tasks")
	}
}

func TestDismissAll(t *testing.T) {
	b, q, sink, _ := newTestBridge()
	b.ShowConfirm("a", "m")
	b.ShowMessage("b", "m")

	if n := b.DismissAll(); n != 2 {
		t.Errorf("DismissAll() = %d, expected 2", n)
	}
	q.Drain()
	if sink.messages != 1 || len(sink.confirms) != 1 {
		t.Errorf("messages=%d confirms=%v after DismissAll", sink.messages, sink.confirms)
	}
}

func TestTellRunsCallbackOnce(t *testing.T) {
	b, q, sink, p := newTestBridge()

	closed := 0
	b.Tell("Advertisement", "Enjoy the break", func() { closed++ })
	if len(p.dialogs) != 1 || p.dialogs[0].Kind != KindMessage {
		t.Fatalf("presented %v, expected one message dialog", p.dialogs)
	}

	p.dialogs[0].Cancel()
	p.dialogs[0].Confirm()
	q.Drain()

	if closed != 1 {
		t.Errorf("onClosed ran %d times, expected 1", closed)
	}
	if sink.messages != 0 {
		t.Errorf("engine heard %d message closes, expected none for a host dialog", sink.messages)
	}
}
