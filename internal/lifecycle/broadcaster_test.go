package lifecycle

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

type recorder struct {
	Base
	name    string
	log     *[]string
	back    bool
	claims  int
	explode bool
}

func (r *recorder) note(event string) {
	*r.log = append(*r.log, r.name+":"+event)
}

func (r *recorder) OnStart()  { r.note("start") }
func (r *recorder) OnPause()  { r.note("pause") }
func (r *recorder) OnResume() { r.note("resume") }

func (r *recorder) OnStop() {
	r.note("stop")
	if r.explode {
		panic("listener exploded")
	}
}

func (r *recorder) OnBackPressed() bool {
	r.note("back")
	if r.explode {
		panic("listener exploded")
	}
	return r.back
}

func (r *recorder) OnActivityResult(res ActivityResult) bool {
	r.note("result")
	return res.RequestCode == r.claims
}

func (r *recorder) OnNetworkStateChanged(connected bool) {
	if connected {
		r.note("online")
	} else {
		r.note("offline")
	}
}

func expectLog(t *testing.T, got []string, expected string) {
	t.Helper()
	if strings.Join(got, " ") != expected {
		t.Errorf("calls = %q, expected %q", strings.Join(got, " "), expected)
	}
}

func TestBackPressedAggregatesWithoutShortCircuit(t *testing.T) {
	var calls []string
	b := NewBroadcaster(nil)
	b.Register(&recorder{name: "l1", log: &calls})
	b.Register(&recorder{name: "l2", log: &calls, back: true})
	b.Register(&recorder{name: "l3", log: &calls})

	if !b.BackPressed() {
		t.Error("BackPressed() = false, expected true when one listener handles it")
	}
	expectLog(t, calls, "l1:back l2:back l3:back")
}

func TestBackPressedUnhandled(t *testing.T) {
	var calls []string
	b := NewBroadcaster(nil)
	b.Register(&recorder{name: "l1", log: &calls})

	if b.BackPressed() {
		t.Error("BackPressed() = true, expected false")
	}
}

func TestActivityResultAggregates(t *testing.T) {
	var calls []string
	b := NewBroadcaster(nil)
	b.Register(&recorder{name: "ads", log: &calls, claims: 1})
	b.Register(&recorder{name: "billing", log: &calls, claims: 10001})

	tests := []struct {
		code     int
		expected bool
	}{
		{10001, true},
		{1, true},
		{42, false},
	}
	for _, tc := range tests {
		if got := b.ActivityResult(ActivityResult{RequestCode: tc.code}); got != tc.expected {
			t.Errorf("ActivityResult(%d) = %v, expected %v", tc.code, got, tc.expected)
		}
	}
	if len(calls) != 6 {
		t.Errorf("expected every listener to see every result, got %v", calls)
	}
}

func TestRegisterIsIdempotentAndOrdered(t *testing.T) {
	var calls []string
	b := NewBroadcaster(nil)
	a := &recorder{name: "a", log: &calls}
	c := &recorder{name: "c", log: &calls}

	b.Register(a)
	b.Register(c)
	b.Register(a)
	b.Register(nil)

	if b.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", b.Len())
	}

	b.Start()
	b.Resume()
	expectLog(t, calls, "a:start c:start a:resume c:resume")
}

func TestPanickingListenerDoesNotStopFanOut(t *testing.T) {
	var calls []string
	var buf bytes.Buffer
	b := NewBroadcaster(log.New(&buf))
	b.Register(&recorder{name: "bad", log: &calls, explode: true, back: true})
	b.Register(&recorder{name: "good", log: &calls})

	b.Stop()
	expectLog(t, calls, "bad:stop good:stop")

	if b.BackPressed() {
		t.Error("a panicking listener should count as not handled")
	}
	if !strings.Contains(buf.String(), "listener exploded") {
		t.Errorf("expected failure to be logged, got %q", buf.String())
	}
}

type selfRemover struct {
	Base
	b     *Broadcaster
	calls *int
}

func (s *selfRemover) OnPause() {
	*s.calls++
	s.b.Unregister(s)
}

func TestUnregisterDuringCallbackIsSafe(t *testing.T) {
	b := NewBroadcaster(nil)
	var firstCalls, secondCalls int
	first := &selfRemover{b: b, calls: &firstCalls}
	second := &selfRemover{b: b, calls: &secondCalls}
	b.Register(first)
	b.Register(second)

	b.Pause()
	if firstCalls != 1 || secondCalls != 1 {
		t.Errorf("calls = %d/%d, expected both listeners in the snapshot to run once", firstCalls, secondCalls)
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d, expected 0 after self-removal", b.Len())
	}

	b.Pause()
	if firstCalls != 1 {
		t.Error("unregistered listener should not be called again")
	}
}

func TestNetworkStateChangedReachesEveryone(t *testing.T) {
	var calls []string
	b := NewBroadcaster(nil)
	b.Register(&recorder{name: "a", log: &calls})
	b.Register(&recorder{name: "b", log: &calls})

	b.NetworkStateChanged(false)
	b.NetworkStateChanged(true)
	expectLog(t, calls, "a:offline b:offline a:online b:online")
}

func TestTransitionString(t *testing.T) {
	if Destroy.String() != "destroy" {
		t.Errorf("Destroy.String() = %q, expected %q", Destroy.String(), "destroy")
	}
	if Transition(99).String() != "unknown" {
		t.Errorf("Transition(99).String() = %q, expected unknown", Transition(99).String())
	}
}
