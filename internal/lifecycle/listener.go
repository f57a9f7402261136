// Package lifecycle fans host lifecycle transitions out to registered
// listeners (SDK services) on the UI goroutine.
package lifecycle

// ActivityResult is the outcome of an external activity or flow the host
// launched on behalf of a service, such as a purchase sheet.
type ActivityResult struct {
	RequestCode int
	ResultCode  int
	Data        map[string]string
}

// Result codes, matching the host platform's conventions.
const (
	ResultCanceled = 0
	ResultOK       = -1
)

// Listener receives lifecycle transitions. All methods run on the UI goroutine.
type Listener interface {
	OnStart()
	OnResume()
	OnPause()
	OnStop()
	OnDestroy()
	// OnBackPressed reports whether the listener consumed the back action.
	OnBackPressed() bool
	// OnActivityResult reports whether the listener owned the request.
	OnActivityResult(r ActivityResult) bool
	OnNetworkStateChanged(connected bool)
}

// Base implements Listener with no-ops. Embed it and override what you need.
type Base struct{}

func (Base) OnStart()                              {}
func (Base) OnResume()                             {}
func (Base) OnPause()                              {}
func (Base) OnStop()                               {}
func (Base) OnDestroy()                            {}
func (Base) OnBackPressed() bool                   { return false }
func (Base) OnActivityResult(ActivityResult) bool  { return false }
func (Base) OnNetworkStateChanged(connected bool) {}

// Transition names a simple lifecycle event.
type Transition int

const (
	Start Transition = iota
	Resume
	Pause
	Stop
	Destroy
)

// String returns a human-readable name for the transition.
func (t Transition) String() string {
	switch t {
	case Start:
		return "start"
	case Resume:
		return "resume"
	case Pause:
		return "pause"
	case Stop:
		return "stop"
	case Destroy:
		return "destroy"
	default:
		return "unknown"
	}
}
