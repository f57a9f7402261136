package host

import (
	mlifecycle "golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/size"
	mtouch "golang.org/x/mobile/event/touch"
)

// HandleMobileEvent maps golang.org/x/mobile app events onto the host.
// It reports whether the event was recognized.
func (h *Host) HandleMobileEvent(e any) bool {
	switch e := e.(type) {
	case mlifecycle.Event:
		if e.Crosses(mlifecycle.StageVisible) == mlifecycle.CrossOn {
			h.Start()
			h.RecreateSurface()
		}
		switch e.Crosses(mlifecycle.StageFocused) {
		case mlifecycle.CrossOn:
			h.Resume()
		case mlifecycle.CrossOff:
			h.cancelTouches()
			h.Pause()
		}
		if e.Crosses(mlifecycle.StageVisible) == mlifecycle.CrossOff {
			h.Stop()
		}
		if e.Crosses(mlifecycle.StageAlive) == mlifecycle.CrossOff {
			h.Destroy()
		}
		return true

	case size.Event:
		h.Resize(e.WidthPx, e.HeightPx)
		return true

	case mtouch.Event:
		h.ui.Post(func() {
			if h.alive() {
				h.translator.Handle(h.mobile.Convert(e))
			}
		})
		return true
	}
	return false
}

// cancelTouches ends every contact still held when the host loses focus, so
// the engine never keeps a pointer pressed across a pause.
func (h *Host) cancelTouches() {
	h.ui.Post(func() {
		if h.alive() {
			h.translator.Handle(h.mobile.Reset())
		}
	})
}
