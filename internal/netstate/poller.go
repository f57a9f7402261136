package netstate

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	psnet "github.com/shirou/gopsutil/v3/net"
	"k8s.io/utils/clock"
)

// DefaultInterval is how often the Poller probes when none is configured.
const DefaultInterval = 2 * time.Second

// Probe reports whether the machine currently has usable connectivity.
type Probe func(ctx context.Context) (bool, error)

// InterfaceProbe reports connected when at least one non-loopback interface
// is up and carries an address.
func InterfaceProbe(ctx context.Context) (bool, error) {
	ifaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return false, fmt.Errorf("netstate: cannot list interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if !slices.Contains(iface.Flags, "up") || slices.Contains(iface.Flags, "loopback") {
			continue
		}
		if len(iface.Addrs) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// Poller runs a Probe on a ticker and passes each observation to Report.
// Report is called on the poller's goroutine.
type Poller struct {
	Clock    clock.WithTicker
	Interval time.Duration
	Probe    Probe
	Report   func(connected bool)
	Logger   *log.Logger
}

// Run probes once immediately and then on every tick until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	clk := p.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	probe := p.Probe
	if probe == nil {
		probe = InterfaceProbe
	}
	logger := p.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	check := func() {
		connected, err := probe(ctx)
		if err != nil {
			logger.Warn("connectivity probe failed", "error", err)
			return
		}
		p.Report(connected)
	}

	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			check()
		}
	}
}
