package services

import (
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// LogAnalytics writes analytics events to the structured log.
type LogAnalytics struct {
	logger *log.Logger

	mu    sync.Mutex
	cache map[string]string
	sent  int
}

// NewLogAnalytics creates an analytics service logging to logger.
func NewLogAnalytics(logger *log.Logger) *LogAnalytics {
	return &LogAnalytics{logger: logger, cache: make(map[string]string)}
}

// Send records event with its data.
func (a *LogAnalytics) Send(event string, data map[string]string) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, 2+2*len(keys))
	kv = append(kv, "event", event)
	for _, k := range keys {
		kv = append(kv, k, data[k])
	}
	a.logger.Info("analytics", kv...)

	a.mu.Lock()
	a.sent++
	a.mu.Unlock()
}

// PutData adds a field to the pending event data.
func (a *LogAnalytics) PutData(key, value string) {
	a.mu.Lock()
	a.cache[key] = value
	a.mu.Unlock()
}

// ClearData drops the pending event data.
func (a *LogAnalytics) ClearData() {
	a.mu.Lock()
	clear(a.cache)
	a.mu.Unlock()
}

// SendData sends event with the pending data. The data is kept.
func (a *LogAnalytics) SendData(event string) {
	a.mu.Lock()
	data := make(map[string]string, len(a.cache))
	for k, v := range a.cache {
		data[k] = v
	}
	a.mu.Unlock()
	a.Send(event, data)
}

// Sent returns the number of events sent.
func (a *LogAnalytics) Sent() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sent
}
