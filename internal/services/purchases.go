package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gamehost/internal/eventqueue"
	"github.com/vovakirdan/gamehost/internal/lifecycle"
	"github.com/vovakirdan/gamehost/internal/uithread"
)

// PurchaseRequestCode tags activity results that belong to the purchase flow.
const PurchaseRequestCode = 10001

// ErrBillingState is returned when an operation is not valid in the current
// billing state.
var ErrBillingState = errors.New("purchases: wrong billing state")

// BillingState is the life of the billing connection.
type BillingState int

const (
	StateUninitialized BillingState = iota
	StateSettingUp
	StateReady
	StateQuerying
	StateQueried
	StateDisposed
)

func (s BillingState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSettingUp:
		return "setting up"
	case StateReady:
		return "ready"
	case StateQuerying:
		return "querying"
	case StateQueried:
		return "queried"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// PurchasesSink receives purchase results on the render goroutine.
type PurchasesSink interface {
	// OnProductsFetched lists the aliases of products available for sale.
	OnProductsFetched(aliases []string)
	OnProductPurchased(alias string)
}

// Purchases maps product aliases to store products and drives a
// BillingBackend. Engine calls return at once; the backend runs on the UI
// goroutine and results are queued for the render goroutine.
type Purchases struct {
	lifecycle.Base

	ui      uithread.Poster
	queue   *eventqueue.Queue
	backend BillingBackend
	sink    PurchasesSink
	logger  *log.Logger

	aliases map[string]string // Alias to product id

	mu        sync.Mutex
	state     BillingState
	inventory *Inventory
}

// NewPurchases creates the purchases service. Without a configured public
// key or a backend the service stays disabled and every call fails.
func NewPurchases(env Env, backend BillingBackend, sink PurchasesSink, logger *log.Logger) *Purchases {
	p := &Purchases{
		ui:      env.UI,
		queue:   env.Queue,
		sink:    sink,
		logger:  logger,
		aliases: make(map[string]string),
	}
	for alias, prod := range env.Config.Purchases.Products {
		if prod.ID == "" {
			logger.Error("product id must be set", "alias", alias)
			continue
		}
		p.aliases[alias] = prod.ID
	}

	switch {
	case env.Config.Purchases.PublicKey == "":
		logger.Error("application public key should be set in config", "key", "services.purchases.public_key")
	case backend == nil:
		logger.Error("no billing backend")
	default:
		p.backend = backend
	}
	return p
}

// State returns the current billing state.
func (p *Purchases) State() BillingState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// ProductID returns the store product id for alias.
func (p *Purchases) ProductID(alias string) (string, bool) {
	id, ok := p.aliases[alias]
	return id, ok
}

// aliasesFor returns every alias mapped to id, sorted.
func (p *Purchases) aliasesFor(id string) []string {
	var out []string
	for alias, pid := range p.aliases {
		if pid == id {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

func (p *Purchases) productIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, id := range p.aliases {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// FetchProducts sets up billing if needed and queries the catalog.
// OnProductsFetched follows on success. It is a no-op once products were
// fetched or while a fetch is running.
func (p *Purchases) FetchProducts() error {
	p.mu.Lock()
	if p.backend == nil || p.state == StateDisposed {
		state := p.state
		p.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrBillingState, state)
	}

	var next func()
	switch p.state {
	case StateUninitialized:
		p.state = StateSettingUp
		next = p.setup
	case StateReady:
		p.state = StateQuerying
		next = p.query
	}
	p.mu.Unlock()

	if next != nil {
		p.ui.Post(next)
	}
	return nil
}

func (p *Purchases) setup() {
	p.mu.Lock()
	if p.state != StateSettingUp {
		p.mu.Unlock()
		return
	}
	backend := p.backend
	p.mu.Unlock()

	if err := backend.Setup(); err != nil {
		p.logger.Error("problem setting up billing", "error", err)
		p.transition(StateSettingUp, StateUninitialized)
		return
	}
	if p.transition(StateSettingUp, StateQuerying) {
		p.query()
	}
}

func (p *Purchases) query() {
	p.mu.Lock()
	if p.state != StateQuerying {
		p.mu.Unlock()
		return
	}
	backend := p.backend
	p.mu.Unlock()

	inv, err := backend.Query(p.productIDs())
	if err != nil {
		p.logger.Error("failed to query inventory", "error", err)
		p.transition(StateQuerying, StateReady)
		return
	}

	p.mu.Lock()
	if p.state != StateQuerying {
		p.mu.Unlock()
		return
	}
	p.state = StateQueried
	p.inventory = inv
	p.mu.Unlock()

	var available []string
	for _, id := range inv.IDs() {
		available = append(available, p.aliasesFor(id)...)
	}
	p.logger.Debug("products fetched", "available", available)
	p.deliver(func(s PurchasesSink) { s.OnProductsFetched(available) })
}

// transition moves from one state to another and reports whether the
// service was still in the expected state.
func (p *Purchases) transition(from, to BillingState) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != from {
		return false
	}
	p.state = to
	return true
}

// PurchaseProduct starts the purchase flow for alias. Products must have
// been fetched first.
func (p *Purchases) PurchaseProduct(alias string) error {
	p.mu.Lock()
	state, inv, backend := p.state, p.inventory, p.backend
	p.mu.Unlock()

	if state != StateQueried || inv == nil {
		p.logger.Error("products info not fetched", "alias", alias)
		return fmt.Errorf("%w: %s", ErrBillingState, state)
	}
	id, ok := p.aliases[alias]
	if !ok || !inv.Has(id) {
		p.logger.Error("product not found", "alias", alias)
		return fmt.Errorf("%w: %s", ErrUnknownProduct, alias)
	}

	p.ui.Post(func() {
		if err := backend.Launch(id, PurchaseRequestCode); err != nil {
			p.logger.Error("error purchasing", "product", id, "error", err)
		}
	})
	return nil
}

// RestoreProducts reports OnProductPurchased for every owned product.
func (p *Purchases) RestoreProducts() error {
	p.mu.Lock()
	state, inv := p.state, p.inventory
	var owned []string
	if inv != nil {
		for _, id := range inv.IDs() {
			if inv.Owned[id] {
				owned = append(owned, id)
			}
		}
	}
	p.mu.Unlock()

	if state != StateQueried || inv == nil {
		p.logger.Error("products info not fetched")
		return fmt.Errorf("%w: %s", ErrBillingState, state)
	}
	for _, id := range owned {
		p.purchased(id)
	}
	return nil
}

func (p *Purchases) purchased(id string) {
	for _, alias := range p.aliasesFor(id) {
		p.deliver(func(s PurchasesSink) { s.OnProductPurchased(alias) })
	}
}

// OnActivityResult claims results of the purchase flow.
func (p *Purchases) OnActivityResult(r lifecycle.ActivityResult) bool {
	if r.RequestCode != PurchaseRequestCode {
		return false
	}

	p.mu.Lock()
	backend, inv := p.backend, p.inventory
	disposed := p.state == StateDisposed
	p.mu.Unlock()
	if backend == nil || disposed {
		return false
	}

	id, err := backend.HandleResult(r)
	switch {
	case errors.Is(err, ErrPurchaseCanceled):
		p.logger.Info("purchase canceled", "product", id)
	case err != nil:
		p.logger.Error("error purchasing", "product", id, "error", err)
	default:
		if inv != nil && !inv.Products[id].Consumable {
			p.mu.Lock()
			inv.Owned[id] = true
			p.mu.Unlock()
		}
		p.purchased(id)
	}
	return true
}

// OnDestroy disposes the backend.
func (p *Purchases) OnDestroy() {
	p.mu.Lock()
	backend := p.backend
	p.state = StateDisposed
	p.inventory = nil
	p.mu.Unlock()

	if backend != nil {
		backend.Dispose()
	}
}

func (p *Purchases) deliver(fn func(PurchasesSink)) {
	if p.sink == nil || p.queue == nil {
		return
	}
	sink := p.sink
	p.queue.Enqueue(func() { fn(sink) })
}
