package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/gamehost/internal/config"
	"github.com/vovakirdan/gamehost/internal/dialog"
	"github.com/vovakirdan/gamehost/internal/lifecycle"
	"github.com/vovakirdan/gamehost/internal/storage"
)

var (
	// ErrPurchaseCanceled is returned by HandleResult when the user backed out.
	ErrPurchaseCanceled = errors.New("billing: purchase canceled")
	// ErrUnknownProduct is used for product ids missing from the catalog.
	ErrUnknownProduct = errors.New("billing: unknown product")
)

// Result data keys of a purchase flow.
const (
	DataProductID = "product_id"
	DataOrderID   = "order_id"
)

// ProductDetails describes a product available for sale.
type ProductDetails struct {
	ID         string
	Title      string
	Price      string
	Consumable bool
}

// Inventory is the result of a catalog query.
type Inventory struct {
	Products map[string]ProductDetails
	Owned    map[string]bool
}

// Has reports whether the product is for sale.
func (inv *Inventory) Has(id string) bool {
	_, ok := inv.Products[id]
	return ok
}

// IDs returns the ids of every product for sale, sorted.
func (inv *Inventory) IDs() []string {
	ids := make([]string, 0, len(inv.Products))
	for id := range inv.Products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BillingBackend talks to the store. Every method is called on the UI goroutine.
type BillingBackend interface {
	Setup() error
	Query(ids []string) (*Inventory, error)
	// Launch starts the purchase flow. Its outcome arrives later as an
	// activity result carrying requestCode.
	Launch(productID string, requestCode int) error
	// HandleResult completes a purchase flow and returns the purchased product.
	HandleResult(r lifecycle.ActivityResult) (string, error)
	Dispose()
}

// LocalBilling sells the configured catalog from a confirm dialog and keeps
// the ledger in SQLite.
type LocalBilling struct {
	catalog map[string]config.ProductConfig // By product id
	store   *storage.Store
	dialogs *dialog.Bridge
	results func(lifecycle.ActivityResult)
	logger  *log.Logger
}

var _ BillingBackend = (*LocalBilling)(nil)

// NewLocalBilling creates a backend over env.Store.
func NewLocalBilling(env Env, logger *log.Logger) *LocalBilling {
	catalog := make(map[string]config.ProductConfig, len(env.Config.Purchases.Products))
	for _, p := range env.Config.Purchases.Products {
		catalog[p.ID] = p
	}
	return &LocalBilling{
		catalog: catalog,
		store:   env.Store,
		dialogs: env.Dialogs,
		results: env.ActivityResult,
		logger:  logger,
	}
}

func (b *LocalBilling) Setup() error {
	if b.store == nil {
		return errors.New("billing: no purchase ledger")
	}
	if b.dialogs == nil || b.results == nil {
		return errors.New("billing: no purchase flow available")
	}
	return nil
}

// Query returns the requested products found in the catalog. Non-consumable
// products with a ledger entry are reported as owned.
func (b *LocalBilling) Query(ids []string) (*Inventory, error) {
	inv := &Inventory{
		Products: make(map[string]ProductDetails),
		Owned:    make(map[string]bool),
	}
	for _, id := range ids {
		p, ok := b.catalog[id]
		if !ok {
			b.logger.Warn("product not in catalog", "product", id)
			continue
		}
		inv.Products[id] = ProductDetails{ID: p.ID, Title: p.Title, Price: p.Price, Consumable: p.Consumable}
		if p.Consumable {
			continue
		}
		owned, err := b.store.Owned(id)
		if err != nil {
			return nil, fmt.Errorf("billing: query %q: %w", id, err)
		}
		if owned {
			inv.Owned[id] = true
		}
	}
	return inv, nil
}

// Launch asks the user to confirm the purchase.
func (b *LocalBilling) Launch(productID string, requestCode int) error {
	p, ok := b.catalog[productID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}

	title := p.Title
	if title == "" {
		title = p.ID
	}
	msg := fmt.Sprintf("Buy %s for %s?", title, p.Price)
	b.dialogs.Ask("Purchase", msg, "Buy", "Cancel", func(confirmed bool) {
		r := lifecycle.ActivityResult{
			RequestCode: requestCode,
			ResultCode:  lifecycle.ResultCanceled,
			Data:        map[string]string{DataProductID: productID},
		}
		if confirmed {
			r.ResultCode = lifecycle.ResultOK
			r.Data[DataOrderID] = uuid.NewString()
		}
		b.results(r)
	})
	return nil
}

// HandleResult records a completed purchase. Consumable products are
// consumed immediately.
func (b *LocalBilling) HandleResult(r lifecycle.ActivityResult) (string, error) {
	productID := r.Data[DataProductID]
	if r.ResultCode != lifecycle.ResultOK {
		return productID, ErrPurchaseCanceled
	}
	p, ok := b.catalog[productID]
	if !ok {
		return productID, fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}

	order := r.Data[DataOrderID]
	if order == "" {
		order = uuid.NewString()
	}
	if err := b.store.RecordPurchase(storage.Purchase{OrderID: order, ProductID: productID}); err != nil {
		return productID, err
	}
	if p.Consumable {
		if err := b.store.ConsumePurchase(order); err != nil {
			return productID, err
		}
	}
	b.logger.Info("purchase recorded", "product", productID, "order", order)
	return productID, nil
}

func (b *LocalBilling) Dispose() {}
