package storage

import (
	"fmt"
	"time"
)

// Purchase states.
const (
	PurchasePurchased = "purchased"
	PurchaseConsumed  = "consumed"
)

// Purchase is one entry in the local purchase ledger.
type Purchase struct {
	OrderID   string
	ProductID string
	Alias     string
	State     string
	CreatedAt time.Time
}

// RecordPurchase appends a purchase to the ledger.
func (s *Store) RecordPurchase(p Purchase) error {
	if p.State == "" {
		p.State = PurchasePurchased
	}
	_, err := s.db.Exec(
		"INSERT INTO purchases (order_id, product_id, alias, state) VALUES (?, ?, ?, ?)",
		p.OrderID, p.ProductID, p.Alias, p.State,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record purchase: %w", err)
	}
	return nil
}

// ConsumePurchase marks an order as consumed.
func (s *Store) ConsumePurchase(orderID string) error {
	res, err := s.db.Exec(
		"UPDATE purchases SET state = ? WHERE order_id = ? AND state = ?",
		PurchaseConsumed, orderID, PurchasePurchased,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot consume purchase: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("storage: no unconsumed purchase %q", orderID)
	}
	return nil
}

// Purchases lists unconsumed purchases, oldest first.
func (s *Store) Purchases() ([]Purchase, error) {
	rows, err := s.db.Query(
		`SELECT order_id, product_id, alias, state, created_at
		 FROM purchases
		 WHERE state = ?
		 ORDER BY created_at, order_id`,
		PurchasePurchased,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query purchases: %w", err)
	}
	defer rows.Close()

	var out []Purchase
	for rows.Next() {
		var p Purchase
		var createdAt any
		if err := rows.Scan(&p.OrderID, &p.ProductID, &p.Alias, &p.State, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		p.CreatedAt = parseTime(createdAt)
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// Owned reports whether an unconsumed purchase of productID exists.
func (s *Store) Owned(productID string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM purchases WHERE product_id = ? AND state = ?",
		productID, PurchasePurchased,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("storage: cannot query purchase: %w", err)
	}
	return n > 0, nil
}
