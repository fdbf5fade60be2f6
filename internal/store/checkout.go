package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asta05/clinic-order-system/domain"
)

// CartItem is one requested line of a checkout.
type CartItem struct {
	TabletID int64 `json:"tablet_id"`
	Quantity int64 `json:"quantity"`
}

// CheckoutRequest carries everything the presentation layer collected
// for a single checkout. The cart is an explicit value owned by the
// caller; the store keeps no session state.
type CheckoutRequest struct {
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	PaymentMethod string     `json:"payment_method"`
	Items         []CartItem `json:"items"`
}

// CommittedItem is a cart line that was actually written, with the
// quantity that was deducted from stock.
type CommittedItem struct {
	TabletID  int64   `json:"tablet_id"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// SkippedItem is a cart line dropped because the tablet was out of
// stock or unknown.
type SkippedItem struct {
	TabletID int64  `json:"tablet_id"`
	Name     string `json:"name,omitempty"`
}

// CheckoutResult reports what a completed checkout committed.
type CheckoutResult struct {
	OrderID   int64           `json:"order_id"`
	Reference string          `json:"reference"`
	Customer  domain.Customer `json:"customer"`
	Committed []CommittedItem `json:"committed"`
	Skipped   []SkippedItem   `json:"skipped"`
	Total     float64         `json:"total"`
}

// Checkout places an order for the given customer and cart.
//
// Stock is re-read inside the transaction, so quantities are clamped
// against what is actually available at commit time rather than the
// values the cart was built from. Lines whose tablet has no stock left
// (or does not exist) are skipped and reported; if nothing survives,
// ErrNothingInStock is returned and no rows are written. Order row,
// order items and stock decrements all commit atomically.
func (s *Store) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("tablet %d: %w", it.TabletID, ErrInvalidQuantity)
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback()

	var (
		committed []CommittedItem
		skipped   []SkippedItem
		total     float64
	)
	for _, it := range req.Items {
		var t domain.Tablet
		err := tx.GetContext(ctx, &t, `SELECT id, name, price, stock FROM tablets WHERE id = ?`, it.TabletID)
		if errors.Is(err, sql.ErrNoRows) {
			skipped = append(skipped, SkippedItem{TabletID: it.TabletID})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read stock for tablet %d: %w", it.TabletID, err)
		}
		if t.Stock <= 0 {
			skipped = append(skipped, SkippedItem{TabletID: t.ID, Name: t.Name})
			continue
		}
		qty := it.Quantity
		if qty > t.Stock {
			qty = t.Stock
		}
		subtotal := float64(qty) * t.Price
		committed = append(committed, CommittedItem{
			TabletID:  t.ID,
			Name:      t.Name,
			Quantity:  qty,
			UnitPrice: t.Price,
			Subtotal:  subtotal,
		})
		total += subtotal
	}
	if len(committed) == 0 {
		return nil, ErrNothingInStock
	}

	customer, err := getOrCreateCustomer(ctx, tx, req.Name, phone)
	if err != nil {
		return nil, err
	}

	reference := uuid.NewString()
	orderDate := time.Now().Format("2006-01-02 15:04:05")
	res, err := tx.ExecContext(ctx, `INSERT INTO orders (customer_id, reference, order_date) VALUES (?, ?, ?)`,
		customer.ID, reference, orderDate)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for _, item := range committed {
		if _, err := tx.ExecContext(ctx, `INSERT INTO order_items (order_id, tablet_id, quantity) VALUES (?, ?, ?)`,
			orderID, item.TabletID, item.Quantity); err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
		dec, err := tx.ExecContext(ctx, `UPDATE tablets SET stock = stock - ? WHERE id = ? AND stock >= ?`,
			item.Quantity, item.TabletID, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decrement stock for tablet %d: %w", item.TabletID, err)
		}
		rows, err := dec.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("decrement stock for tablet %d: %w", item.TabletID, err)
		}
		if rows == 0 {
			return nil, fmt.Errorf("decrement stock for tablet %d: stock changed during checkout", item.TabletID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}

	return &CheckoutResult{
		OrderID:   orderID,
		Reference: reference,
		Customer:  *customer,
		Committed: committed,
		Skipped:   skipped,
		Total:     total,
	}, nil
}
