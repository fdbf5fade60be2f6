package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/asta05/clinic-order-system/domain"
)

// OrderHistoryItem is one line of a past order priced against the
// current catalog.
type OrderHistoryItem struct {
	TabletID  int64   `db:"tablet_id" json:"tablet_id"`
	Name      string  `db:"name" json:"name"`
	Quantity  int64   `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unit_price"`
	Subtotal  float64 `db:"subtotal" json:"subtotal"`
}

// OrderHistoryEntry is one past order with its expanded items.
type OrderHistoryEntry struct {
	OrderID   int64              `json:"order_id"`
	Reference string             `json:"reference"`
	OrderDate string             `json:"order_date"`
	Items     []OrderHistoryItem `json:"items"`
	Total     float64            `json:"total"`
}

// OrdersForCustomer returns a customer's orders, newest first, each
// expanded with its line items and a computed total.
//
// Subtotals use the current catalog price, not the price at purchase
// time; the schema stores no price history, so reported totals shift if
// prices change later. Preserved behavior, not a bug.
func (s *Store) OrdersForCustomer(ctx context.Context, customerID int64) ([]OrderHistoryEntry, error) {
	var orders []domain.Order
	err := s.db.SelectContext(ctx, &orders,
		`SELECT id, customer_id, reference, order_date FROM orders WHERE customer_id = ? ORDER BY order_date DESC, id DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return []OrderHistoryEntry{}, nil
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	type itemRow struct {
		OrderID int64 `db:"order_id"`
		OrderHistoryItem
	}
	itemsQuery, itemsArgs, err := sqlx.In(
		`SELECT oi.order_id, t.id AS tablet_id, t.name, oi.quantity, t.price AS unit_price, oi.quantity * t.price AS subtotal
         FROM order_items oi
         JOIN tablets t ON t.id = oi.tablet_id
         WHERE oi.order_id IN (?)
         ORDER BY oi.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("prepare order items query: %w", err)
	}
	itemsQuery = s.db.Rebind(itemsQuery)

	var rows []itemRow
	if err := s.db.SelectContext(ctx, &rows, itemsQuery, itemsArgs...); err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	itemsByOrder := make(map[int64][]OrderHistoryItem)
	for _, row := range rows {
		itemsByOrder[row.OrderID] = append(itemsByOrder[row.OrderID], row.OrderHistoryItem)
	}

	history := make([]OrderHistoryEntry, len(orders))
	for i, o := range orders {
		items := itemsByOrder[o.ID]
		if items == nil {
			items = []OrderHistoryItem{}
		}
		var total float64
		for _, it := range items {
			total += it.Subtotal
		}
		history[i] = OrderHistoryEntry{
			OrderID:   o.ID,
			Reference: o.Reference,
			OrderDate: o.OrderDate,
			Items:     items,
			Total:     total,
		}
	}
	return history, nil
}
