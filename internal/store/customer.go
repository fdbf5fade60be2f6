package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/asta05/clinic-order-system/domain"
)

// defaultCustomerName is recorded when checkout is submitted without a name.
const defaultCustomerName = "Unknown"

// FindCustomerByPhone returns the customer for a phone number, or nil
// when no such customer exists.
func (s *Store) FindCustomerByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	var c domain.Customer
	err := s.db.GetContext(ctx, &c, `SELECT id, name, phone FROM customers WHERE phone = ?`, strings.TrimSpace(phone))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find customer by phone: %w", err)
	}
	return &c, nil
}

// GetOrCreateCustomer resolves a phone number to a customer, inserting a
// new row when the phone is unseen. An existing customer is returned
// unchanged; the passed name is ignored on repeat visits.
func (s *Store) GetOrCreateCustomer(ctx context.Context, name, phone string) (*domain.Customer, error) {
	return getOrCreateCustomer(ctx, s.db, name, phone)
}

// getOrCreateCustomer runs against either the bare connection or an open
// transaction. The unique constraint on phone is the arbiter for
// concurrent first-time inserts: ON CONFLICT DO NOTHING swallows the
// loser's insert and the re-read returns the surviving row.
func getOrCreateCustomer(ctx context.Context, q sqlx.ExtContext, name, phone string) (*domain.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultCustomerName
	}

	if _, err := q.ExecContext(ctx, `INSERT INTO customers (name, phone) VALUES (?, ?) ON CONFLICT(phone) DO NOTHING`, name, phone); err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}

	var c domain.Customer
	if err := sqlx.GetContext(ctx, q, &c, `SELECT id, name, phone FROM customers WHERE phone = ?`, phone); err != nil {
		return nil, fmt.Errorf("reread customer: %w", err)
	}
	return &c, nil
}
