// Package store implements the persistence core of the clinic order
// system: catalog reads, customer lookup, the checkout transaction and
// the order history query.
package store

import (
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrPhoneRequired is returned when checkout is attempted without a phone number.
	ErrPhoneRequired = errors.New("phone is required")
	// ErrEmptyCart is returned when checkout is attempted with no cart items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidQuantity is returned when a cart line carries a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrNothingInStock is returned when every cart line was out of stock.
	// No order is created and no stock is touched.
	ErrNothingInStock = errors.New("no items available to place order")
	// ErrNotFound is returned when a referenced tablet or customer does not exist.
	ErrNotFound = errors.New("not found")
)

// Store wraps the SQLite database with the clinic's query surface.
type Store struct {
	db *sqlx.DB
}

// New constructs a Store.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}
