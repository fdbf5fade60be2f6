package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/asta05/clinic-order-system/domain"
)

// ListTablets returns the full catalog ordered by id.
func (s *Store) ListTablets(ctx context.Context) ([]domain.Tablet, error) {
	tablets := []domain.Tablet{}
	if err := s.db.SelectContext(ctx, &tablets, `SELECT id, name, price, stock FROM tablets ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list tablets: %w", err)
	}
	return tablets, nil
}

// GetTablet returns a single tablet by id.
func (s *Store) GetTablet(ctx context.Context, id int64) (*domain.Tablet, error) {
	var t domain.Tablet
	err := s.db.GetContext(ctx, &t, `SELECT id, name, price, stock FROM tablets WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tablet %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tablet %d: %w", id, err)
	}
	return &t, nil
}

// DecrementStock reduces a tablet's stock by amount. The caller is
// responsible for ensuring amount does not exceed the current stock;
// checkout enforces that inside its own transaction.
func (s *Store) DecrementStock(ctx context.Context, tabletID, amount int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tablets SET stock = stock - ? WHERE id = ?`, amount, tabletID)
	if err != nil {
		return fmt.Errorf("decrement stock for tablet %d: %w", tabletID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock for tablet %d: %w", tabletID, err)
	}
	if rows == 0 {
		return fmt.Errorf("tablet %d: %w", tabletID, ErrNotFound)
	}
	return nil
}
