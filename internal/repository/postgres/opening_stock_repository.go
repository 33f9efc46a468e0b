package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/retailops/stocksim/internal/domain"
	"github.com/retailops/stocksim/internal/repository"
)

const selectOpeningStock = `
	SELECT store_id, item_id, on_hand, start_date
	FROM opening_stock
	WHERE store_id = $1 AND item_id = $2
`

const insertOpeningStock = `
	INSERT INTO opening_stock (store_id, item_id, on_hand, start_date)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (store_id, item_id) DO NOTHING
`

type openingStockRepository struct {
	db       *DB
	defaults repository.Defaults
}

// NewOpeningStockRepository builds the Postgres-backed opening stock
// repository. The insert-on-miss runs in a transaction with
// ON CONFLICT DO NOTHING so two concurrent misses for the same pair
// converge on a single row.
func NewOpeningStockRepository(db *DB, defaults repository.Defaults) repository.OpeningStockRepository {
	return &openingStockRepository{db: db, defaults: defaults}
}

func (r *openingStockRepository) Resolve(ctx context.Context, storeID, itemID string) (domain.OpeningStockRecord, error) {
	record, err := r.get(ctx, storeID, itemID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.OpeningStockRecord{}, fmt.Errorf("lookup opening stock: %w", err)
	}

	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, insertOpeningStock,
			storeID, itemID, r.defaults.OnHand, r.defaults.StartDate); err != nil {
			return fmt.Errorf("append default opening stock: %w", err)
		}
		// Re-read inside the same transaction so a concurrent
		// winner's row is what this caller returns.
		return tx.GetContext(ctx, &record, selectOpeningStock, storeID, itemID)
	})
	if err != nil {
		return domain.OpeningStockRecord{}, fmt.Errorf("resolve opening stock: %w", err)
	}
	return record, nil
}

func (r *openingStockRepository) get(ctx context.Context, storeID, itemID string) (domain.OpeningStockRecord, error) {
	var record domain.OpeningStockRecord
	err := r.db.GetContext(ctx, &record, selectOpeningStock, storeID, itemID)
	return record, err
}

func (r *openingStockRepository) ListStoreItems(ctx context.Context) ([]domain.StoreItem, error) {
	var items []domain.StoreItem
	err := r.db.SelectContext(ctx, &items, `
		SELECT store_id, item_id
		FROM opening_stock
		ORDER BY store_id, item_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list store items: %w", err)
	}
	return items, nil
}
