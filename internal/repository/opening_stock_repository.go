package repository

import (
	"context"
	"time"

	"github.com/retailops/stocksim/internal/domain"
)

// Defaults describes the record synthesized when a (store, item) pair
// has no opening stock yet.
type Defaults struct {
	OnHand    int
	StartDate time.Time
}

// OpeningStockRepository resolves opening stock positions. Resolve is
// idempotent after its first call for a pair: a miss synthesizes the
// default record and durably appends it, so future lookups return the
// same record. Implementations must protect the append against
// concurrent misses (scoped lock or transactional append).
type OpeningStockRepository interface {
	Resolve(ctx context.Context, storeID, itemID string) (domain.OpeningStockRecord, error)
	ListStoreItems(ctx context.Context) ([]domain.StoreItem, error)
}
