package sim

import (
	"sort"

	"github.com/retailops/stocksim/internal/domain"
)

// BuildLedger replays opening stock and forecast sales into a
// chronological ledger. The result is date-sorted by construction and
// its stock levels are valid for this stage; the replenishment engine
// re-derives them after merging purchase events.
func BuildLedger(opening domain.OpeningStockRecord, sales []domain.SalesForecastPoint) []domain.LedgerEntry {
	ledger := make([]domain.LedgerEntry, 0, len(sales)+1)

	ledger = append(ledger, domain.LedgerEntry{
		Date:       opening.StartDate,
		StoreID:    opening.StoreID,
		ItemID:     opening.ItemID,
		TranType:   domain.TranOpening,
		Quantity:   opening.OnHand,
		StockLevel: opening.OnHand,
	})

	current := opening.OnHand
	for _, sale := range sales {
		current -= sale.Quantity
		ledger = append(ledger, domain.LedgerEntry{
			Date:       sale.Date,
			StoreID:    sale.StoreID,
			ItemID:     sale.ItemID,
			TranType:   domain.TranSale,
			Quantity:   -sale.Quantity,
			StockLevel: current,
		})
	}

	return ledger
}

// SortLedger orders entries by date ascending. The sort is stable so
// same-day entries keep their insertion order, which keeps recomputed
// stock levels deterministic.
func SortLedger(ledger []domain.LedgerEntry) {
	sort.SliceStable(ledger, func(i, j int) bool {
		return ledger[i].Date.Before(ledger[j].Date)
	})
}

// RecomputeStockLevels re-derives every running balance with a single
// forward scan over a date-sorted ledger. After it returns,
// StockLevel[i] == StockLevel[i-1] + Quantity[i] for all i > 0 and
// StockLevel[0] == Quantity[0].
func RecomputeStockLevels(ledger []domain.LedgerEntry) {
	if len(ledger) == 0 {
		return
	}

	ledger[0].StockLevel = ledger[0].Quantity
	for i := 1; i < len(ledger); i++ {
		ledger[i].StockLevel = ledger[i-1].StockLevel + ledger[i].Quantity
	}
}
