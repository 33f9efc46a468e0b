package sim

import (
	"testing"
	"time"

	"github.com/retailops/stocksim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func flatSales(storeID, itemID string, start time.Time, days, qty int) []domain.SalesForecastPoint {
	points := make([]domain.SalesForecastPoint, 0, days)
	for i := 0; i < days; i++ {
		points = append(points, domain.SalesForecastPoint{
			StoreID:  storeID,
			ItemID:   itemID,
			Date:     start.AddDate(0, 0, i),
			Quantity: qty,
		})
	}
	return points
}

func TestBuildLedgerReplaysOpeningAndSales(t *testing.T) {
	opening := domain.OpeningStockRecord{
		StoreID:   "1",
		ItemID:    "2",
		OnHand:    100,
		StartDate: day(2024, 12, 31),
	}
	sales := flatSales("1", "2", day(2025, 1, 1), 3, 5)

	ledger := BuildLedger(opening, sales)

	require.Len(t, ledger, 4)
	assert.Equal(t, domain.TranOpening, ledger[0].TranType)
	assert.Equal(t, 100, ledger[0].Quantity)
	assert.Equal(t, 100, ledger[0].StockLevel)

	for i, want := range []int{95, 90, 85} {
		entry := ledger[i+1]
		assert.Equal(t, domain.TranSale, entry.TranType)
		assert.Equal(t, -5, entry.Quantity)
		assert.Equal(t, want, entry.StockLevel)
	}
}

func TestBuildLedgerEmptySales(t *testing.T) {
	opening := domain.OpeningStockRecord{StoreID: "1", ItemID: "1", OnHand: 40, StartDate: day(2024, 12, 31)}

	ledger := BuildLedger(opening, nil)

	require.Len(t, ledger, 1)
	assert.Equal(t, domain.TranOpening, ledger[0].TranType)
	assert.Equal(t, 40, ledger[0].StockLevel)
}

func TestSortLedgerIsStableWithinDay(t *testing.T) {
	d := day(2025, 2, 1)
	ledger := []domain.LedgerEntry{
		{Date: d.AddDate(0, 0, 5), TranType: domain.TranSale, Quantity: -1},
		{Date: d, TranType: domain.TranPurchaseOrder},
		{Date: d, TranType: domain.TranPurchase, Quantity: 50},
		{Date: d.AddDate(0, 0, -1), TranType: domain.TranOpening, Quantity: 10},
	}

	SortLedger(ledger)

	assert.Equal(t, domain.TranOpening, ledger[0].TranType)
	assert.Equal(t, domain.TranPurchaseOrder, ledger[1].TranType)
	assert.Equal(t, domain.TranPurchase, ledger[2].TranType)
	assert.Equal(t, domain.TranSale, ledger[3].TranType)
}

func TestRecomputeStockLevels(t *testing.T) {
	ledger := []domain.LedgerEntry{
		{Date: day(2024, 12, 31), Quantity: 100, StockLevel: -999},
		{Date: day(2025, 1, 1), Quantity: -5, StockLevel: -999},
		{Date: day(2025, 1, 2), Quantity: 50, StockLevel: -999},
		{Date: day(2025, 1, 3), Quantity: 0, StockLevel: -999},
	}

	RecomputeStockLevels(ledger)

	assert.Equal(t, 100, ledger[0].StockLevel)
	assert.Equal(t, 95, ledger[1].StockLevel)
	assert.Equal(t, 145, ledger[2].StockLevel)
	assert.Equal(t, 145, ledger[3].StockLevel)
}

func TestRecomputeStockLevelsEmpty(t *testing.T) {
	assert.NotPanics(t, func() { RecomputeStockLevels(nil) })
}
