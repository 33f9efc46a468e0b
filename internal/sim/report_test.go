package sim

import (
	"testing"

	"github.com/retailops/stocksim/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	ledger := []domain.LedgerEntry{
		{Date: day(2024, 12, 31), StoreID: "1", ItemID: "2", TranType: domain.TranOpening, Quantity: 20, StockLevel: 20},
		{Date: day(2025, 1, 1), StoreID: "1", ItemID: "2", TranType: domain.TranSale, Quantity: -15, StockLevel: 5},
		{Date: day(2025, 1, 2), StoreID: "1", ItemID: "2", TranType: domain.TranSale, Quantity: -10, StockLevel: -5},
		{Date: day(2025, 1, 2), StoreID: "1", ItemID: "2", TranType: domain.TranPurchaseOrder, Quantity: 0, StockLevel: -5},
		{Date: day(2025, 1, 5), StoreID: "1", ItemID: "2", TranType: domain.TranPurchase, Quantity: 50, StockLevel: 45},
	}
	orders := []domain.PurchaseOrder{
		{StoreID: "1", ItemID: "2", PODate: day(2025, 1, 2), ReceivingDate: day(2025, 1, 5), Quantity: 50},
	}

	summary := Summarize(ledger, orders)

	assert.Equal(t, "1", summary.StoreID)
	assert.Equal(t, "2", summary.ItemID)
	assert.Equal(t, 20, summary.OpeningStock)
	assert.Equal(t, 25, summary.TotalUnitsSold)
	assert.Equal(t, 50, summary.TotalPurchased)
	assert.Equal(t, 1, summary.OrdersPlaced)
	assert.Equal(t, 45, summary.FinalStock)
	assert.Equal(t, 1, summary.StockoutDays, "only 2025-01-02 ends at or below zero")
}

func TestSummarizeEmptyLedger(t *testing.T) {
	assert.Equal(t, domain.ReportSummary{}, Summarize(nil, nil))
}
