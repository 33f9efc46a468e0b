package sim

import (
	"time"

	"github.com/retailops/stocksim/internal/domain"
)

// Summarize aggregates a recomputed ledger and its purchase orders into
// the dashboard summary. The ledger must already be date-sorted.
func Summarize(ledger []domain.LedgerEntry, orders []domain.PurchaseOrder) domain.ReportSummary {
	var summary domain.ReportSummary
	if len(ledger) == 0 {
		return summary
	}

	summary.StoreID = ledger[0].StoreID
	summary.ItemID = ledger[0].ItemID
	summary.OrdersPlaced = len(orders)
	summary.FinalStock = ledger[len(ledger)-1].StockLevel

	// End-of-day balances decide stockout days: a day counts when its
	// last entry leaves the balance at or below zero.
	eod := make(map[time.Time]int)
	var days []time.Time
	for _, entry := range ledger {
		switch entry.TranType {
		case domain.TranOpening:
			summary.OpeningStock = entry.Quantity
		case domain.TranSale:
			summary.TotalUnitsSold += -entry.Quantity
		case domain.TranPurchase:
			summary.TotalPurchased += entry.Quantity
		}

		if _, seen := eod[entry.Date]; !seen {
			days = append(days, entry.Date)
		}
		eod[entry.Date] = entry.StockLevel
	}

	for _, d := range days {
		if eod[d] <= 0 {
			summary.StockoutDays++
		}
	}

	return summary
}
