package sim

import (
	"math"
	"time"

	"github.com/retailops/stocksim/internal/domain"
	"github.com/retailops/stocksim/internal/predictor"
	"github.com/rs/zerolog/log"
)

// Replenisher scans a ledger for stock-below-threshold events and
// injects purchase orders and receipts.
//
// Order date semantics: the order is placed on the trigger date itself
// (po_date = trigger date, receiving_date = po_date + lead time). An
// alternative scheme that back-dates the order by the lead time was
// considered and rejected; the merge and recompute path still accepts
// injected entries dated before the scan position, so a back-dated
// variant would sort and recompute correctly.
type Replenisher struct {
	leadTime predictor.Predictor
	fallback predictor.Predictor
	policy   Policy
}

// NewReplenisher builds a replenishment engine around the selected
// lead-time model. fallback covers single failed predictions.
func NewReplenisher(leadTime, fallback predictor.Predictor, policy Policy) *Replenisher {
	return &Replenisher{leadTime: leadTime, fallback: fallback, policy: policy}
}

// Apply scans the ledger, schedules orders, merges the injected entries
// and recomputes every stock level. The input slice is not mutated; an
// empty ledger yields empty outputs without error.
func (r *Replenisher) Apply(ledger []domain.LedgerEntry, storeID, itemID string) ([]domain.PurchaseOrder, []domain.LedgerEntry) {
	if len(ledger) == 0 {
		return nil, nil
	}

	merged := make([]domain.LedgerEntry, len(ledger))
	copy(merged, ledger)
	SortLedger(merged)

	// Scan a snapshot of the sorted input; injected entries must not
	// themselves trigger orders.
	scan := make([]domain.LedgerEntry, len(merged))
	copy(scan, merged)

	var orders []domain.PurchaseOrder
	for _, entry := range scan {
		if entry.StockLevel >= r.policy.ReorderThreshold {
			continue
		}

		poDate := entry.Date
		if r.withinSpacing(orders, poDate) {
			continue
		}

		leadDays := r.predictLeadTime(entry, storeID, itemID)
		receivingDate := poDate.AddDate(0, 0, leadDays)

		order := domain.PurchaseOrder{
			StoreID:       storeID,
			ItemID:        itemID,
			PODate:        poDate,
			ReceivingDate: receivingDate,
			Quantity:      r.policy.OrderQuantity,
		}
		orders = append(orders, order)

		// Audit entry on the order date; the stock effect lands on the
		// receiving date. Stock levels are recomputed below.
		merged = append(merged, domain.LedgerEntry{
			Date:     poDate,
			StoreID:  storeID,
			ItemID:   itemID,
			TranType: domain.TranPurchaseOrder,
			Quantity: 0,
		})
		merged = append(merged, domain.LedgerEntry{
			Date:     receivingDate,
			StoreID:  storeID,
			ItemID:   itemID,
			TranType: domain.TranPurchase,
			Quantity: r.policy.OrderQuantity,
		})
	}

	SortLedger(merged)
	RecomputeStockLevels(merged)

	return orders, merged
}

// withinSpacing reports whether a proposed order date falls within the
// suppression window of an already-placed order. The check is keyed on
// po_date, so consecutive low-stock days collapse to one order.
func (r *Replenisher) withinSpacing(orders []domain.PurchaseOrder, poDate time.Time) bool {
	for _, o := range orders {
		if absDays(poDate, o.PODate) < r.policy.OrderSpacingDays {
			return true
		}
	}
	return false
}

// predictLeadTime runs the lead-time model on the trigger date's
// feature row and clamps the result to the policy's sane day range.
func (r *Replenisher) predictLeadTime(entry domain.LedgerEntry, storeID, itemID string) int {
	_, week := entry.Date.ISOWeek()
	features := predictor.Features{
		predictor.FeatItemID:    numericID(itemID),
		predictor.FeatStoreID:   numericID(storeID),
		predictor.FeatQuantity:  float64(r.policy.OrderQuantity),
		predictor.FeatWeek:      float64(week),
		predictor.FeatMonth:     float64(entry.Date.Month()),
		predictor.FeatDayOfWeek: float64(mondayIndexed(entry.Date.Weekday())),
	}

	raw, err := r.leadTime.Predict(features)
	if err != nil {
		log.Warn().Err(err).Msg("lead-time prediction failed, using fallback for this order")
		raw, err = r.fallback.Predict(features)
		if err != nil {
			raw = float64(r.policy.LeadTimeMin)
		}
	}

	days := int(math.Round(raw))
	if days < r.policy.LeadTimeMin {
		days = r.policy.LeadTimeMin
	}
	if days > r.policy.LeadTimeMax {
		days = r.policy.LeadTimeMax
	}
	return days
}

// absDays is the absolute whole-day distance between two calendar
// dates.
func absDays(a, b time.Time) int {
	days := int(a.Sub(b).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}
