package domain

import "time"

// DateFormat is the wire format for calendar dates in every CSV artifact
// and API payload.
const DateFormat = "2006-01-02"

// TranType tags a ledger entry with the kind of stock movement it records.
type TranType string

const (
	TranOpening       TranType = "Opening"
	TranSale          TranType = "Sale"
	TranPurchase      TranType = "Purchase"
	TranPurchaseOrder TranType = "PurchaseOrder"
)

// OpeningStockRecord is the starting inventory position for a
// (store, item) pair. Immutable once created within a run.
type OpeningStockRecord struct {
	StoreID   string    `json:"store_id" db:"store_id"`
	ItemID    string    `json:"item_id" db:"item_id"`
	OnHand    int       `json:"on_hand" db:"on_hand"`
	StartDate time.Time `json:"start_date" db:"start_date"`
}

// SalesForecastPoint is one predicted day of sales.
type SalesForecastPoint struct {
	StoreID  string    `json:"store_id"`
	ItemID   string    `json:"item_id"`
	Date     time.Time `json:"date"`
	Quantity int       `json:"quantity"`
}

// LedgerEntry is one stock-affecting (or stock-neutral audit) event.
// Quantity is signed: Opening and Purchase receipts positive, Sale
// negative, PurchaseOrder zero. StockLevel is the running balance after
// applying this entry and is only valid once the ledger has been sorted
// by date and recomputed.
type LedgerEntry struct {
	Date       time.Time `json:"date"`
	StoreID    string    `json:"store_id"`
	ItemID     string    `json:"item_id"`
	TranType   TranType  `json:"tran_type"`
	Quantity   int       `json:"quantity"`
	StockLevel int       `json:"stock_level"`
}

// PurchaseOrder is a scheduled replenishment order.
// ReceivingDate = PODate + predicted lead time.
type PurchaseOrder struct {
	StoreID       string    `json:"store_id"`
	ItemID        string    `json:"item_id"`
	PODate        time.Time `json:"po_date"`
	ReceivingDate time.Time `json:"receiving_date"`
	Quantity      int       `json:"quantity"`
}

// StoreItem identifies one simulated (store, item) pair.
type StoreItem struct {
	StoreID string `json:"store_id" db:"store_id"`
	ItemID  string `json:"item_id" db:"item_id"`
}

// ReportSummary aggregates a completed run for dashboard consumption.
type ReportSummary struct {
	StoreID        string `json:"store_id"`
	ItemID         string `json:"item_id"`
	OpeningStock   int    `json:"opening_stock"`
	TotalUnitsSold int    `json:"total_units_sold"`
	TotalPurchased int    `json:"total_units_purchased"`
	OrdersPlaced   int    `json:"orders_placed"`
	FinalStock     int    `json:"final_stock"`
	StockoutDays   int    `json:"stockout_days"`
}

// RunResult carries everything one simulation run produced.
type RunResult struct {
	Opening  OpeningStockRecord   `json:"opening"`
	Forecast []SalesForecastPoint `json:"forecast"`
	Ledger   []LedgerEntry        `json:"ledger"`
	Orders   []PurchaseOrder      `json:"orders"`
	Summary  ReportSummary        `json:"summary"`
}
