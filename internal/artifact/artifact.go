// Package artifact persists run outputs as flat CSV tables under the
// data directory. Every table is overwritten on each run; only the
// opening stock store (internal/repository/csvstore) is append-only.
package artifact

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/retailops/stocksim/internal/domain"
)

const (
	salesFile     = "sales.csv"
	ledgerFile    = "inventoryLedger.csv"
	purchasesFile = "purchases.csv"
)

// Store reads and writes the tabular run artifacts.
type Store struct {
	dataDir string
}

func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

func (s *Store) SalesPath() string     { return filepath.Join(s.dataDir, salesFile) }
func (s *Store) LedgerPath() string    { return filepath.Join(s.dataDir, ledgerFile) }
func (s *Store) PurchasesPath() string { return filepath.Join(s.dataDir, purchasesFile) }

// WriteSales overwrites the sales forecast table.
func (s *Store) WriteSales(points []domain.SalesForecastPoint) error {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			p.StoreID,
			p.ItemID,
			p.Date.Format(domain.DateFormat),
			strconv.Itoa(p.Quantity),
		})
	}
	return writeCSV(s.SalesPath(), []string{"StoreID", "ItemID", "SalesDate", "SalesQuantity"}, rows)
}

// WriteLedger overwrites the inventory ledger table, date-ascending as
// produced by the engine.
func (s *Store) WriteLedger(entries []domain.LedgerEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Date.Format(domain.DateFormat),
			e.StoreID,
			e.ItemID,
			string(e.TranType),
			strconv.Itoa(e.Quantity),
			strconv.Itoa(e.StockLevel),
		})
	}
	return writeCSV(s.LedgerPath(), []string{"Date", "StoreID", "ItemID", "TranType", "Quantity", "StockLevel"}, rows)
}

// WritePurchases overwrites the purchases table.
func (s *Store) WritePurchases(orders []domain.PurchaseOrder) error {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.StoreID,
			o.ItemID,
			o.PODate.Format(domain.DateFormat),
			o.ReceivingDate.Format(domain.DateFormat),
			strconv.Itoa(o.Quantity),
		})
	}
	return writeCSV(s.PurchasesPath(), []string{"StoreID", "ItemID", "PODate", "ReceivingDate", "Quantity"}, rows)
}

// ReadLedger loads the ledger table back into entries.
func (s *Store) ReadLedger() ([]domain.LedgerEntry, error) {
	records, err := readCSV(s.LedgerPath(), 6)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LedgerEntry, 0, len(records))
	for i, rec := range records {
		date, err := time.Parse(domain.DateFormat, rec[0])
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: bad date %q: %w", i+1, rec[0], err)
		}
		qty, err := strconv.Atoi(rec[4])
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: bad quantity %q: %w", i+1, rec[4], err)
		}
		level, err := strconv.Atoi(rec[5])
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: bad stock level %q: %w", i+1, rec[5], err)
		}
		entries = append(entries, domain.LedgerEntry{
			Date:       date,
			StoreID:    rec[1],
			ItemID:     rec[2],
			TranType:   domain.TranType(rec[3]),
			Quantity:   qty,
			StockLevel: level,
		})
	}
	return entries, nil
}

// ReadPurchases loads the purchases table back into orders.
func (s *Store) ReadPurchases() ([]domain.PurchaseOrder, error) {
	records, err := readCSV(s.PurchasesPath(), 5)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.PurchaseOrder, 0, len(records))
	for i, rec := range records {
		poDate, err := time.Parse(domain.DateFormat, rec[2])
		if err != nil {
			return nil, fmt.Errorf("purchases row %d: bad PO date %q: %w", i+1, rec[2], err)
		}
		recvDate, err := time.Parse(domain.DateFormat, rec[3])
		if err != nil {
			return nil, fmt.Errorf("purchases row %d: bad receiving date %q: %w", i+1, rec[3], err)
		}
		qty, err := strconv.Atoi(rec[4])
		if err != nil {
			return nil, fmt.Errorf("purchases row %d: bad quantity %q: %w", i+1, rec[4], err)
		}
		orders = append(orders, domain.PurchaseOrder{
			StoreID:       rec[0],
			ItemID:        rec[1],
			PODate:        poDate,
			ReceivingDate: recvDate,
			Quantity:      qty,
		})
	}
	return orders, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header to %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows to %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

func readCSV(path string, wantFields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = wantFields

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is missing its header row", path)
	}
	return records[1:], nil
}
