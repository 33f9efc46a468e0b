// Package csvstore is the file-backed opening stock repository: one
// append-only CSV keyed by (StoreID, ItemID).
//
// Concurrency contract: an in-process mutex serializes every resolve,
// and rows are written with O_APPEND so concurrent appends from other
// processes cannot clobber each other. Within one process a pair is
// therefore synthesized at most once.
package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/retailops/stocksim/internal/domain"
	"github.com/retailops/stocksim/internal/repository"
	"github.com/rs/zerolog/log"
)

var header = []string{"StoreID", "ItemID", "onHand", "startDate"}

type Store struct {
	path     string
	defaults repository.Defaults
	mu       sync.Mutex
}

// New builds a CSV-backed repository at path (conventionally
// OpeningStock.csv under the data dir).
func New(path string, defaults repository.Defaults) *Store {
	return &Store{path: path, defaults: defaults}
}

// Resolve looks up the pair, synthesizing and appending the default
// record on a miss.
func (s *Store) Resolve(ctx context.Context, storeID, itemID string) (domain.OpeningStockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.OpeningStockRecord{}, err
	}

	records, err := s.readAll()
	if err != nil {
		return domain.OpeningStockRecord{}, err
	}

	for _, rec := range records {
		if rec.StoreID == storeID && rec.ItemID == itemID {
			return rec, nil
		}
	}

	record := domain.OpeningStockRecord{
		StoreID:   storeID,
		ItemID:    itemID,
		OnHand:    s.defaults.OnHand,
		StartDate: s.defaults.StartDate,
	}
	if err := s.appendRecord(record); err != nil {
		return domain.OpeningStockRecord{}, err
	}

	log.Info().
		Str("store_id", storeID).
		Str("item_id", itemID).
		Int("on_hand", record.OnHand).
		Msg("synthesized default opening stock record")

	return record, nil
}

// ListStoreItems returns every (store, item) pair in the backing file.
func (s *Store) ListStoreItems(ctx context.Context) ([]domain.StoreItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := s.readAll()
	if err != nil {
		return nil, err
	}

	items := make([]domain.StoreItem, 0, len(records))
	for _, rec := range records {
		items = append(items, domain.StoreItem{StoreID: rec.StoreID, ItemID: rec.ItemID})
	}
	return items, nil
}

func (s *Store) readAll() ([]domain.OpeningStockRecord, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open opening stock store: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read opening stock store: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]domain.OpeningStockRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		onHand, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("opening stock row %d: bad onHand %q: %w", i+1, row[2], err)
		}
		startDate, err := time.Parse(domain.DateFormat, row[3])
		if err != nil {
			return nil, fmt.Errorf("opening stock row %d: bad startDate %q: %w", i+1, row[3], err)
		}
		records = append(records, domain.OpeningStockRecord{
			StoreID:   row[0],
			ItemID:    row[1],
			OnHand:    onHand,
			StartDate: startDate,
		})
	}
	return records, nil
}

func (s *Store) appendRecord(rec domain.OpeningStockRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create opening stock dir: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open opening stock store for append: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat opening stock store: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write opening stock header: %w", err)
		}
	}
	if err := w.Write([]string{
		rec.StoreID,
		rec.ItemID,
		strconv.Itoa(rec.OnHand),
		rec.StartDate.Format(domain.DateFormat),
	}); err != nil {
		return fmt.Errorf("append opening stock record: %w", err)
	}
	w.Flush()
	return w.Error()
}
