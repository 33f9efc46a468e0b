package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/retailops/stocksim/internal/artifact"
	"github.com/retailops/stocksim/internal/cache"
	"github.com/retailops/stocksim/internal/domain"
	"github.com/retailops/stocksim/internal/sim"
	"github.com/retailops/stocksim/pkg/logger"
	"github.com/rs/zerolog"
)

// ErrNoReport is returned when no completed run covers the requested
// (store, item) pair.
var ErrNoReport = errors.New("no report available for this store and item")

// ReportService serves run summaries, preferring the cache and falling
// back to re-deriving them from the persisted artifacts.
type ReportService struct {
	cache     cache.ReportCache
	artifacts *artifact.Store
	log       zerolog.Logger
}

func NewReportService(cacheImpl cache.ReportCache, artifacts *artifact.Store) *ReportService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	return &ReportService{
		cache:     cacheImpl,
		artifacts: artifacts,
		log:       logger.With("report"),
	}
}

// GetSummary returns the latest run summary for the pair.
func (s *ReportService) GetSummary(ctx context.Context, storeID, itemID string) (domain.ReportSummary, error) {
	if summary, ok, err := s.cache.Get(ctx, storeID, itemID); err == nil && ok {
		return *summary, nil
	} else if err != nil {
		s.log.Warn().Err(err).Msg("report cache get failed")
	}

	summary, err := s.rebuildFromArtifacts(storeID, itemID)
	if err != nil {
		return domain.ReportSummary{}, err
	}

	if err := s.cache.Set(ctx, summary); err != nil {
		s.log.Warn().Err(err).Msg("report cache set failed")
	}
	return summary, nil
}

func (s *ReportService) rebuildFromArtifacts(storeID, itemID string) (domain.ReportSummary, error) {
	ledger, err := s.artifacts.ReadLedger()
	if err != nil {
		return domain.ReportSummary{}, fmt.Errorf("read ledger artifact: %w", err)
	}

	var entries []domain.LedgerEntry
	for _, entry := range ledger {
		if entry.StoreID == storeID && entry.ItemID == itemID {
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 {
		return domain.ReportSummary{}, ErrNoReport
	}

	purchases, err := s.artifacts.ReadPurchases()
	if err != nil {
		return domain.ReportSummary{}, fmt.Errorf("read purchases artifact: %w", err)
	}

	var orders []domain.PurchaseOrder
	for _, order := range purchases {
		if order.StoreID == storeID && order.ItemID == itemID {
			orders = append(orders, order)
		}
	}

	return sim.Summarize(entries, orders), nil
}
