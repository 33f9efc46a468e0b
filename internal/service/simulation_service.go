package service

import (
	"context"
	"fmt"
	"math/rand"
	"path"
	"time"

	"github.com/retailops/stocksim/internal/artifact"
	"github.com/retailops/stocksim/internal/cache"
	"github.com/retailops/stocksim/internal/config"
	"github.com/retailops/stocksim/internal/domain"
	"github.com/retailops/stocksim/internal/predictor"
	"github.com/retailops/stocksim/internal/repository"
	"github.com/retailops/stocksim/internal/sim"
	"github.com/retailops/stocksim/internal/storage"
	"github.com/retailops/stocksim/pkg/logger"
	"github.com/rs/zerolog"
)

// publishPrefix is the object-storage key prefix for mirrored run
// artifacts.
const publishPrefix = "runs"

// SimulationService orchestrates one run of the pipeline: resolve
// opening stock, forecast sales, build the ledger, apply replenishment,
// persist artifacts.
type SimulationService struct {
	repo      repository.OpeningStockRepository
	artifacts *artifact.Store
	cache     cache.ReportCache
	objects   storage.ObjectStorage
	policy    sim.Policy
	simCfg    config.SimConfig
	modelDir  string
	newRand   func() *rand.Rand
	log       zerolog.Logger
}

// NewSimulationService wires the run pipeline. objects may be nil when
// artifact publishing is disabled.
func NewSimulationService(
	repo repository.OpeningStockRepository,
	artifacts *artifact.Store,
	cacheImpl cache.ReportCache,
	objects storage.ObjectStorage,
	policy sim.Policy,
	simCfg config.SimConfig,
	modelDir string,
) *SimulationService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	return &SimulationService{
		repo:      repo,
		artifacts: artifacts,
		cache:     cacheImpl,
		objects:   objects,
		policy:    policy,
		simCfg:    simCfg,
		modelDir:  modelDir,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		log: logger.With("simulation"),
	}
}

// WithRandSource overrides the per-run random source, for deterministic
// runs and tests.
func (s *SimulationService) WithRandSource(newRand func() *rand.Rand) *SimulationService {
	s.newRand = newRand
	return s
}

// Run executes the full simulation for one (store, item) pair.
func (s *SimulationService) Run(ctx context.Context, storeID, itemID string) (*domain.RunResult, error) {
	// Drop any cached summary up front so a stale report cannot be
	// served while this run replaces the artifacts.
	if err := s.cache.Invalidate(ctx, storeID, itemID); err != nil {
		s.log.Warn().Err(err).Msg("report cache invalidate failed")
	}

	opening, err := s.repo.Resolve(ctx, storeID, itemID)
	if err != nil {
		return nil, fmt.Errorf("resolve opening stock: %w", err)
	}

	rng := s.newRand()

	salesModel := predictor.SelectSales(s.modelDir, s.simCfg.SalesModelFile, rng)
	salesFallback := predictor.NewRuleBasedSales(rng)
	forecaster := sim.NewForecaster(salesModel, salesFallback, s.policy)
	forecast := forecaster.Forecast(storeID, itemID)

	ledger := sim.BuildLedger(opening, forecast)

	leadModel := predictor.SelectLeadTime(s.modelDir, s.simCfg.LeadTimeModelFile, rng,
		s.simCfg.FallbackLeadMin, s.simCfg.FallbackLeadMax)
	leadFallback := predictor.NewRuleBasedLeadTime(rng, s.simCfg.FallbackLeadMin, s.simCfg.FallbackLeadMax)
	replenisher := sim.NewReplenisher(leadModel, leadFallback, s.policy)
	orders, merged := replenisher.Apply(ledger, storeID, itemID)

	summary := sim.Summarize(merged, orders)

	if err := s.persistArtifacts(ctx, forecast, merged, orders); err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, summary); err != nil {
		s.log.Warn().Err(err).Msg("report cache set failed")
	}

	s.log.Info().
		Str("store_id", storeID).
		Str("item_id", itemID).
		Int("forecast_days", len(forecast)).
		Int("orders_placed", len(orders)).
		Int("final_stock", summary.FinalStock).
		Msg("simulation run completed")

	return &domain.RunResult{
		Opening:  opening,
		Forecast: forecast,
		Ledger:   merged,
		Orders:   orders,
		Summary:  summary,
	}, nil
}

func (s *SimulationService) persistArtifacts(ctx context.Context, forecast []domain.SalesForecastPoint, ledger []domain.LedgerEntry, orders []domain.PurchaseOrder) error {
	if err := s.artifacts.WriteSales(forecast); err != nil {
		return fmt.Errorf("persist sales forecast: %w", err)
	}
	if err := s.artifacts.WriteLedger(ledger); err != nil {
		return fmt.Errorf("persist inventory ledger: %w", err)
	}
	if err := s.artifacts.WritePurchases(orders); err != nil {
		return fmt.Errorf("persist purchases: %w", err)
	}

	if s.objects != nil {
		s.publishArtifacts(ctx)
	}
	return nil
}

// publishArtifacts mirrors the CSV outputs to object storage. Upload
// failures are logged, not fatal: the local artifacts remain the source
// of truth for the run.
func (s *SimulationService) publishArtifacts(ctx context.Context) {
	for _, local := range []string{
		s.artifacts.SalesPath(),
		s.artifacts.LedgerPath(),
		s.artifacts.PurchasesPath(),
	} {
		key := path.Join(publishPrefix, path.Base(local))
		if err := s.objects.UploadFile(ctx, key, local); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("artifact upload failed")
		}
	}
}

// ListPublishedArtifacts returns the artifact objects mirrored to
// object storage, or nothing when publishing is disabled.
func (s *SimulationService) ListPublishedArtifacts(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.objects == nil {
		return nil, nil
	}
	return s.objects.ListObjects(ctx, publishPrefix+"/")
}

// ListStoreItems exposes the known (store, item) pairs for dashboard
// dropdowns.
func (s *SimulationService) ListStoreItems(ctx context.Context) ([]domain.StoreItem, error) {
	return s.repo.ListStoreItems(ctx)
}
