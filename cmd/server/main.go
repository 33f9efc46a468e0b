package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retailops/stocksim/internal/api"
	"github.com/retailops/stocksim/internal/artifact"
	"github.com/retailops/stocksim/internal/cache"
	"github.com/retailops/stocksim/internal/config"
	"github.com/retailops/stocksim/internal/repository"
	"github.com/retailops/stocksim/internal/repository/csvstore"
	"github.com/retailops/stocksim/internal/repository/postgres"
	"github.com/retailops/stocksim/internal/service"
	"github.com/retailops/stocksim/internal/sim"
	"github.com/retailops/stocksim/internal/storage"
	"github.com/retailops/stocksim/pkg/logger"
)

func main() {
	cfg := config.Load()

	if cfg.Server.Mode == "debug" {
		logger.SetLevel("debug")
		gin.SetMode(gin.DebugMode)
	} else {
		logger.SetLevel("info")
		gin.SetMode(gin.ReleaseMode)
	}

	policy, err := sim.PolicyFromConfig(cfg.Sim)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("invalid simulation policy")
	}

	defaults := repository.Defaults{
		OnHand:    policy.DefaultOnHand,
		StartDate: policy.DefaultStartDate,
	}

	var repo repository.OpeningStockRepository
	switch cfg.App.RepoBackend {
	case "postgres":
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("failed to connect to database")
		}
		repo = postgres.NewOpeningStockRepository(db, defaults)
	default:
		repo = csvstore.New(filepath.Join(cfg.App.DataDir, "OpeningStock.csv"), defaults)
	}

	artifacts := artifact.NewStore(cfg.App.DataDir)

	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("report cache unavailable, continuing without it")
		reportCache = cache.NewNoopReportCache()
	}

	var objects storage.ObjectStorage
	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("object storage unavailable, artifacts stay local")
		} else {
			objects = client
		}
	}

	simService := service.NewSimulationService(repo, artifacts, reportCache, objects, policy, cfg.Sim, cfg.App.ModelDir)
	reportService := service.NewReportService(reportCache, artifacts)

	router := api.NewRouter(&api.Services{
		Simulation: simService,
		Report:     reportService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Log.Info().Msg("server exiting")
}
