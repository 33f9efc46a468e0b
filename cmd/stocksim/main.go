package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/retailops/stocksim/internal/artifact"
	"github.com/retailops/stocksim/internal/cache"
	"github.com/retailops/stocksim/internal/config"
	"github.com/retailops/stocksim/internal/domain"
	"github.com/retailops/stocksim/internal/repository"
	"github.com/retailops/stocksim/internal/repository/csvstore"
	"github.com/retailops/stocksim/internal/service"
	"github.com/retailops/stocksim/internal/sim"
	"github.com/retailops/stocksim/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("no .env file loaded")
	}

	app := &cli.App{
		Name:  "stocksim",
		Usage: "Inventory ledger simulation and replenishment CLI",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run one simulation and write the CSV artifacts",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "store-id",
						Usage:    "Store identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "item-id",
						Usage:    "Item identifier",
						Required: true,
					},
				},
				Action: runSimulation,
			},
			newSeedCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}

func runSimulation(c *cli.Context) error {
	cfg := config.Load()
	if cfg.Server.Mode == "debug" {
		logger.SetLevel("debug")
	}

	policy, err := sim.PolicyFromConfig(cfg.Sim)
	if err != nil {
		return fmt.Errorf("invalid simulation policy: %w", err)
	}

	repo := csvstore.New(filepath.Join(cfg.App.DataDir, "OpeningStock.csv"), repository.Defaults{
		OnHand:    policy.DefaultOnHand,
		StartDate: policy.DefaultStartDate,
	})
	artifacts := artifact.NewStore(cfg.App.DataDir)

	svc := service.NewSimulationService(repo, artifacts, cache.NewNoopReportCache(), nil, policy, cfg.Sim, cfg.App.ModelDir)

	result, err := svc.Run(c.Context, c.String("store-id"), c.String("item-id"))
	if err != nil {
		return err
	}

	printSummary(result.Summary, len(result.Ledger))
	return nil
}

func printSummary(s domain.ReportSummary, ledgerEntries int) {
	fmt.Printf("Store %s / Item %s\n", s.StoreID, s.ItemID)
	fmt.Printf("  opening stock:   %d\n", s.OpeningStock)
	fmt.Printf("  units sold:      %d\n", s.TotalUnitsSold)
	fmt.Printf("  units purchased: %d\n", s.TotalPurchased)
	fmt.Printf("  orders placed:   %d\n", s.OrdersPlaced)
	fmt.Printf("  final stock:     %d\n", s.FinalStock)
	fmt.Printf("  stockout days:   %d\n", s.StockoutDays)
	fmt.Printf("  ledger entries:  %d\n", ledgerEntries)
}
