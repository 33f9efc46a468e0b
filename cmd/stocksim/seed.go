package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/retailops/stocksim/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const openingStockSchema = `
CREATE TABLE IF NOT EXISTS opening_stock (
	store_id   TEXT NOT NULL,
	item_id    TEXT NOT NULL,
	on_hand    INTEGER NOT NULL,
	start_date DATE NOT NULL,
	PRIMARY KEY (store_id, item_id)
)`

func newSeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load an OpeningStock.csv file into the Postgres repository",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "db-url",
				Usage:    "Database connection string",
				Required: true,
				EnvVars:  []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "Path to the opening stock CSV",
				Value: "./data/output/OpeningStock.csv",
			},
		},
		Action: runSeed,
	}
}

func runSeed(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(c.Context, openingStockSchema); err != nil {
		return fmt.Errorf("failed to create opening_stock table: %w", err)
	}

	count, err := loadOpeningStock(c.Context, db, c.String("file"))
	if err != nil {
		return err
	}

	log.Info().Int("records", count).Str("file", c.String("file")).Msg("opening stock seeded")
	return nil
}

func loadOpeningStock(ctx context.Context, db *sql.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 4

	// Skip the header row.
	if _, err := r.Read(); err != nil {
		return 0, fmt.Errorf("read seed header: %w", err)
	}

	count := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read seed row: %w", err)
		}

		onHand, err := strconv.Atoi(row[2])
		if err != nil {
			return count, fmt.Errorf("seed row %d: bad onHand %q: %w", count+1, row[2], err)
		}

		startDate, err := time.Parse(domain.DateFormat, row[3])
		if err != nil {
			return count, fmt.Errorf("seed row %d: bad startDate %q: %w", count+1, row[3], err)
		}

		_, err = db.ExecContext(ctx, `
			INSERT INTO opening_stock (store_id, item_id, on_hand, start_date)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (store_id, item_id) DO NOTHING
		`, row[0], row[1], onHand, startDate)
		if err != nil {
			return count, fmt.Errorf("insert seed row %d: %w", count+1, err)
		}
		count++
	}

	return count, nil
}
