// Package sim implements the inventory simulation engine: the sales
// forecaster, the ledger builder and the replenishment engine. Each run
// is a synchronous batch computation over one (store, item) pair
// operating on run-local copies; nothing in this package is shared
// across runs.
package sim

import (
	"fmt"
	"time"

	"github.com/retailops/stocksim/internal/config"
	"github.com/retailops/stocksim/internal/domain"
)

// Policy carries the simulation constants for one run.
type Policy struct {
	HorizonStart     time.Time
	HorizonEnd       time.Time
	InitialSales     int
	DefaultOnHand    int
	DefaultStartDate time.Time
	ReorderThreshold int
	OrderQuantity    int
	OrderSpacingDays int
	LeadTimeMin      int
	LeadTimeMax      int
}

// PolicyFromConfig parses the configured simulation constants.
func PolicyFromConfig(cfg config.SimConfig) (Policy, error) {
	start, err := time.Parse(domain.DateFormat, cfg.HorizonStart)
	if err != nil {
		return Policy{}, fmt.Errorf("parse horizon start: %w", err)
	}
	end, err := time.Parse(domain.DateFormat, cfg.HorizonEnd)
	if err != nil {
		return Policy{}, fmt.Errorf("parse horizon end: %w", err)
	}
	if end.Before(start) {
		return Policy{}, fmt.Errorf("horizon end %s before start %s", cfg.HorizonEnd, cfg.HorizonStart)
	}
	defaultStart, err := time.Parse(domain.DateFormat, cfg.DefaultStartDate)
	if err != nil {
		return Policy{}, fmt.Errorf("parse default start date: %w", err)
	}

	return Policy{
		HorizonStart:     start,
		HorizonEnd:       end,
		InitialSales:     cfg.InitialSales,
		DefaultOnHand:    cfg.DefaultOnHand,
		DefaultStartDate: defaultStart,
		ReorderThreshold: cfg.ReorderThreshold,
		OrderQuantity:    cfg.OrderQuantity,
		OrderSpacingDays: cfg.OrderSpacingDays,
		LeadTimeMin:      cfg.LeadTimeMin,
		LeadTimeMax:      cfg.LeadTimeMax,
	}, nil
}

// HorizonDates enumerates every calendar day in [HorizonStart,
// HorizonEnd] inclusive, ascending.
func (p Policy) HorizonDates() []time.Time {
	var dates []time.Time
	for d := p.HorizonStart; !d.After(p.HorizonEnd); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// mondayIndexed converts Go's Sunday-based weekday to the 0=Monday
// convention used by the model feature contract.
func mondayIndexed(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// isWeekend reports whether the Monday-indexed day falls on Saturday
// (5) or Sunday (6).
func isWeekend(mondayIdx int) bool {
	return mondayIdx >= 5
}
