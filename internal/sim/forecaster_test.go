package sim

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/retailops/stocksim/internal/domain"
	"github.com/retailops/stocksim/internal/predictor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() Policy {
	return Policy{
		HorizonStart:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		HorizonEnd:       time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		InitialSales:     10,
		DefaultOnHand:    100,
		DefaultStartDate: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		ReorderThreshold: 20,
		OrderQuantity:    50,
		OrderSpacingDays: 7,
		LeadTimeMin:      3,
		LeadTimeMax:      14,
	}
}

// stubPredictor returns canned values and records every feature row it
// was asked to predict.
type stubPredictor struct {
	value float64
	err   error
	rows  []predictor.Features
}

func (s *stubPredictor) Predict(features predictor.Features) (float64, error) {
	s.rows = append(s.rows, features)
	if s.err != nil {
		return 0, s.err
	}
	return s.value, nil
}

func TestForecastCoversFullHorizon(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	f := NewForecaster(predictor.NewRuleBasedSales(rng), predictor.NewRuleBasedSales(rng), testPolicy())

	points := f.Forecast("1", "1")

	require.Len(t, points, 212)
	for i, p := range points {
		assert.GreaterOrEqual(t, p.Quantity, 1, "day %d", i)
		if i > 0 {
			assert.Equal(t, points[i-1].Date.AddDate(0, 0, 1), p.Date, "dates must be consecutive")
		}
	}
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), points[0].Date)
	assert.Equal(t, time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC), points[211].Date)
}

func TestForecastIsDeterministicForSeed(t *testing.T) {
	run := func() []domain.SalesForecastPoint {
		rng := rand.New(rand.NewSource(7))
		f := NewForecaster(predictor.NewRuleBasedSales(rng), predictor.NewRuleBasedSales(rng), testPolicy())
		return f.Forecast("3", "9")
	}

	assert.Equal(t, run(), run())
}

func TestForecastLagFeaturesAreSequential(t *testing.T) {
	stub := &stubPredictor{value: 24}
	f := NewForecaster(stub, stub, testPolicy())

	points := f.Forecast("1", "2")
	require.Len(t, stub.rows, 212)

	// Day 0 lookbacks are seeded with the initial sales constant.
	assert.Equal(t, 10.0, stub.rows[0][predictor.FeatLag1])
	assert.Equal(t, 10.0, stub.rows[0][predictor.FeatLag7])
	assert.Equal(t, 10.0, stub.rows[0][predictor.FeatRollingAvg])

	// From day 1 on, lag_1 is the previous predicted quantity.
	assert.Equal(t, float64(points[0].Quantity), stub.rows[1][predictor.FeatLag1])

	// Days 1..6 still have no 7-day-old prediction.
	assert.Equal(t, 10.0, stub.rows[6][predictor.FeatLag7])
	assert.Equal(t, float64(points[0].Quantity), stub.rows[7][predictor.FeatLag7])
	assert.Equal(t, float64(points[3].Quantity), stub.rows[10][predictor.FeatLag7])

	// Rolling mean over the last min(i, 7) predictions.
	assert.Equal(t, 24.0, stub.rows[3][predictor.FeatRollingAvg])
	assert.Equal(t, 24.0, stub.rows[100][predictor.FeatRollingAvg])
}

func TestForecastCalendarFeatures(t *testing.T) {
	stub := &stubPredictor{value: 5}
	f := NewForecaster(stub, stub, testPolicy())
	f.Forecast("12", "34")

	// 2025-01-01 is a Wednesday: 2 in the 0=Monday convention.
	row := stub.rows[0]
	assert.Equal(t, 1.0, row[predictor.FeatMonth])
	assert.Equal(t, 1.0, row[predictor.FeatDay])
	assert.Equal(t, 2.0, row[predictor.FeatDayOfWeek])
	assert.Equal(t, 0.0, row[predictor.FeatIsWeekend])
	assert.Equal(t, 12.0, row[predictor.FeatStoreID])
	assert.Equal(t, 34.0, row[predictor.FeatItemID])

	// 2025-01-04 is a Saturday.
	assert.Equal(t, 5.0, stub.rows[3][predictor.FeatDayOfWeek])
	assert.Equal(t, 1.0, stub.rows[3][predictor.FeatIsWeekend])
}

func TestForecastFloorsQuantityAtOne(t *testing.T) {
	stub := &stubPredictor{value: -3.7}
	f := NewForecaster(stub, stub, testPolicy())

	for _, p := range f.Forecast("1", "1") {
		assert.Equal(t, 1, p.Quantity)
	}
}

func TestForecastFallsBackPerPrediction(t *testing.T) {
	failing := &stubPredictor{err: fmt.Errorf("malformed output")}
	fallback := &stubPredictor{value: 8}
	f := NewForecaster(failing, fallback, testPolicy())

	points := f.Forecast("1", "1")

	require.Len(t, points, 212)
	assert.Len(t, fallback.rows, 212)
	for _, p := range points {
		assert.Equal(t, 8, p.Quantity)
	}
}

func TestForecastNonNumericIDsMapToZero(t *testing.T) {
	stub := &stubPredictor{value: 5}
	f := NewForecaster(stub, stub, testPolicy())
	f.Forecast("north-01", "SKU-9")

	assert.Equal(t, 0.0, stub.rows[0][predictor.FeatStoreID])
	assert.Equal(t, 0.0, stub.rows[0][predictor.FeatItemID])
}
