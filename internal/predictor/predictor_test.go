package predictor

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainedPredictLinearCombination(t *testing.T) {
	model := &Trained{
		Intercept: 2,
		Coefficients: map[string]float64{
			FeatLag1:      0.5,
			FeatIsWeekend: 3,
		},
	}

	got, err := model.Predict(Features{FeatLag1: 10, FeatIsWeekend: 1})
	require.NoError(t, err)
	assert.Equal(t, 10.0, got)

	// Missing features contribute zero.
	got, err = model.Predict(Features{})
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestLoadTrained(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales_model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"intercept":1.5,"coefficients":{"Lag1":0.9}}`), 0644))

	model, err := LoadTrained(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, model.Intercept)
	assert.Equal(t, 0.9, model.Coefficients[FeatLag1])
}

func TestLoadTrainedRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTrained(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte(`{not json`), 0644))
	_, err = LoadTrained(corrupt)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"intercept":1}`), 0644))
	_, err = LoadTrained(empty)
	assert.Error(t, err, "a model without coefficients is malformed")
}

func TestRuleBasedSalesRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := NewRuleBasedSales(rng)

	for month := 1; month <= 12; month++ {
		for _, weekend := range []float64{0, 1} {
			for i := 0; i < 200; i++ {
				got, err := p.Predict(Features{
					FeatMonth:     float64(month),
					FeatIsWeekend: weekend,
				})
				require.NoError(t, err)
				assert.GreaterOrEqual(t, got, 1.0)
				// 15 * 1.5 weekend * 1.1 peak season
				assert.LessOrEqual(t, got, 24.0)
			}
		}
	}
}

func TestRuleBasedSalesWeekendLift(t *testing.T) {
	// Same seed, same draws: the weekend run can never fall below the
	// weekday run for identical base quantities.
	weekday := NewRuleBasedSales(rand.New(rand.NewSource(99)))
	weekend := NewRuleBasedSales(rand.New(rand.NewSource(99)))

	for i := 0; i < 100; i++ {
		wd, err := weekday.Predict(Features{FeatMonth: 1, FeatIsWeekend: 0})
		require.NoError(t, err)
		we, err := weekend.Predict(Features{FeatMonth: 1, FeatIsWeekend: 1})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, we, wd)
	}
}

func TestRuleBasedLeadTimeRange(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := NewRuleBasedLeadTime(rng, 3, 10)

	seen := map[float64]bool{}
	for i := 0; i < 500; i++ {
		got, err := p.Predict(Features{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, 3.0)
		assert.LessOrEqual(t, got, 10.0)
		seen[got] = true
	}
	assert.Len(t, seen, 8, "every day in [3,10] should be drawn")
}

func TestSelectFallsBackWhenModelMissing(t *testing.T) {
	dir := t.TempDir()
	rng := rand.New(rand.NewSource(1))

	sales := SelectSales(dir, "sales_model.json", rng)
	assert.IsType(t, &RuleBasedSales{}, sales)

	lead := SelectLeadTime(dir, "leadtime_model.json", rng, 3, 10)
	assert.IsType(t, &RuleBasedLeadTime{}, lead)
}

func TestSelectFallsBackWhenModelCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales_model.json"), []byte("garbage"), 0644))

	rng := rand.New(rand.NewSource(1))
	sales := SelectSales(dir, "sales_model.json", rng)
	assert.IsType(t, &RuleBasedSales{}, sales)
}

func TestSelectLoadsTrainedModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales_model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"intercept":4,"coefficients":{"Lag1":1}}`), 0644))

	sales := SelectSales(dir, "sales_model.json", rand.New(rand.NewSource(1)))
	assert.IsType(t, &Trained{}, sales)
}
