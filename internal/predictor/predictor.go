// Package predictor provides the model abstraction used by the
// simulation engine. A Predictor is either Trained (linear model loaded
// from a JSON parameter file) or RuleBased (deterministic-shape fallback
// driven by an injected random source). The variant is selected once at
// the start of a run; a missing or unreadable model file degrades to the
// rule-based variant with a warning and is never fatal.
package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
)

// Feature names shared with the simulation engine. The feature set is a
// contract with the trained models, not with the engine itself.
const (
	FeatMonth      = "Month"
	FeatDay        = "Day"
	FeatDayOfWeek  = "DayOfWeek"
	FeatIsWeekend  = "IsWeekend"
	FeatIsHoliday  = "IsHoliday"
	FeatStoreID    = "StoreID"
	FeatItemID     = "ItemID"
	FeatLag1       = "Lag1"
	FeatLag7       = "Lag7"
	FeatRollingAvg = "RollingAvg7"
	FeatQuantity   = "Quantity"
	FeatWeek       = "Week"
)

// Features is one named feature row.
type Features map[string]float64

// Predictor produces a single numeric prediction from a feature row.
type Predictor interface {
	Predict(features Features) (float64, error)
}

// Trained is a linear model with named coefficients, the Go artifact
// format for models exported from the training pipeline.
type Trained struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

func (t *Trained) Predict(features Features) (float64, error) {
	sum := t.Intercept
	for name, coef := range t.Coefficients {
		sum += coef * features[name]
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, fmt.Errorf("trained model produced non-finite prediction")
	}
	return sum, nil
}

// LoadTrained reads a linear model from a JSON parameter file.
func LoadTrained(path string) (*Trained, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	var model Trained
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("decode model file %s: %w", path, err)
	}
	if len(model.Coefficients) == 0 {
		return nil, fmt.Errorf("model file %s has no coefficients", path)
	}
	return &model, nil
}

// RuleBasedSales is the seasonal fallback sales generator: a base
// quantity uniform on [5,15], scaled 1.5x on weekends and by a seasonal
// sine factor on the month, truncated to integer, floored at 1.
type RuleBasedSales struct {
	rng *rand.Rand
}

func NewRuleBasedSales(rng *rand.Rand) *RuleBasedSales {
	return &RuleBasedSales{rng: rng}
}

func (r *RuleBasedSales) Predict(features Features) (float64, error) {
	base := 5 + r.rng.Intn(11)

	if features[FeatIsWeekend] == 1 {
		base = int(float64(base) * 1.5)
	}

	month := features[FeatMonth]
	seasonal := 1.0 + 0.1*math.Sin((month-1)*math.Pi/6)
	base = int(float64(base) * seasonal)

	if base < 1 {
		base = 1
	}
	return float64(base), nil
}

// RuleBasedLeadTime is the fallback lead-time generator: uniform on
// [Min,Max] days.
type RuleBasedLeadTime struct {
	rng *rand.Rand
	min int
	max int
}

func NewRuleBasedLeadTime(rng *rand.Rand, min, max int) *RuleBasedLeadTime {
	if max < min {
		max = min
	}
	return &RuleBasedLeadTime{rng: rng, min: min, max: max}
}

func (r *RuleBasedLeadTime) Predict(features Features) (float64, error) {
	return float64(r.min + r.rng.Intn(r.max-r.min+1)), nil
}
