package sim

import (
	"math"
	"strconv"

	"github.com/retailops/stocksim/internal/domain"
	"github.com/retailops/stocksim/internal/predictor"
	"github.com/rs/zerolog/log"
)

// Forecaster produces the daily sales sequence over the fixed horizon.
//
// The sequence is strictly sequential: each day's feature row carries
// lag_1, lag_7 and a 7-day rolling mean derived from the predictions
// already made in this run, so day i cannot be predicted before days
// 0..i-1. Lookbacks that reach before the horizon are seeded with the
// policy's InitialSales constant.
type Forecaster struct {
	model    predictor.Predictor
	fallback predictor.Predictor
	policy   Policy
}

// NewForecaster builds a forecaster around the selected model. fallback
// is used for any single prediction the model fails on; it is never nil
// in practice because predictor selection always yields a rule-based
// variant when no model is available.
func NewForecaster(model, fallback predictor.Predictor, policy Policy) *Forecaster {
	return &Forecaster{model: model, fallback: fallback, policy: policy}
}

// Forecast returns one point per horizon day, date-ascending, all
// quantities >= 1.
func (f *Forecaster) Forecast(storeID, itemID string) []domain.SalesForecastPoint {
	dates := f.policy.HorizonDates()
	points := make([]domain.SalesForecastPoint, 0, len(dates))
	quantities := make([]int, 0, len(dates))

	for i, date := range dates {
		dow := mondayIndexed(date.Weekday())
		features := predictor.Features{
			predictor.FeatMonth:      float64(date.Month()),
			predictor.FeatDay:        float64(date.Day()),
			predictor.FeatDayOfWeek:  float64(dow),
			predictor.FeatIsHoliday:  0,
			predictor.FeatStoreID:    numericID(storeID),
			predictor.FeatItemID:     numericID(itemID),
			predictor.FeatLag1:       f.lag(quantities, i, 1),
			predictor.FeatLag7:       f.lag(quantities, i, 7),
			predictor.FeatRollingAvg: f.rollingMean(quantities, i),
		}
		if isWeekend(dow) {
			features[predictor.FeatIsWeekend] = 1
		} else {
			features[predictor.FeatIsWeekend] = 0
		}

		qty := f.predictOne(features)
		quantities = append(quantities, qty)
		points = append(points, domain.SalesForecastPoint{
			StoreID:  storeID,
			ItemID:   itemID,
			Date:     date,
			Quantity: qty,
		})
	}

	return points
}

// predictOne runs the model and degrades to the fallback for this
// single row when the model misbehaves. The result is rounded to the
// nearest integer and floored at 1.
func (f *Forecaster) predictOne(features predictor.Features) int {
	raw, err := f.model.Predict(features)
	if err != nil {
		log.Warn().Err(err).Msg("sales prediction failed, using fallback for this day")
		raw, err = f.fallback.Predict(features)
		if err != nil {
			raw = float64(f.policy.InitialSales)
		}
	}

	qty := int(math.Round(raw))
	if qty < 1 {
		qty = 1
	}
	return qty
}

// lag returns the prediction made `back` days before index i, or the
// InitialSales seed when fewer than `back` prior points exist.
func (f *Forecaster) lag(quantities []int, i, back int) float64 {
	if i < back {
		return float64(f.policy.InitialSales)
	}
	return float64(quantities[i-back])
}

// rollingMean is the mean of the last min(i, 7) predictions, or the
// InitialSales seed on day 0.
func (f *Forecaster) rollingMean(quantities []int, i int) float64 {
	if i == 0 {
		return float64(f.policy.InitialSales)
	}
	window := i
	if window > 7 {
		window = 7
	}
	sum := 0
	for _, q := range quantities[i-window : i] {
		sum += q
	}
	return float64(sum) / float64(window)
}

// numericID coerces a store or item id to the numeric form the models
// were trained on; non-numeric ids map to 0.
func numericID(id string) float64 {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0
	}
	return float64(n)
}
