package predictor

import (
	"math/rand"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// SelectSales picks the sales predictor for a run: the trained model
// when its parameter file is present and loadable, the rule-based
// generator otherwise.
func SelectSales(modelDir, modelFile string, rng *rand.Rand) Predictor {
	path := filepath.Join(modelDir, modelFile)
	model, err := loadIfPresent(path)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("path", path).Msg("sales model unloadable, using rule-based fallback")
	case model != nil:
		log.Info().Str("path", path).Msg("loaded trained sales model")
		return model
	default:
		log.Info().Str("path", path).Msg("sales model not found, using rule-based fallback")
	}
	return NewRuleBasedSales(rng)
}

// SelectLeadTime picks the lead-time predictor for a run with the
// fallback uniform range [fallbackMin, fallbackMax].
func SelectLeadTime(modelDir, modelFile string, rng *rand.Rand, fallbackMin, fallbackMax int) Predictor {
	path := filepath.Join(modelDir, modelFile)
	model, err := loadIfPresent(path)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("path", path).Msg("lead-time model unloadable, using rule-based fallback")
	case model != nil:
		log.Info().Str("path", path).Msg("loaded trained lead-time model")
		return model
	default:
		log.Info().Str("path", path).Msg("lead-time model not found, using rule-based fallback")
	}
	return NewRuleBasedLeadTime(rng, fallbackMin, fallbackMax)
}

// loadIfPresent returns (nil, nil) when the file simply does not exist,
// so an absent model is reported differently from a corrupt one.
func loadIfPresent(path string) (*Trained, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return LoadTrained(path)
}
