package sqi

import (
	"github.com/sells-group/gaez-sqi/internal/model"
)

// SoilRating combines SQI values into the final rating. The fertility term
// is SQ1 at low and intermediate input and SQ2 at high input; SQ3 and SQ7
// act as 0-1 multipliers.
func SoilRating(lvl model.InputLevel, sq1, sq2, sq3, sq7 float64) (float64, error) {
	var fertility float64
	switch lvl {
	case model.InputLevelLow, model.InputLevelIntermediate:
		fertility = sq1
	case model.InputLevelHigh:
		fertility = sq2
	default:
		return 0, &InvalidInputLevelError{Level: string(lvl)}
	}
	return fertility * (sq3 / 100) * (sq7 / 100), nil
}
