package sqi

import (
	"github.com/rotisserie/eris"
)

// Normalization selects how weighted layer scores are reduced to one value.
type Normalization string

const (
	// NormalizeWeightSum divides the weighted sum by the sum of weights.
	NormalizeWeightSum Normalization = "weight_sum"
	// NormalizeLayerCount divides the weighted sum by the number of layers,
	// treating the weights as already scaled to the layer count.
	NormalizeLayerCount Normalization = "layer_count"
)

// ParseNormalization validates a normalization name. Empty selects
// NormalizeWeightSum.
func ParseNormalization(s string) (Normalization, error) {
	switch n := Normalization(s); n {
	case "":
		return NormalizeWeightSum, nil
	case NormalizeWeightSum, NormalizeLayerCount:
		return n, nil
	default:
		return "", eris.Errorf("sqi: unknown normalization %q (want weight_sum or layer_count)", s)
	}
}

// WeightedMean reduces per-layer scores with depth weights. scores and
// weights must have the same length; an empty input yields 0.
func WeightedMean(scores, weights []float64, mode Normalization) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum, wsum float64
	for i, s := range scores {
		sum += s * weights[i]
		wsum += weights[i]
	}
	if mode == NormalizeLayerCount {
		return sum / float64(len(scores))
	}
	if wsum == 0 {
		return 0
	}
	return sum / wsum
}
