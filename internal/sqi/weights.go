package sqi

// Supported profile layer counts.
const (
	MinLayers = 1
	MaxLayers = 5
)

// Weighting schemes. Scheme 1 weights the 20-50 cm interval more heavily.
const (
	WeightScheme1       = 1
	WeightScheme2       = 2
	DefaultWeightScheme = WeightScheme1
)

var depthWeights = map[int][MaxLayers + 1][]float64{
	WeightScheme1: {
		1: {1},
		2: {0.02, 1.8},
		3: {0.15, 1.35, 1.5},
		4: {0.15, 1.10, 1.25, 1.5},
		5: {0.125, 1.125, 1.25, 1.66, 0.84},
	},
	WeightScheme2: {
		1: {1},
		2: {0.02, 1.8},
		3: {0.15, 1.35, 1.5},
		4: {0.16, 1.44, 1.6, 0.8},
		5: {0.2, 1.8, 2, 0.67, 0.33},
	},
}

// DepthWeights returns a copy of the weight vector for a layer count under
// the given scheme. A scheme of 0 selects DefaultWeightScheme.
func DepthWeights(layers, scheme int) ([]float64, error) {
	if scheme == 0 {
		scheme = DefaultWeightScheme
	}
	table, ok := depthWeights[scheme]
	if !ok {
		return nil, &UnsupportedWeightSchemeError{Scheme: scheme}
	}
	if layers < MinLayers || layers > MaxLayers {
		return nil, &UnsupportedLayerCountError{Count: layers}
	}
	out := make([]float64, layers)
	copy(out, table[layers])
	return out, nil
}
