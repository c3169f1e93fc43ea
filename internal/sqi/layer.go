package sqi

// Factor names a component of a limiting-factor comparison.
type Factor string

const (
	FactorReferenceDepth  Factor = "rd"
	FactorTexture         Factor = "txt"
	FactorCoarseFragments Factor = "cf"
)

type component struct {
	factor Factor
	score  float64
}

// limiting returns the lowest-scoring component. On ties the earliest
// component wins. The remaining components are returned in input order.
func limiting(cs ...component) (component, []component) {
	low := 0
	for i := 1; i < len(cs); i++ {
		if cs[i].score < cs[low].score {
			low = i
		}
	}
	rest := make([]component, 0, len(cs)-1)
	rest = append(rest, cs[:low]...)
	rest = append(rest, cs[low+1:]...)
	return cs[low], rest
}

// RootingLayerScore combines the SQ3 components of one layer: the lower of
// the texture and coarse-fragment ratings, scaled by the profile's
// reference-depth rating.
func RootingLayerScore(rdScore, txtScore, cfScore float64) (float64, Factor) {
	low, _ := limiting(
		component{FactorTexture, txtScore},
		component{FactorCoarseFragments, cfScore},
	)
	return rdScore * (low.score / 100), low.factor
}

// WorkabilityLayerScore combines the SQ7 components of one layer: the mean
// of the limiting rating and the mean of the other two.
func WorkabilityLayerScore(rdScore, txtScore, cfScore float64) (float64, Factor) {
	low, rest := limiting(
		component{FactorReferenceDepth, rdScore},
		component{FactorTexture, txtScore},
		component{FactorCoarseFragments, cfScore},
	)
	var sum float64
	for _, c := range rest {
		sum += c.score
	}
	others := sum / float64(len(rest))
	return (low.score + others) / 2, low.factor
}
