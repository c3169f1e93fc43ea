package sqi

import (
	"errors"

	"github.com/sells-group/gaez-sqi/internal/model"
)

// Compute scores a profile against indexed requirement tables. It performs
// no I/O and does not modify its arguments.
func Compute(p model.SoilProfile, cropID string, lvl model.InputLevel, scheme int, t *Tables, mode Normalization) (*model.SQIScoreSet, error) {
	if _, err := InputLevelCodes(lvl); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		var pe *model.ProfileError
		if errors.As(err, &pe) {
			return nil, &InvalidProfileError{Err: pe}
		}
		return nil, err
	}
	if scheme == 0 {
		scheme = DefaultWeightScheme
	}
	weights, err := DepthWeights(p.LayerCount(), scheme)
	if err != nil {
		return nil, err
	}

	layers := make([]model.SoilLayer, len(p.Layers))
	for i, l := range p.Layers {
		class, err := ClassifyTexture(l.Texture)
		if err != nil {
			return nil, err
		}
		l.TextureClass = class
		layers[i] = l
	}

	rd3, err := t.PropertyScore(SQIRootingConditions, model.PropertyReferenceDepth, p.ReferenceDepth)
	if err != nil {
		return nil, err
	}
	rd7, err := t.PropertyScore(SQIWorkability, model.PropertyReferenceDepth, p.ReferenceDepth)
	if err != nil {
		return nil, err
	}

	high := lvl == model.InputLevelHigh
	n := len(layers)
	fert := make([]float64, n)
	sq3 := make([]float64, n)
	sq7 := make([]float64, n)
	details := make([]model.LayerScore, n)

	for i, l := range layers {
		d := model.LayerScore{Index: i + 1, TextureClass: l.TextureClass, Weight: weights[i]}

		fertCode := SQINutrientAvailability
		if high {
			fertCode = SQINutrientRetention
		}
		f, err := t.TextureScore(fertCode, l.TextureClass)
		if err != nil {
			return nil, err
		}
		fert[i] = f
		if high {
			d.SQ2 = ptr(f)
		} else {
			d.SQ1 = ptr(f)
		}

		txt, err := t.TextureScore(SQIRootingConditions, l.TextureClass)
		if err != nil {
			return nil, err
		}
		cf3, err := t.PropertyScore(SQIRootingConditions, model.PropertyCoarseFragments, l.CoarseFragments)
		if err != nil {
			return nil, err
		}
		cf7, err := t.PropertyScore(SQIWorkability, model.PropertyCoarseFragments, l.CoarseFragments)
		if err != nil {
			return nil, err
		}

		var lim3, lim7 Factor
		sq3[i], lim3 = RootingLayerScore(rd3, txt, cf3)
		// SQ7 reuses the SQI 3 texture ratings.
		sq7[i], lim7 = WorkabilityLayerScore(rd7, txt, cf7)

		d.TextureScore = txt
		d.CoarseFragScore = cf3
		d.SQ7CoarseScore = cf7
		d.SQ3, d.SQ3Limiting = sq3[i], string(lim3)
		d.SQ7, d.SQ7Limiting = sq7[i], string(lim7)
		details[i] = d
	}

	out := &model.SQIScoreSet{
		ProfileID:    p.ID,
		CropID:       cropID,
		InputLevel:   lvl,
		WeightScheme: scheme,
		SQ3:          WeightedMean(sq3, weights, mode),
		SQ7:          WeightedMean(sq7, weights, mode),
		RDScoreSQ3:   rd3,
		RDScoreSQ7:   rd7,
		Layers:       details,
	}
	fm := WeightedMean(fert, weights, mode)
	var sq1, sq2 float64
	if high {
		sq2 = fm
		out.SQ2 = ptr(fm)
	} else {
		sq1 = fm
		out.SQ1 = ptr(fm)
	}
	out.SoilRating, err = SoilRating(lvl, sq1, sq2, out.SQ3, out.SQ7)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func ptr(v float64) *float64 { return &v }
