package sqi

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/gaez-sqi/internal/model"
	"github.com/sells-group/gaez-sqi/internal/reqtable"
)

// Options tunes a Scorer. Zero values select the defaults.
type Options struct {
	WeightScheme  int
	Normalization Normalization
}

// Request describes one scoring call. A zero WeightScheme falls back to the
// scorer's configured scheme.
type Request struct {
	Profile      model.SoilProfile
	CropID       string
	InputLevel   model.InputLevel
	WeightScheme int
}

// Scorer computes soil quality indices using requirement rows from a
// Provider. It is safe for concurrent use when the Provider is.
type Scorer struct {
	provider reqtable.Provider
	opts     Options
}

// NewScorer creates a Scorer reading requirement tables from p.
func NewScorer(p reqtable.Provider, opts Options) *Scorer {
	if opts.WeightScheme == 0 {
		opts.WeightScheme = DefaultWeightScheme
	}
	if opts.Normalization == "" {
		opts.Normalization = NormalizeWeightSum
	}
	return &Scorer{provider: p, opts: opts}
}

// Score fetches the crop's requirements for the request's input level and
// scores the profile. Provider failures are wrapped; scoring failures are
// returned as the typed errors of this package.
func (s *Scorer) Score(ctx context.Context, req Request) (*model.SQIScoreSet, error) {
	levels, err := InputLevelCodes(req.InputLevel)
	if err != nil {
		return nil, err
	}
	scheme := req.WeightScheme
	if scheme == 0 {
		scheme = s.opts.WeightScheme
	}

	rows, err := reqtable.Fetch(ctx, s.provider, req.CropID, levels)
	if err != nil {
		return nil, eris.Wrapf(err, "sqi: load requirements for %s", req.CropID)
	}

	res, err := Compute(req.Profile, req.CropID, req.InputLevel, scheme, NewTables(rows, levels), s.opts.Normalization)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("sqi: scored profile",
		zap.String("profile", req.Profile.ID),
		zap.String("crop", req.CropID),
		zap.String("input_level", string(req.InputLevel)),
		zap.Int("layers", req.Profile.LayerCount()),
		zap.Float64("sr", res.SoilRating),
	)
	return res, nil
}
