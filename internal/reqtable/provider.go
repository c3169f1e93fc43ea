// Package reqtable supplies GAEZ crop requirement tables (texture, profile
// property, phase and drainage ratings) filtered by crop and input level.
package reqtable

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/gaez-sqi/internal/model"
)

// Provider reads requirement rows for a crop and a set of input-level codes.
// An unknown crop or level yields empty slices, not an error. Returned rows
// are read-only.
type Provider interface {
	TextureRequirements(ctx context.Context, cropID string, levels []int) ([]model.TextureRequirement, error)
	PropertyRequirements(ctx context.Context, cropID string, levels []int) ([]model.PropertyRequirement, error)
	PhaseRequirements(ctx context.Context, cropID string, levels []int) ([]model.PhaseRequirement, error)
	DrainageRequirements(ctx context.Context, cropID string, levels []int) ([]model.DrainageRequirement, error)
}

// Store is a Provider backed by a database that can be migrated and loaded.
type Store interface {
	Provider

	// SaveRequirements upserts rows and returns the number written.
	SaveRequirements(ctx context.Context, rows model.RequirementRows) (int64, error)
	// Crops lists the distinct crop ids with texture requirements.
	Crops(ctx context.Context) ([]string, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Fetch reads all four requirement tables for a crop.
func Fetch(ctx context.Context, p Provider, cropID string, levels []int) (model.RequirementRows, error) {
	var rows model.RequirementRows
	var err error

	if rows.Texture, err = p.TextureRequirements(ctx, cropID, levels); err != nil {
		return rows, eris.Wrapf(err, "reqtable: texture requirements for %s", cropID)
	}
	if rows.Property, err = p.PropertyRequirements(ctx, cropID, levels); err != nil {
		return rows, eris.Wrapf(err, "reqtable: property requirements for %s", cropID)
	}
	if rows.Phase, err = p.PhaseRequirements(ctx, cropID, levels); err != nil {
		return rows, eris.Wrapf(err, "reqtable: phase requirements for %s", cropID)
	}
	if rows.Drainage, err = p.DrainageRequirements(ctx, cropID, levels); err != nil {
		return rows, eris.Wrapf(err, "reqtable: drainage requirements for %s", cropID)
	}
	return rows, nil
}

func levelSet(levels []int) map[int]bool {
	set := make(map[int]bool, len(levels))
	for _, l := range levels {
		set[l] = true
	}
	return set
}
