package reqtable

import (
	"context"

	"github.com/sells-group/gaez-sqi/internal/model"
)

// Memory serves requirement rows held in memory, e.g. loaded from a
// workbook.
type Memory struct {
	rows model.RequirementRows
}

// NewMemory returns a Provider over rows. The rows must not be modified
// afterwards.
func NewMemory(rows model.RequirementRows) *Memory {
	return &Memory{rows: rows}
}

func filterRows[T any](rows []T, cropID string, levels []int, key func(T) (string, int)) []T {
	set := levelSet(levels)
	var out []T
	for _, r := range rows {
		crop, lvl := key(r)
		if crop == cropID && set[lvl] {
			out = append(out, r)
		}
	}
	return out
}

func (m *Memory) TextureRequirements(_ context.Context, cropID string, levels []int) ([]model.TextureRequirement, error) {
	return filterRows(m.rows.Texture, cropID, levels, func(r model.TextureRequirement) (string, int) {
		return r.CropID, r.InputLevel
	}), nil
}

func (m *Memory) PropertyRequirements(_ context.Context, cropID string, levels []int) ([]model.PropertyRequirement, error) {
	return filterRows(m.rows.Property, cropID, levels, func(r model.PropertyRequirement) (string, int) {
		return r.CropID, r.InputLevel
	}), nil
}

func (m *Memory) PhaseRequirements(_ context.Context, cropID string, levels []int) ([]model.PhaseRequirement, error) {
	return filterRows(m.rows.Phase, cropID, levels, func(r model.PhaseRequirement) (string, int) {
		return r.CropID, r.InputLevel
	}), nil
}

func (m *Memory) DrainageRequirements(_ context.Context, cropID string, levels []int) ([]model.DrainageRequirement, error) {
	return filterRows(m.rows.Drainage, cropID, levels, func(r model.DrainageRequirement) (string, int) {
		return r.CropID, r.InputLevel
	}), nil
}
