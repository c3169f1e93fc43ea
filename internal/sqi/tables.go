package sqi

import (
	"sort"

	"github.com/sells-group/gaez-sqi/internal/model"
)

// SQI codes used by the scoring pipeline.
const (
	SQINutrientAvailability = 1 // SQ1
	SQINutrientRetention    = 2 // SQ2
	SQIRootingConditions    = 3 // SQ3
	SQIWorkability          = 7 // SQ7
)

type textureKey struct {
	sqi   int
	class int
}

type propertyKey struct {
	sqi      int
	property string
}

type phaseKey struct {
	sqi   int
	phase int
}

type drainageKey struct {
	sqi   int
	drain int
}

// Tables is an index over the requirement rows of one crop and input level,
// built once per scoring call.
type Tables struct {
	texture  map[textureKey]float64
	property map[propertyKey][]Step
	phase    map[phaseKey]float64
	drainage map[drainageKey]float64
}

// NewTables indexes requirement rows. Rows are visited in the order of
// levels (the resolved input-level codes); for keyed tables the first row
// per key wins. Rows whose input level is not in levels are dropped unless
// levels is empty. Property steps are sorted by descending threshold.
func NewTables(rows model.RequirementRows, levels []int) *Tables {
	t := &Tables{
		texture:  make(map[textureKey]float64),
		property: make(map[propertyKey][]Step),
		phase:    make(map[phaseKey]float64),
		drainage: make(map[drainageKey]float64),
	}

	for _, r := range byLevel(rows.Texture, func(r model.TextureRequirement) int { return r.InputLevel }, levels) {
		k := textureKey{r.SQICode, r.TextureClassID}
		if _, ok := t.texture[k]; !ok {
			t.texture[k] = r.Score
		}
	}
	for _, r := range byLevel(rows.Property, func(r model.PropertyRequirement) int { return r.InputLevel }, levels) {
		k := propertyKey{r.SQICode, r.Property}
		t.property[k] = append(t.property[k], Step{Threshold: r.Value, Score: r.Score})
	}
	for k := range t.property {
		SortSteps(t.property[k])
	}
	for _, r := range byLevel(rows.Phase, func(r model.PhaseRequirement) int { return r.InputLevel }, levels) {
		k := phaseKey{r.SQICode, r.PhaseID}
		if _, ok := t.phase[k]; !ok {
			t.phase[k] = r.Score
		}
	}
	for _, r := range byLevel(rows.Drainage, func(r model.DrainageRequirement) int { return r.InputLevel }, levels) {
		k := drainageKey{r.SQICode, r.DrainNum}
		if _, ok := t.drainage[k]; !ok {
			t.drainage[k] = r.Score
		}
	}
	return t
}

// byLevel returns rows reordered by the position of their input level in
// levels, keeping load order within a level.
func byLevel[T any](rows []T, level func(T) int, levels []int) []T {
	if len(levels) == 0 {
		return rows
	}
	rank := make(map[int]int, len(levels))
	for i, l := range levels {
		if _, ok := rank[l]; !ok {
			rank[l] = i
		}
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if _, ok := rank[level(r)]; ok {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank[level(out[i])] < rank[level(out[j])]
	})
	return out
}

// TextureScore returns the rating for a texture class under an SQI code.
func (t *Tables) TextureScore(sqiCode, class int) (float64, error) {
	score, ok := t.texture[textureKey{sqiCode, class}]
	if !ok {
		return 0, &MissingTextureRequirementError{SQICode: sqiCode, TextureClass: class}
	}
	return score, nil
}

// PropertyScore looks value up in the threshold table for an SQI code and
// property name.
func (t *Tables) PropertyScore(sqiCode int, property string, value float64) (float64, error) {
	score, ok := LookupThreshold(value, t.property[propertyKey{sqiCode, property}])
	if !ok {
		return 0, &MissingPropertyRequirementError{SQICode: sqiCode, Property: property}
	}
	return score, nil
}

// PropertySteps returns a copy of the sorted threshold table for an SQI
// code and property name.
func (t *Tables) PropertySteps(sqiCode int, property string) []Step {
	steps := t.property[propertyKey{sqiCode, property}]
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// PhaseScore returns the rating for a soil phase, if defined.
func (t *Tables) PhaseScore(sqiCode, phaseID int) (float64, bool) {
	score, ok := t.phase[phaseKey{sqiCode, phaseID}]
	return score, ok
}

// DrainageScore returns the rating for a drainage class, if defined.
func (t *Tables) DrainageScore(sqiCode, drainNum int) (float64, bool) {
	score, ok := t.drainage[drainageKey{sqiCode, drainNum}]
	return score, ok
}
