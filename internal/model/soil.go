package model

import (
	"fmt"
	"math"
	"strings"
)

// DefaultReferenceDepth is the reference (bedrock) depth in cm assumed when a
// profile does not specify one.
const DefaultReferenceDepth = 120.0

// SoilLayer is one depth interval of a soil profile.
type SoilLayer struct {
	Texture         string  `json:"texture" yaml:"texture"`
	CoarseFragments float64 `json:"coarse_fragments" yaml:"coarse_fragments"` // volume %
	BottomDepth     float64 `json:"bottom_depth" yaml:"bottom_depth"`         // cm
	TextureClass    int     `json:"texture_class,omitempty" yaml:"-"`         // 1-12, set by classification
}

// SoilProfile is an ordered, top-to-bottom sequence of layers with a
// reference depth.
type SoilProfile struct {
	ID             string      `json:"id"`
	Layers         []SoilLayer `json:"layers"`
	ReferenceDepth float64     `json:"reference_depth"` // cm
}

// NewProfile builds a profile, applying DefaultReferenceDepth when refDepth
// is nil or NaN. The layers slice is copied.
func NewProfile(id string, layers []SoilLayer, refDepth *float64) SoilProfile {
	rd := DefaultReferenceDepth
	if refDepth != nil && !math.IsNaN(*refDepth) {
		rd = *refDepth
	}
	cp := make([]SoilLayer, len(layers))
	copy(cp, layers)
	return SoilProfile{ID: id, Layers: cp, ReferenceDepth: rd}
}

// LayerCount returns the number of layers in the profile.
func (p SoilProfile) LayerCount() int {
	return len(p.Layers)
}

// Validate checks layer ordering and coarse-fragment bounds. It does not
// check the layer count; unsupported counts are rejected during weighting.
func (p SoilProfile) Validate() error {
	var problems []string
	for i, l := range p.Layers {
		if !finite(l.CoarseFragments) {
			problems = append(problems, fmt.Sprintf("layer %d: coarse fragments %v not a finite number", i+1, l.CoarseFragments))
		} else if l.CoarseFragments < 0 {
			problems = append(problems, fmt.Sprintf("layer %d: coarse fragments %.2f < 0", i+1, l.CoarseFragments))
		}
		if !finite(l.BottomDepth) {
			problems = append(problems, fmt.Sprintf("layer %d: bottom depth %v not a finite number", i+1, l.BottomDepth))
		} else if i > 0 && l.BottomDepth < p.Layers[i-1].BottomDepth {
			problems = append(problems, fmt.Sprintf("layer %d: bottom depth %.1f above layer %d (%.1f)",
				i+1, l.BottomDepth, i, p.Layers[i-1].BottomDepth))
		}
	}
	if !finite(p.ReferenceDepth) {
		problems = append(problems, fmt.Sprintf("reference depth %v not a finite number", p.ReferenceDepth))
	} else if p.ReferenceDepth < 0 {
		problems = append(problems, fmt.Sprintf("reference depth %.1f < 0", p.ReferenceDepth))
	}
	if len(problems) > 0 {
		return &ProfileError{ProfileID: p.ID, Problems: problems}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ProfileError reports structural problems with a soil profile.
type ProfileError struct {
	ProfileID string
	Problems  []string
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("invalid profile %q: %s", e.ProfileID, strings.Join(e.Problems, "; "))
}
