package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat64(v float64) *float64 { return &v }

func TestNewProfile_DefaultReferenceDepth(t *testing.T) {
	p := NewProfile("p1", []SoilLayer{{Texture: "loam", BottomDepth: 20}}, nil)
	assert.InDelta(t, 120.0, p.ReferenceDepth, 0.001)
	assert.Equal(t, 1, p.LayerCount())
}

func TestNewProfile_ExplicitReferenceDepth(t *testing.T) {
	p := NewProfile("p1", nil, ptrFloat64(60))
	assert.InDelta(t, 60.0, p.ReferenceDepth, 0.001)
	assert.Equal(t, 0, p.LayerCount())
}

func TestNewProfile_NaNReferenceDepthDefaults(t *testing.T) {
	p := NewProfile("p1", nil, ptrFloat64(math.NaN()))
	assert.InDelta(t, DefaultReferenceDepth, p.ReferenceDepth, 0.001)
}

func TestNewProfile_CopiesLayers(t *testing.T) {
	layers := []SoilLayer{{Texture: "loam"}}
	p := NewProfile("p1", layers, nil)
	layers[0].Texture = "sand"
	assert.Equal(t, "loam", p.Layers[0].Texture)
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		layers  []SoilLayer
		rd      float64
		wantErr string
	}{
		{"ok", []SoilLayer{{BottomDepth: 20}, {BottomDepth: 40}, {BottomDepth: 40}}, 60, ""},
		{"negative cf", []SoilLayer{{CoarseFragments: -1, BottomDepth: 20}}, 60, "coarse fragments"},
		{"out of order", []SoilLayer{{BottomDepth: 40}, {BottomDepth: 20}}, 60, "bottom depth"},
		{"negative rd", []SoilLayer{{BottomDepth: 20}}, -5, "reference depth"},
		{"infinite rd", []SoilLayer{{BottomDepth: 20}}, math.Inf(1), "reference depth"},
		{"nan rd defaults", []SoilLayer{{BottomDepth: 20}}, math.NaN(), ""},
		{"nan cf", []SoilLayer{{CoarseFragments: math.NaN(), BottomDepth: 20}}, 60, "coarse fragments"},
		{"infinite cf", []SoilLayer{{CoarseFragments: math.Inf(1), BottomDepth: 20}}, 60, "coarse fragments"},
		{"nan bottom depth", []SoilLayer{{BottomDepth: 20}, {BottomDepth: math.NaN()}}, 60, "bottom depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProfile("p", tt.layers, ptrFloat64(tt.rd))
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var pe *ProfileError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "p", pe.ProfileID)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequirementRowsLen(t *testing.T) {
	rows := RequirementRows{
		Texture:  make([]TextureRequirement, 2),
		Property: make([]PropertyRequirement, 3),
		Drainage: make([]DrainageRequirement, 1),
	}
	assert.Equal(t, 6, rows.Len())
}
