package sqi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootingLayerScore(t *testing.T) {
	tests := []struct {
		name         string
		rd, txt, cf  float64
		want         float64
		wantLimiting Factor
	}{
		{"texture limits", 80, 60, 90, 48, FactorTexture},
		{"coarse fragments limit", 80, 90, 60, 48, FactorCoarseFragments},
		{"tie picks texture", 50, 70, 70, 35, FactorTexture},
		{"all optimal", 100, 100, 100, 100, FactorTexture},
		{"zero rd", 0, 80, 90, 0, FactorTexture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, lim := RootingLayerScore(tt.rd, tt.txt, tt.cf)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.wantLimiting, lim)
		})
	}
}

func TestWorkabilityLayerScore(t *testing.T) {
	tests := []struct {
		name         string
		rd, txt, cf  float64
		want         float64
		wantLimiting Factor
	}{
		{"texture limits", 80, 60, 90, 72.5, FactorTexture},
		{"rd limits", 40, 80, 100, 65, FactorReferenceDepth},
		{"cf limits", 90, 70, 30, 55, FactorCoarseFragments},
		{"all equal", 70, 70, 70, 70, FactorReferenceDepth},
		{"tie txt and cf", 90, 50, 50, 60, FactorTexture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, lim := WorkabilityLayerScore(tt.rd, tt.txt, tt.cf)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.wantLimiting, lim)
		})
	}
}
