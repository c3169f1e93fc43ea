package sqi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupThreshold(t *testing.T) {
	steps := []Step{{100, 90}, {50, 70}, {0, 50}}
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"above top", 120, 90},
		{"at top", 100, 90},
		{"middle", 75, 70},
		{"at middle", 50, 70},
		{"low", 10, 50},
		{"at zero", 0, 50},
		{"below bottom falls through", -5, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LookupThreshold(tt.value, steps)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLookupThreshold_Empty(t *testing.T) {
	_, ok := LookupThreshold(10, nil)
	assert.False(t, ok)
}

func TestSortSteps(t *testing.T) {
	steps := []Step{{0, 50}, {100, 90}, {50, 70}, {50, 60}}
	SortSteps(steps)
	assert.Equal(t, []Step{{100, 90}, {50, 70}, {50, 60}, {0, 50}}, steps)
}
