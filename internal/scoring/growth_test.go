package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestComputeTrendScore(t *testing.T) {
	tests := []struct {
		name   string
		growth *float64
		label  string
		want   float64
	}{
		{"no signal", nil, "", 50},
		{"positive growth", fptr(20), "", 70},
		{"negative growth", fptr(-20), "", 30},
		{"growth capped at +40", fptr(300), "", 90},
		{"growth capped at -40", fptr(-300), "", 10},
		{"label only up", nil, "hausse", 60},
		{"label only down", nil, "baisse", 40},
		{"growth plus label", fptr(20), "hausse", 80},
		{"clamped at 100", fptr(300), "en hausse", 100},
		{"clamped at floor", fptr(-300), "baisse", 10},
		{"english labels", fptr(10), "trending up", 70},
		{"unknown label ignored", fptr(10), "stable", 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComputeTrendScore(tt.growth, tt.label), 0.001)
		})
	}
}

func TestComputeSaturability(t *testing.T) {
	tests := []struct {
		name    string
		growth  *float64
		label   string
		similar int
		want    float64
	}{
		{"empty catalog, no signal", nil, "", 0, 40},
		{"crowd raises saturation", nil, "", 3, 58},
		{"crowd contribution capped", nil, "", 100, 76},
		{"strong growth relieves", fptr(40), "", 3, 38},
		{"growth relief capped", fptr(300), "", 0, 20},
		{"decline adds pressure", fptr(-20), "baisse", 0, 55},
		{"never below zero", fptr(300), "hausse", 0, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComputeSaturability(tt.growth, tt.label, tt.similar), 0.001)
		})
	}
}

func TestComputeSaturability_Bounds(t *testing.T) {
	// Extreme combinations stay inside [0, 100].
	for _, growth := range []*float64{nil, fptr(-1000), fptr(1000)} {
		for _, similar := range []int{0, 5, 1000} {
			for _, label := range []string{"", "hausse", "baisse"} {
				sat := ComputeSaturability(growth, label, similar)
				assert.GreaterOrEqual(t, sat, 0.0)
				assert.LessOrEqual(t, sat, 100.0)
			}
		}
	}
}
