package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		// Identical strings
		{"", "", 0},
		{"a", "a", 0},
		{"width", "width", 0},

		// Empty vs non-empty
		{"", "abc", 3},
		{"abc", "", 3},

		// Single character operations
		{"a", "b", 1},    // substitution
		{"a", "ab", 1},   // insertion
		{"ab", "a", 1},   // deletion
		{"abc", "ab", 1}, // deletion
		{"ab", "abc", 1}, // insertion

		// Multiple operations
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},

		// Case-sensitive
		{"ABC", "abc", 3},

		// Real-world config key typos
		{"widht", "width", 2},
		{"heigth", "height", 2},
		{"sensortick", "sensor_tick", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := Levenshtein(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}

			// Verify symmetry
			resultReverse := Levenshtein(tt.b, tt.a)
			if result != resultReverse {
				t.Errorf("Levenshtein symmetry failed: (%q, %q) = %d, (%q, %q) = %d",
					tt.a, tt.b, result, tt.b, tt.a, resultReverse)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected float64
	}{
		{"", "", 1.0},
		{"clipping_range", "ClippingRange", 1.0},
		{"clipping-range", "clipping_range", 1.0},
		{"abc", "xyz", 0.0},
		{"kitten", "sitting", 1.0 - 3.0/7.0},
		{"widht", "width", 1.0 - 2.0/5.0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Similarity(tt.a, tt.b), 0.001)
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "usdparams", NormalizeKey("usd_params"))
	assert.Equal(t, "usdparams", NormalizeKey("UsdParams"))
	assert.Equal(t, "posensitivity", NormalizeKey("Po Sensitivity"))
	assert.Equal(t, "", NormalizeKey("_-."))
}

func TestSuggest(t *testing.T) {
	keys := []string{"height", "width", "data_types", "usd_params", "sensor_tick"}

	assert.Equal(t, []string{"width"}, Suggest("widht", keys, DefaultThreshold, 3))
	assert.Equal(t, []string{"height"}, Suggest("heigth", keys, DefaultThreshold, 3))
	assert.Equal(t, []string{"data_types"}, Suggest("DataTypes", keys, DefaultThreshold, 3))
	assert.Empty(t, Suggest("nonexistent", keys, DefaultThreshold, 3))
	assert.Empty(t, Suggest("width", keys, DefaultThreshold, 3), "exact key is not a suggestion")
}

func TestSuggest_OrdersByScoreAndLimits(t *testing.T) {
	keys := []string{"gain_b", "gain", "gain_ab"}

	assert.Equal(t, []string{"gain_ab", "gain_b", "gain"}, Suggest("gaina", keys, 0.5, 0))
	assert.Equal(t, []string{"gain_ab", "gain_b"}, Suggest("gaina", keys, 0.5, 2))
}

func BenchmarkSimilarity(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Similarity("CustomerOrderID", "customer_order_id")
	}
}
