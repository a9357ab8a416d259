package modhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareVersionsNumericSegments(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"2.0.0", "1.9.9", 1},
		{"1.2.0", "1.10.0", -1}, // numeric, not lexicographic
		{"1.0.1", "1.0.0", 1},
		{"0.9.0", "1.0.0", -1},
	}
	for _, tt := range tests {
		got, err := compareVersions(tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "compare %s vs %s", tt.a, tt.b)
	}
}

func TestCompareVersionsRejectsGarbage(t *testing.T) {
	_, err := compareVersions("latest", "1.0.0")
	assert.Error(t, err)

	_, err = compareVersions("1.0.0", "")
	assert.Error(t, err)
}
