package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoiseSource_Deterministic(t *testing.T) {
	a := NewNoiseSource(42)
	b := NewNoiseSource(42)

	for _, coords := range [][2]float64{{0.1, 0.2}, {1.5, 3.7}, {10.0, 10.0}} {
		assert.Equal(t, a.Noise2D(coords[0], coords[1]), b.Noise2D(coords[0], coords[1]),
			"одинаковый сид должен давать одинаковый шум в (%v, %v)", coords[0], coords[1])
	}
}

func TestNoiseSource_Normalized(t *testing.T) {
	ns := NewNoiseSource(7)

	for x := 0.0; x < 5.0; x += 0.3 {
		for y := 0.0; y < 5.0; y += 0.3 {
			v := ns.Noise2D(x, y)
			assert.GreaterOrEqual(t, v, 0.0, "шум должен быть приведён к [0, 1]")
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestNoiseSource_Seed(t *testing.T) {
	assert.Equal(t, int64(99), NewNoiseSource(99).Seed())
}
