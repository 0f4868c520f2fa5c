package util

import (
	"github.com/aquilax/go-perlin"
)

// NoiseSource обёртывает генератор шума Перлина с фиксированным сидом.
// Один источник детерминирован: одинаковые координаты всегда дают
// одинаковое значение.
type NoiseSource struct {
	perlin *perlin.Perlin
	seed   int64
}

// NewNoiseSource создаёт источник шума с указанным сидом.
func NewNoiseSource(seed int64) *NoiseSource {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &NoiseSource{
		perlin: perlin.NewPerlin(alpha, beta, n, seed),
		seed:   seed,
	}
}

// Seed возвращает сид источника.
func (ns *NoiseSource) Seed() int64 {
	return ns.seed
}

// Noise2D возвращает значение шума для координат, приведённое к диапазону [0, 1].
func (ns *NoiseSource) Noise2D(x, y float64) float64 {
	// Perlin возвращает значение от -1 до 1
	noise := ns.perlin.Noise2D(x, y)
	return (noise + 1.0) / 2.0
}
