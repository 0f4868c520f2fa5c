package render

import (
	"github.com/annel0/teletext-world/internal/teletext"
	"github.com/annel0/teletext-world/internal/util"
)

// TerrainGenerator рисует фоновые заглушки клеток по шуму Перлина.
// Один и тот же сид всегда даёт один и тот же фон, поэтому кадры
// детерминированы и пригодны для кеширования.
type TerrainGenerator struct {
	noise *util.NoiseSource
	scale float64 // Масштаб шума: меньше — крупнее пятна рельефа
}

// NewTerrainGenerator создаёт генератор фона с указанным сидом.
func NewTerrainGenerator(seed int64) *TerrainGenerator {
	return &TerrainGenerator{
		noise: util.NewNoiseSource(seed),
		scale: 0.15,
	}
}

// Placeholder возвращает фоновую клетку для координат.
// Плотность фона держится в нижней трети диапазона (0..2 пикселя),
// чтобы рельеф не спорил с размещёнными плитками.
func (tg *TerrainGenerator) Placeholder(col, row int, quality teletext.Quality) RenderedCell {
	value := tg.noise.Noise2D(float64(col)*tg.scale, float64(row)*tg.scale)

	density := 0
	switch {
	case value > 0.75:
		density = 2
	case value > 0.55:
		density = 1
	}

	return RenderedCell{
		Char: teletext.Render(teletext.GridFromDensity(density), quality),
	}
}
