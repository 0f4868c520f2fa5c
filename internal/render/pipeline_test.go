package render

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/teletext-world/internal/cache"
	"github.com/annel0/teletext-world/internal/grid"
	"github.com/annel0/teletext-world/internal/teletext"
	"github.com/annel0/teletext-world/internal/viewport"
	"github.com/annel0/teletext-world/internal/world"
)

func newTestViewport(t *testing.T, width, height int) *viewport.Manager {
	t.Helper()
	vm := viewport.NewManager(viewport.Size{Width: width, Height: height})
	return vm
}

func TestComposeLayers_EmptyWorld(t *testing.T) {
	rp := NewRenderPipeline(teletext.QualityTeletext, nil, nil)
	w := world.NewSparseWorld()
	vm := newTestViewport(t, 10, 5)

	canvas, err := rp.ComposeLayers(w, vm)
	require.NoError(t, err)
	require.Len(t, canvas, 5)
	require.Len(t, canvas[0], 10)

	for _, row := range canvas {
		for _, cell := range row {
			assert.Equal(t, ' ', cell.Char, "без генератора фона пустой мир — пробелы")
		}
	}
}

func TestComposeLayers_PlacesTileAtLocalCoords(t *testing.T) {
	rp := NewRenderPipeline(teletext.QualityTeletext, nil, nil)
	w := world.NewSparseWorld()
	vm := newTestViewport(t, 10, 5)

	b := vm.Bounds()
	canonical := worldCanonical(vm, b.MinCol+3, b.MinRow+2)
	require.NoError(t, w.Place(canonical, &world.TilePlacement{
		Type:  world.TileObject,
		Props: map[string]interface{}{"char": "█"},
	}))

	canvas, err := rp.ComposeLayers(w, vm)
	require.NoError(t, err)
	assert.Equal(t, '█', canvas[2][3].Char, "координаты холста локальны границам окна")
}

func TestComposeLayers_IgnoresOtherLayers(t *testing.T) {
	rp := NewRenderPipeline(teletext.QualityTeletext, nil, nil)
	w := world.NewSparseWorld()
	vm := newTestViewport(t, 10, 5)
	require.NoError(t, vm.SetLayer(301))

	b := vm.Bounds()
	require.NoError(t, w.Place(worldCanonicalOnLayer(300, b.MinCol, b.MinRow), &world.TilePlacement{
		Type:  world.TileObject,
		Props: map[string]interface{}{"char": "█"},
	}))

	canvas, err := rp.ComposeLayers(w, vm)
	require.NoError(t, err)
	assert.Equal(t, ' ', canvas[0][0].Char, "плитки чужого слоя не видны")
}

func TestCanvasToString_Shape(t *testing.T) {
	rp := NewRenderPipeline(teletext.QualityTeletext, nil, nil)
	w := world.NewSparseWorld()
	vm := newTestViewport(t, 8, 3)

	frame, err := rp.RenderFrame(context.Background(), w, vm)
	require.NoError(t, err)

	lines := strings.Split(frame, "\n")
	require.Len(t, lines, 3, "число строк кадра равно высоте окна")
	for _, line := range lines {
		assert.Len(t, []rune(line), 8, "длина строки равна ширине окна")
	}
}

func TestRenderFrame_CacheHitAndInvalidation(t *testing.T) {
	frames := cache.NewMemoryCache(0)
	rp := NewRenderPipeline(teletext.QualityTeletext, nil, frames)
	w := world.NewSparseWorld()
	vm := newTestViewport(t, 10, 5)
	ctx := context.Background()

	first, err := rp.RenderFrame(ctx, w, vm)
	require.NoError(t, err)

	second, err := rp.RenderFrame(ctx, w, vm)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	metrics := frames.GetMetrics()
	assert.Equal(t, uint64(1), metrics.Hits, "повторный кадр должен браться из кеша")
	assert.Equal(t, uint64(1), metrics.Misses)

	// Мутация мира меняет ревизию и ключ кеша
	b := vm.Bounds()
	require.NoError(t, w.Place(worldCanonical(vm, b.MinCol, b.MinRow), &world.TilePlacement{
		Type:  world.TileObject,
		Props: map[string]interface{}{"char": "█"},
	}))

	third, err := rp.RenderFrame(ctx, w, vm)
	require.NoError(t, err)
	assert.NotEqual(t, first, third, "после мутации мира кадр должен перерисоваться")
	assert.Equal(t, uint64(2), frames.GetMetrics().Misses)
}

func TestRenderFrame_TerrainBackground(t *testing.T) {
	rp := NewRenderPipeline(teletext.QualityTeletext, NewTerrainGenerator(42), nil)
	w := world.NewSparseWorld()
	vm := newTestViewport(t, 20, 10)
	ctx := context.Background()

	first, err := rp.RenderFrame(ctx, w, vm)
	require.NoError(t, err)
	second, err := rp.RenderFrame(ctx, w, vm)
	require.NoError(t, err)

	assert.Equal(t, first, second, "фон детерминирован для фиксированного зерна")
}

func TestPlacementsToContent_PropsAndDefaults(t *testing.T) {
	placements := []*world.TilePlacement{
		{Type: world.TileObject, Props: map[string]interface{}{"char": "#", "fg": "red", "z": 2}},
		{Type: world.TileObject},
		{Type: world.TileSprite, Props: map[string]interface{}{"char": "@", "z": float64(7)}},
		{Type: world.TileMarker, Props: map[string]interface{}{"label": "spawn"}},
	}

	content := placementsToContent(placements)
	require.Len(t, content.Objects, 2)
	require.Len(t, content.Sprites, 1)
	require.Len(t, content.Markers, 1)

	assert.Equal(t, "#", content.Objects[0].Char)
	assert.Equal(t, "red", content.Objects[0].Fg)
	assert.Equal(t, 2, content.Objects[0].Z)
	assert.Equal(t, "#", content.Objects[1].Char, "объект без Props получает символ по умолчанию")
	assert.Equal(t, 7, content.Sprites[0].Z, "JSON-числа (float64) должны приводиться к int")
	assert.Equal(t, "spawn", content.Markers[0].Label)
}

// worldCanonical строит канонический адрес на текущем слое окна.
func worldCanonical(vm *viewport.Manager, col, row int) string {
	return worldCanonicalOnLayer(vm.Layer(), col, row)
}

func worldCanonicalOnLayer(layer, col, row int) string {
	return grid.FormatCanonical(layer, grid.Cell{Col: col, Row: row})
}
