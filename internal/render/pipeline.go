package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/annel0/teletext-world/internal/cache"
	"github.com/annel0/teletext-world/internal/grid"
	"github.com/annel0/teletext-world/internal/logging"
	"github.com/annel0/teletext-world/internal/teletext"
	"github.com/annel0/teletext-world/internal/viewport"
	"github.com/annel0/teletext-world/internal/world"
)

// RenderPipeline превращает видимую область мира в символьный холст.
// Конвейер: мир -> содержимое клеток -> пиксельные сетки -> глифы
// выбранного уровня качества. Собранные кадры кешируются по ключу
// границы+слой+качество+ревизия мира.
type RenderPipeline struct {
	compositor *Compositor
	terrain    *TerrainGenerator // Может быть nil: фон — пробелы
	frames     cache.CacheRepo   // Может быть nil: без кеширования
	quality    teletext.Quality
	log        *logging.Logger
}

// NewRenderPipeline создаёт конвейер рендеринга.
// terrain и frames опциональны.
func NewRenderPipeline(quality teletext.Quality, terrain *TerrainGenerator, frames cache.CacheRepo) *RenderPipeline {
	return &RenderPipeline{
		compositor: NewCompositor(),
		terrain:    terrain,
		frames:     frames,
		quality:    quality,
		log:        logging.GetRenderLogger(),
	}
}

// Quality возвращает уровень качества конвейера.
func (rp *RenderPipeline) Quality() teletext.Quality {
	return rp.quality
}

// RenderTile рендерит содержимое одной клетки.
func (rp *RenderPipeline) RenderTile(content TileContent) RenderedCell {
	return rp.compositor.RenderTile(content, rp.quality)
}

// ComposeLayers собирает холст видимой области мира.
// Координаты холста локальны окну просмотра: (0,0) — левый верхний угол границ.
func (rp *RenderPipeline) ComposeLayers(w *world.SparseWorld, vm *viewport.Manager) ([][]RenderedCell, error) {
	bounds := vm.Bounds()
	width := bounds.MaxCol - bounds.MinCol + 1
	height := bounds.MaxRow - bounds.MinRow + 1

	tiles := make(map[grid.Cell]TileContent)
	for _, pos := range vm.VisibleTiles() {
		canonical := grid.FormatCanonical(pos.Layer, pos.Cell)
		placements, err := w.GetTiles(canonical)
		if err != nil {
			return nil, fmt.Errorf("содержимое клетки %s: %w", canonical, err)
		}
		if len(placements) == 0 {
			continue
		}

		local := grid.Cell{Col: pos.Cell.Col - bounds.MinCol, Row: pos.Cell.Row - bounds.MinRow}
		tiles[local] = placementsToContent(placements)
	}

	opts := CompositeOptions{Quality: rp.quality}
	if rp.terrain != nil {
		opts.Placeholder = func(col, row int) RenderedCell {
			// Фон считается по мировым координатам, чтобы не плыть при прокрутке.
			return rp.terrain.Placeholder(col+bounds.MinCol, row+bounds.MinRow, rp.quality)
		}
	}

	framesRenderedTotal.Inc()
	return rp.compositor.CompositeGrid(tiles, width, height, opts), nil
}

// CanvasToString превращает холст в многострочный текст.
func (rp *RenderPipeline) CanvasToString(canvas [][]RenderedCell) string {
	var sb strings.Builder
	for i, row := range canvas {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range row {
			sb.WriteRune(cell.Char)
		}
	}
	return sb.String()
}

// RenderFrame возвращает текстовый кадр видимой области, используя кеш кадров.
// Ключ кеша включает ревизию мира: любое изменение мира даёт новый ключ.
func (rp *RenderPipeline) RenderFrame(ctx context.Context, w *world.SparseWorld, vm *viewport.Manager) (string, error) {
	if rp.frames == nil {
		canvas, err := rp.ComposeLayers(w, vm)
		if err != nil {
			return "", err
		}
		return rp.CanvasToString(canvas), nil
	}

	bounds := vm.Bounds()
	key := fmt.Sprintf("frame:%d:%d:%d:%d:L%d:q%d:r%d",
		bounds.MinCol, bounds.MaxCol, bounds.MinRow, bounds.MaxRow,
		vm.Layer(), rp.quality, w.Revision())

	if cached, err := rp.frames.Get(ctx, key); err == nil {
		frameCacheHits.Inc()
		return string(cached), nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		// Недоступный кеш не должен ломать рендеринг.
		rp.log.Warn("Кеш кадров недоступен: %v", err)
	}
	frameCacheMisses.Inc()

	canvas, err := rp.ComposeLayers(w, vm)
	if err != nil {
		return "", err
	}
	frame := rp.CanvasToString(canvas)

	if err := rp.frames.Set(ctx, key, []byte(frame), 0); err != nil {
		rp.log.Warn("Кадр не закеширован: %v", err)
	}
	return frame, nil
}

// placementsToContent переводит плитки мира в содержимое клетки для композитора.
// Визуальные атрибуты берутся из Props: char, fg, bg, z; маркеры — label.
func placementsToContent(placements []*world.TilePlacement) TileContent {
	var content TileContent
	for _, p := range placements {
		switch p.Type {
		case world.TileSprite:
			content.Sprites = append(content.Sprites, TileSprite{
				Char: propString(p.Props, "char", "?"),
				Fg:   propString(p.Props, "fg", ""),
				Bg:   propString(p.Props, "bg", ""),
				Z:    propInt(p.Props, "z", 0),
			})
		case world.TileMarker:
			content.Markers = append(content.Markers, TileMarker{
				Label: propString(p.Props, "label", ""),
				Z:     propInt(p.Props, "z", 0),
			})
		default:
			content.Objects = append(content.Objects, TileObject{
				Char: propString(p.Props, "char", "#"),
				Fg:   propString(p.Props, "fg", ""),
				Bg:   propString(p.Props, "bg", ""),
				Z:    propInt(p.Props, "z", 0),
			})
		}
	}
	return content
}

func propString(props map[string]interface{}, key, def string) string {
	if props == nil {
		return def
	}
	if v, ok := props[key].(string); ok {
		return v
	}
	return def
}

func propInt(props map[string]interface{}, key string, def int) int {
	if props == nil {
		return def
	}
	switch v := props[key].(type) {
	case int:
		return v
	case float64: // JSON-числа приходят как float64
		return int(v)
	default:
		return def
	}
}
