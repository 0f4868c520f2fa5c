package render

import (
	"sort"
	"strings"
	"unicode"

	"github.com/annel0/teletext-world/internal/grid"
	"github.com/annel0/teletext-world/internal/teletext"
)

// Compositor собирает содержимое клеток в отрендеренные глифы.
// Правило композиции: спрайты побеждают объекты. Спрайт с наибольшим Z
// заменяет визуал клетки целиком; объекты сводятся к пиксельным сеткам
// и сливаются логическим ИЛИ, стиль берётся у верхнего объекта.
type Compositor struct{}

// NewCompositor создаёт композитор.
func NewCompositor() *Compositor {
	return &Compositor{}
}

// RenderTile рендерит содержимое одной клетки на указанном уровне качества.
func (c *Compositor) RenderTile(content TileContent, quality teletext.Quality) RenderedCell {
	if content.IsEmpty() {
		return RenderedCell{Char: ' '}
	}

	if len(content.Sprites) > 0 {
		// Спрайт с наибольшим Z; при равенстве побеждает более поздний.
		top := content.Sprites[0]
		for _, sprite := range content.Sprites[1:] {
			if sprite.Z >= top.Z {
				top = sprite
			}
		}
		return RenderedCell{
			Char:  firstRune(top.Char, ' '),
			Style: Style{Fg: top.Fg, Bg: top.Bg},
			Z:     top.Z,
		}
	}

	objects := make([]TileObject, len(content.Objects))
	copy(objects, content.Objects)
	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].Z < objects[j].Z
	})

	merged := teletext.NewEmptyGrid()
	for _, obj := range objects {
		merged = merged.Merge(c.GlyphToGrid(obj.Char))
	}

	top := objects[len(objects)-1]
	return RenderedCell{
		Char:  teletext.Render(merged, quality),
		Style: Style{Fg: top.Fg, Bg: top.Bg},
		Z:     top.Z,
	}
}

// GlyphToGrid отображает авторский символ в пиксельную сетку.
// Символы известных алфавитов декодируются точно; для остальных
// используется эвристика по примерной плотности. Эвристика намеренно
// неточная: она даёт best-effort приближение, а не точное соответствие.
func (c *Compositor) GlyphToGrid(char string) teletext.PixelGrid {
	r := firstRune(char, ' ')

	if g, ok := teletext.GridFromRune(r); ok {
		return g
	}

	return teletext.GridFromDensity(guessDensity(r))
}

// guessDensity оценивает визуальную плотность произвольного символа (0..6).
func guessDensity(r rune) int {
	switch {
	case r == ' ':
		return 0
	case strings.ContainsRune(".,'`", r):
		return 1
	case strings.ContainsRune(":;-~^", r):
		return 2
	case strings.ContainsRune("#%&$", r):
		return 5
	case r == '@':
		return 6
	case unicode.IsLetter(r) || unicode.IsDigit(r):
		return 3
	case r > unicode.MaxASCII:
		// Широкие символы (эмодзи и прочее) считаем плотными.
		return 6
	default:
		return 3
	}
}

// CompositeOptions параметры сборки полного холста.
type CompositeOptions struct {
	Quality teletext.Quality
	// Placeholder возвращает клетку фона. Если nil — пробел.
	Placeholder func(col, row int) RenderedCell
}

// CompositeGrid собирает полный 2D-холст: каждая клетка по умолчанию
// получает фоновую заглушку, затем перезаписывается содержимым из
// разреженной карты. Строки вне [0,height) молча отбрасываются,
// колонки зажимаются в диапазон.
func (c *Compositor) CompositeGrid(tiles map[grid.Cell]TileContent, width, height int, opts CompositeOptions) [][]RenderedCell {
	canvas := make([][]RenderedCell, height)
	for row := 0; row < height; row++ {
		canvas[row] = make([]RenderedCell, width)
		for col := 0; col < width; col++ {
			if opts.Placeholder != nil {
				canvas[row][col] = opts.Placeholder(col, row)
			} else {
				canvas[row][col] = RenderedCell{Char: ' '}
			}
		}
	}

	for cell, content := range tiles {
		if cell.Row < 0 || cell.Row >= height {
			continue
		}
		col := cell.Col
		if col < 0 {
			col = 0
		}
		if col >= width {
			col = width - 1
		}
		canvas[cell.Row][col] = c.RenderTile(content, opts.Quality)
	}

	return canvas
}

// firstRune возвращает первую руну строки либо значение по умолчанию.
func firstRune(s string, def rune) rune {
	for _, r := range s {
		return r
	}
	return def
}
