package viewport

import (
	"fmt"
	"sort"

	"github.com/annel0/teletext-world/internal/grid"
)

// Size определяет размер окна просмотра в клетках.
type Size struct {
	Width  int
	Height int
}

// Bounds определяет границы видимой области, зажатые в пределы сетки.
type Bounds struct {
	MinCol, MaxCol int
	MinRow, MaxRow int
}

// Position представляет позицию в мире: клетка плюс слой.
type Position struct {
	Cell  grid.Cell
	Layer int
}

// Sprite представляет позиционированный в мире спрайт для наложения
// поверх отрендеренной сетки.
type Sprite struct {
	ID     string
	Char   rune
	Fg     string
	Bg     string
	ZIndex int // Меньше — фон, больше — передний план
	Pos    Position
}

// Manager вычисляет видимую область мира. Каждый экземпляр владеет
// собственными границами и списком видимых клеток; и то и другое
// полностью пересчитывается при каждой мутации, без инкрементальной
// инвалидации.
type Manager struct {
	center  grid.Cell
	size    Size
	layer   int
	bounds  Bounds
	visible []Position
}

// NewManager создаёт окно просмотра с указанным размером, центром в начале
// сетки и слоем 300 (низ полосы SUR).
func NewManager(size Size) *Manager {
	m := &Manager{
		center: grid.Cell{Col: size.Width / 2, Row: size.Height / 2},
		size:   clampSize(size),
		layer:  grid.SurMinLayer,
	}
	m.recompute()
	return m
}

func clampSize(size Size) Size {
	if size.Width <= 0 {
		size.Width = 1
	}
	if size.Height <= 0 {
		size.Height = 1
	}
	if size.Width > grid.Width {
		size.Width = grid.Width
	}
	if size.Height > grid.Height {
		size.Height = grid.Height
	}
	return size
}

// SetCenter перемещает центр окна в указанную клетку.
func (m *Manager) SetCenter(cell grid.Cell) error {
	if !grid.IsInBounds(cell.Col, cell.Row) {
		return &grid.OutOfBoundsError{Col: cell.Col, Row: cell.Row}
	}
	m.center = cell
	m.recompute()
	return nil
}

// MoveBy смещает центр окна на дельту; центр зажимается в границы сетки,
// без заворачивания на другой край.
func (m *Manager) MoveBy(deltaCol, deltaRow int) {
	m.center.Col = clamp(m.center.Col+deltaCol, 0, grid.Width-1)
	m.center.Row = clamp(m.center.Row+deltaRow, 0, grid.Height-1)
	m.recompute()
}

// SetSize меняет размер окна просмотра.
func (m *Manager) SetSize(size Size) {
	m.size = clampSize(size)
	m.recompute()
}

// SetLayer переключает окно на другой слой. Допустимы только слои
// поверхностной полосы SUR (300..305).
func (m *Manager) SetLayer(layer int) error {
	band, err := grid.GetLayerBand(layer)
	if err != nil {
		return err
	}
	if band != grid.BandSur {
		return fmt.Errorf("слой %d вне диапазона окна просмотра (%d..%d)", layer, grid.SurMinLayer, grid.SurMaxLayer)
	}
	m.layer = layer
	m.recompute()
	return nil
}

// Center возвращает текущий центр окна.
func (m *Manager) Center() grid.Cell { return m.center }

// Layer возвращает текущий слой окна.
func (m *Manager) Layer() int { return m.layer }

// Size возвращает текущий размер окна.
func (m *Manager) Size() Size { return m.size }

// Bounds возвращает текущие границы видимой области.
func (m *Manager) Bounds() Bounds { return m.bounds }

// recompute пересчитывает границы и список видимых клеток.
func (m *Manager) recompute() {
	minCol := m.center.Col - m.size.Width/2
	maxCol := minCol + m.size.Width - 1
	if minCol < 0 {
		maxCol -= minCol
		minCol = 0
	}
	if maxCol >= grid.Width {
		minCol -= maxCol - (grid.Width - 1)
		maxCol = grid.Width - 1
		if minCol < 0 {
			minCol = 0
		}
	}

	minRow := m.center.Row - m.size.Height/2
	maxRow := minRow + m.size.Height - 1
	if minRow < 0 {
		maxRow -= minRow
		minRow = 0
	}
	if maxRow >= grid.Height {
		minRow -= maxRow - (grid.Height - 1)
		maxRow = grid.Height - 1
		if minRow < 0 {
			minRow = 0
		}
	}

	m.bounds = Bounds{MinCol: minCol, MaxCol: maxCol, MinRow: minRow, MaxRow: maxRow}

	// Список видимых клеток строится жадно при каждой мутации.
	m.visible = m.visible[:0]
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			m.visible = append(m.visible, Position{Cell: grid.Cell{Col: col, Row: row}, Layer: m.layer})
		}
	}
}

// VisibleTiles возвращает все клетки внутри границ на текущем слое.
func (m *Manager) VisibleTiles() []Position {
	out := make([]Position, len(m.visible))
	copy(out, m.visible)
	return out
}

// IsVisible проверяет, попадает ли позиция в окно: тот же слой и внутри границ.
func (m *Manager) IsVisible(pos Position) bool {
	if pos.Layer != m.layer {
		return false
	}
	return pos.Cell.Col >= m.bounds.MinCol && pos.Cell.Col <= m.bounds.MaxCol &&
		pos.Cell.Row >= m.bounds.MinRow && pos.Cell.Row <= m.bounds.MaxRow
}

// ScreenCoord представляет локальные координаты внутри окна просмотра.
type ScreenCoord struct {
	X, Y int
}

// ScreenCoordinates проецирует мировую клетку в локальные координаты окна.
// Началом служит точка полуширина/полувысота от центра. Второе значение
// false, если позиция не видима.
func (m *Manager) ScreenCoordinates(pos Position) (ScreenCoord, bool) {
	if !m.IsVisible(pos) {
		return ScreenCoord{}, false
	}
	return ScreenCoord{
		X: pos.Cell.Col - m.center.Col + m.size.Width/2,
		Y: pos.Cell.Row - m.center.Row + m.size.Height/2,
	}, true
}

// SortSprites сортирует спрайты по возрастанию ZIndex (меньший — фон).
// Сортировка стабильная: спрайты с равным Z сохраняют исходный порядок.
func (m *Manager) SortSprites(sprites []Sprite) []Sprite {
	out := make([]Sprite, len(sprites))
	copy(out, sprites)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

// VisibleSprites возвращает спрайты, попадающие в окно просмотра.
func (m *Manager) VisibleSprites(sprites []Sprite) []Sprite {
	var out []Sprite
	for _, s := range sprites {
		if m.IsVisible(s.Pos) {
			out = append(out, s)
		}
	}
	return out
}

// SpritesAt возвращает спрайты с точным совпадением клетки и слоя.
func (m *Manager) SpritesAt(sprites []Sprite, pos Position) []Sprite {
	var out []Sprite
	for _, s := range sprites {
		if s.Pos == pos {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
