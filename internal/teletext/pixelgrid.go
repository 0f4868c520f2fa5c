package teletext

// PixelGrid представляет битовую карту 2x3 внутри одной клетки.
// Шесть независимых пикселей — общее промежуточное представление,
// из которого рендерятся все уровни качества.
type PixelGrid struct {
	TopLeft     bool
	TopRight    bool
	MiddleLeft  bool
	MiddleRight bool
	BottomLeft  bool
	BottomRight bool
}

// NewEmptyGrid возвращает пустую сетку (все пиксели выключены).
func NewEmptyGrid() PixelGrid {
	return PixelGrid{}
}

// NewFullGrid возвращает полностью заполненную сетку.
func NewFullGrid() PixelGrid {
	return PixelGrid{
		TopLeft: true, TopRight: true,
		MiddleLeft: true, MiddleRight: true,
		BottomLeft: true, BottomRight: true,
	}
}

// Index возвращает 6-битный индекс сетки:
// TL*32 + TR*16 + ML*8 + MR*4 + BL*2 + BR*1.
func (g PixelGrid) Index() int {
	idx := 0
	if g.TopLeft {
		idx |= 32
	}
	if g.TopRight {
		idx |= 16
	}
	if g.MiddleLeft {
		idx |= 8
	}
	if g.MiddleRight {
		idx |= 4
	}
	if g.BottomLeft {
		idx |= 2
	}
	if g.BottomRight {
		idx |= 1
	}
	return idx
}

// GridFromIndex восстанавливает сетку из 6-битного индекса.
// Обратная операция к Index: GridFromIndex(g.Index()) == g.
func GridFromIndex(idx int) PixelGrid {
	return PixelGrid{
		TopLeft:     idx&32 != 0,
		TopRight:    idx&16 != 0,
		MiddleLeft:  idx&8 != 0,
		MiddleRight: idx&4 != 0,
		BottomLeft:  idx&2 != 0,
		BottomRight: idx&1 != 0,
	}
}

// Density возвращает количество включённых пикселей (0..6).
func (g PixelGrid) Density() int {
	n := 0
	for _, on := range [6]bool{g.TopLeft, g.TopRight, g.MiddleLeft, g.MiddleRight, g.BottomLeft, g.BottomRight} {
		if on {
			n++
		}
	}
	return n
}

// GridFromDensity строит сетку с указанным числом включённых пикселей.
// Пиксели заполняются в фиксированном порядке: TL, TR, ML, MR, BL, BR.
func GridFromDensity(n int) PixelGrid {
	if n < 0 {
		n = 0
	}
	if n > 6 {
		n = 6
	}
	var g PixelGrid
	targets := [6]*bool{&g.TopLeft, &g.TopRight, &g.MiddleLeft, &g.MiddleRight, &g.BottomLeft, &g.BottomRight}
	for i := 0; i < n; i++ {
		*targets[i] = true
	}
	return g
}

// Merge возвращает поразрядное ИЛИ двух сеток: пиксель включён,
// если он включён хотя бы в одной из них.
func (g PixelGrid) Merge(other PixelGrid) PixelGrid {
	return PixelGrid{
		TopLeft:     g.TopLeft || other.TopLeft,
		TopRight:    g.TopRight || other.TopRight,
		MiddleLeft:  g.MiddleLeft || other.MiddleLeft,
		MiddleRight: g.MiddleRight || other.MiddleRight,
		BottomLeft:  g.BottomLeft || other.BottomLeft,
		BottomRight: g.BottomRight || other.BottomRight,
	}
}
