package render

// Style содержит цвета переднего плана и фона отрендеренной клетки.
// Значения — непрозрачные имена цветов; их интерпретация принадлежит
// внешнему терминальному или HTML-рендереру.
type Style struct {
	Fg string
	Bg string
}

// TileObject представляет объект клетки: его символ участвует в
// пиксельной композиции.
type TileObject struct {
	Char string
	Fg   string
	Bg   string
	Z    int
}

// TileSprite представляет спрайт клетки. Спрайты не композитятся по
// плотности: спрайт с наибольшим Z целиком заменяет визуал клетки.
type TileSprite struct {
	Char string
	Fg   string
	Bg   string
	Z    int
}

// TileMarker представляет маркер клетки. Маркеры — только метаданные,
// на отрендеренный глиф они не влияют.
type TileMarker struct {
	Label string
	Z     int
}

// TileContent представляет содержимое одной клетки на входе композитора.
type TileContent struct {
	Objects []TileObject
	Sprites []TileSprite
	Markers []TileMarker
}

// IsEmpty сообщает, что в клетке нет ни объектов, ни спрайтов.
func (c TileContent) IsEmpty() bool {
	return len(c.Objects) == 0 && len(c.Sprites) == 0
}

// RenderedCell представляет результат рендеринга одной клетки.
type RenderedCell struct {
	Char  rune
	Style Style
	Z     int
}
