package grid

import "fmt"

// InvalidFormatError возвращается при разборе некорректной строки клетки
// или канонического адреса.
type InvalidFormatError struct {
	Input  string // Исходная строка
	Reason string // Причина отказа
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("некорректный формат %q: %s", e.Input, e.Reason)
}

// OutOfBoundsError возвращается, когда координаты выходят за пределы сетки 80x30.
type OutOfBoundsError struct {
	Col, Row int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("координаты (%d,%d) вне сетки %dx%d", e.Col, e.Row, Width, Height)
}

// LayerBandError возвращается, когда номер слоя не попадает ни в одну полосу.
type LayerBandError struct {
	Layer int
}

func (e *LayerBandError) Error() string {
	return fmt.Sprintf("слой %d не принадлежит ни одной полосе (SUR/UDN/SUB)", e.Layer)
}
