package grid

import "fmt"

// Константы сетки мира. Сетка фиксирована: 80 колонок на 30 строк,
// строка отображается со смещением +10 (видимые номера 10..39).
const (
	Width            = 80
	Height           = 30
	RowDisplayOffset = 10
)

// Cell представляет координаты клетки сетки (нулевая база).
type Cell struct {
	Col int // 0..79
	Row int // 0..29
}

// IsInBounds проверяет, что координаты находятся внутри сетки.
func IsInBounds(col, row int) bool {
	return col >= 0 && col < Width && row >= 0 && row < Height
}

// ParseCell разбирает строку клетки вида "AA10": две заглавные буквы
// (колонка по основанию 26, "AA"=0) и две цифры (строка со смещением +10).
func ParseCell(s string) (Cell, error) {
	if len(s) != 4 {
		return Cell{}, &InvalidFormatError{Input: s, Reason: "ожидается ровно 4 символа"}
	}

	c1, c2 := s[0], s[1]
	if c1 < 'A' || c1 > 'Z' || c2 < 'A' || c2 > 'Z' {
		return Cell{}, &InvalidFormatError{Input: s, Reason: "первые два символа должны быть заглавными буквами"}
	}

	d1, d2 := s[2], s[3]
	if d1 < '0' || d1 > '9' || d2 < '0' || d2 > '9' {
		return Cell{}, &InvalidFormatError{Input: s, Reason: "последние два символа должны быть цифрами"}
	}

	col := int(c1-'A')*26 + int(c2-'A')
	row := int(d1-'0')*10 + int(d2-'0') - RowDisplayOffset

	if !IsInBounds(col, row) {
		return Cell{}, &OutOfBoundsError{Col: col, Row: row}
	}

	return Cell{Col: col, Row: row}, nil
}

// FormatCell форматирует клетку обратно в строку вида "AA10".
// Обратная операция к ParseCell: FormatCell(ParseCell(s)) == s.
func FormatCell(c Cell) string {
	return fmt.Sprintf("%c%c%02d",
		rune('A'+c.Col/26),
		rune('A'+c.Col%26),
		c.Row+RowDisplayOffset)
}

// String возвращает строковое представление клетки.
func (c Cell) String() string {
	return FormatCell(c)
}
