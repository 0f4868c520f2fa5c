package grid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCell_Basic(t *testing.T) {
	// Тест базового разбора клетки
	cell, err := ParseCell("AA10")
	require.NoError(t, err)
	assert.Equal(t, Cell{Col: 0, Row: 0}, cell, "AA10 должна быть началом сетки")

	cell, err = ParseCell("AB15")
	require.NoError(t, err)
	assert.Equal(t, Cell{Col: 1, Row: 5}, cell, "Колонка AB = 1, строка 15 = 5")

	cell, err = ParseCell("DB39")
	require.NoError(t, err)
	assert.Equal(t, Cell{Col: 79, Row: 29}, cell, "DB39 должна быть последней клеткой сетки")
}

func TestParseCell_InvalidFormat(t *testing.T) {
	// Тест ошибок формата
	cases := []string{"", "A", "AA1", "AA100", "aa10", "A110", "AAXX", "1A10"}
	for _, s := range cases {
		_, err := ParseCell(s)
		require.Error(t, err, "строка %q должна быть отклонена", s)

		var formatErr *InvalidFormatError
		assert.True(t, errors.As(err, &formatErr), "для %q ожидается InvalidFormatError, получено %v", s, err)
	}
}

func TestParseCell_OutOfBounds(t *testing.T) {
	// Тест выхода за пределы сетки
	var boundsErr *OutOfBoundsError

	// DC = колонка 80 — за пределами
	_, err := ParseCell("DC10")
	require.Error(t, err)
	assert.True(t, errors.As(err, &boundsErr), "ожидается OutOfBoundsError")

	// Строка 09 -> row = -1
	_, err = ParseCell("AA09")
	require.Error(t, err)
	assert.True(t, errors.As(err, &boundsErr), "ожидается OutOfBoundsError")

	// Строка 40 -> row = 30
	_, err = ParseCell("AA40")
	require.Error(t, err)
	assert.True(t, errors.As(err, &boundsErr), "ожидается OutOfBoundsError")
}

func TestFormatCell_RoundTrip(t *testing.T) {
	// Тест кругового преобразования для всех клеток сетки
	for col := 0; col < Width; col++ {
		for row := 0; row < Height; row++ {
			s := FormatCell(Cell{Col: col, Row: row})
			cell, err := ParseCell(s)
			require.NoError(t, err, "строка %q должна разбираться", s)
			assert.Equal(t, Cell{Col: col, Row: row}, cell, "клетка должна совпадать после round-trip")
		}
	}
}

func TestIsInBounds(t *testing.T) {
	assert.True(t, IsInBounds(0, 0))
	assert.True(t, IsInBounds(79, 29))
	assert.False(t, IsInBounds(-1, 0))
	assert.False(t, IsInBounds(0, -1))
	assert.False(t, IsInBounds(80, 0))
	assert.False(t, IsInBounds(0, 30))
}
