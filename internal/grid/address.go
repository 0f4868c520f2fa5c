package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// CanonicalAddress представляет разобранный канонический адрес клетки мира.
// Строковая форма: "L{baseLayer}-{CELL}" либо фрактальная
// "L{baseLayer}-{CELL}-{CELL}...", где глубина — число дополнительных
// сегментов, а последняя клетка авторитетна.
type CanonicalAddress struct {
	BaseLayer int       // Базовый номер слоя
	Depth     int       // Количество дополнительных сегментов клеток
	Cell      Cell      // Итоговая (авторитетная) клетка
	Band      LayerBand // Полоса базового слоя
}

// ParseCanonical разбирает строку канонического адреса.
// Промежуточные сегменты фрактального пути используются только для
// подсчёта глубины и отдельно не валидируются; разбирается и проверяется
// только последний сегмент.
func ParseCanonical(s string) (CanonicalAddress, error) {
	segments := strings.Split(s, "-")
	if len(segments) < 2 {
		return CanonicalAddress{}, &InvalidFormatError{Input: s, Reason: "ожидается форма L{слой}-{клетка}"}
	}

	first := segments[0]
	if len(first) < 2 || first[0] != 'L' {
		return CanonicalAddress{}, &InvalidFormatError{Input: s, Reason: "первый сегмент должен иметь вид L{слой}"}
	}

	baseLayer, err := strconv.Atoi(first[1:])
	if err != nil {
		return CanonicalAddress{}, &InvalidFormatError{Input: s, Reason: "номер слоя не является числом"}
	}

	band, err := GetLayerBand(baseLayer)
	if err != nil {
		return CanonicalAddress{}, err
	}

	cell, err := ParseCell(segments[len(segments)-1])
	if err != nil {
		return CanonicalAddress{}, err
	}

	return CanonicalAddress{
		BaseLayer: baseLayer,
		Depth:     len(segments) - 2,
		Cell:      cell,
		Band:      band,
	}, nil
}

// String форматирует адрес в каноническую двухсегментную форму
// "L{baseLayer}-{CELL}". Фрактальная глубина при форматировании не
// воспроизводится: для хранения и поиска адрес всегда сводится к
// итоговой клетке.
func (a CanonicalAddress) String() string {
	return fmt.Sprintf("L%d-%s", a.BaseLayer, FormatCell(a.Cell))
}

// EffectiveLayer возвращает эффективный слой адреса: базовый слой плюс глубина.
func (a CanonicalAddress) EffectiveLayer() int {
	return a.BaseLayer + a.Depth
}

// FormatCanonical собирает каноническую строку адреса из слоя и клетки.
func FormatCanonical(layer int, cell Cell) string {
	return fmt.Sprintf("L%d-%s", layer, FormatCell(cell))
}
