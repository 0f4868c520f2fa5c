package teletext

import "fmt"

// Quality определяет уровень качества рендеринга глифов.
// Уровни образуют цепочку фолбэков со строго убывающей плотностью
// информации: телетекст -> квадранты ASCII-блоков -> штриховка -> ASCII.
type Quality int

const (
	QualityTeletext Quality = iota
	QualityAsciiBlock
	QualityShade
	QualityAscii
)

// String возвращает строковое представление уровня качества.
func (q Quality) String() string {
	switch q {
	case QualityTeletext:
		return "teletext"
	case QualityAsciiBlock:
		return "ascii-block"
	case QualityShade:
		return "shade"
	case QualityAscii:
		return "ascii"
	default:
		return "unknown"
	}
}

// ParseQuality разбирает имя уровня качества из конфигурации.
func ParseQuality(s string) (Quality, error) {
	switch s {
	case "teletext", "":
		return QualityTeletext, nil
	case "ascii-block":
		return QualityAsciiBlock, nil
	case "shade":
		return QualityShade, nil
	case "ascii":
		return QualityAscii, nil
	default:
		return QualityTeletext, fmt.Errorf("неизвестный уровень качества %q", s)
	}
}

// quadrantGlyphs содержит 16 глифов-квадрантов (сетка 2x2).
// Порядок битов индекса: BL*8 + BR*4 + TL*2 + TR*1.
var quadrantGlyphs = [16]rune{
	' ', '▝', '▘', '▀',
	'▗', '▐', '▚', '▜',
	'▖', '▞', '▌', '▛',
	'▄', '▟', '▙', '█',
}

// shadeGlyphs содержит 5 уровней штриховки по плотности.
var shadeGlyphs = [5]rune{' ', '░', '▒', '▓', '█'}

// asciiGlyphs содержит те же 5 уровней плотности в чистом ASCII.
var asciiGlyphs = [5]rune{' ', '.', ':', '#', '@'}

// densityLevel сводит плотность 0..6 к пяти уровням:
// 0 -> 0, 1 -> 1, 2-3 -> 2, 4-5 -> 3, 6 -> 4.
func densityLevel(density int) int {
	switch {
	case density <= 0:
		return 0
	case density == 1:
		return 1
	case density <= 3:
		return 2
	case density <= 5:
		return 3
	default:
		return 4
	}
}

// ToTeletext возвращает телетекст-глиф (секстант) для сетки 2x3.
// Алфавит из 64 глифов биективен с 6-битным индексом сетки:
// индекс 0 — пробел, индекс 63 — полный блок.
func ToTeletext(g PixelGrid) rune {
	// Кодировка секстантов Unicode нумерует пиксели в обратном порядке
	// относительно индекса сетки: TL=1, TR=2, ML=4, MR=8, BL=16, BR=32.
	bits := 0
	if g.TopLeft {
		bits |= 1
	}
	if g.TopRight {
		bits |= 2
	}
	if g.MiddleLeft {
		bits |= 4
	}
	if g.MiddleRight {
		bits |= 8
	}
	if g.BottomLeft {
		bits |= 16
	}
	if g.BottomRight {
		bits |= 32
	}

	// Блок Symbols for Legacy Computing не содержит четырёх паттернов,
	// совпадающих с уже существующими символами.
	switch bits {
	case 0:
		return ' '
	case 21: // левая колонка
		return '▌'
	case 42: // правая колонка
		return '▐'
	case 63:
		return '█'
	}

	offset := bits - 1
	if bits > 21 {
		offset--
	}
	if bits > 42 {
		offset--
	}
	return rune(0x1FB00 + offset)
}

// ToAsciiBlock возвращает квадрантный глиф для сетки, сведённой к 2x2:
// верхний ряд без изменений, нижний ряд берётся из среднего ряда 2x3.
func ToAsciiBlock(g PixelGrid) rune {
	idx := 0
	if g.MiddleLeft {
		idx |= 8
	}
	if g.MiddleRight {
		idx |= 4
	}
	if g.TopLeft {
		idx |= 2
	}
	if g.TopRight {
		idx |= 1
	}
	return quadrantGlyphs[idx]
}

// ToShade возвращает глиф штриховки по плотности пикселей.
func ToShade(g PixelGrid) rune {
	return shadeGlyphs[densityLevel(g.Density())]
}

// ToAscii возвращает ASCII-глиф по плотности пикселей.
func ToAscii(g PixelGrid) rune {
	return asciiGlyphs[densityLevel(g.Density())]
}

// Render рендерит сетку пикселей одним печатным символом
// на указанном уровне качества.
func Render(g PixelGrid, q Quality) rune {
	switch q {
	case QualityTeletext:
		return ToTeletext(g)
	case QualityAsciiBlock:
		return ToAsciiBlock(g)
	case QualityShade:
		return ToShade(g)
	default:
		return ToAscii(g)
	}
}

// Обратные таблицы для известных алфавитов. Заполняются один раз при
// инициализации пакета из прямых преобразований, чтобы таблицы не могли
// разойтись с кодировкой.
var (
	teletextByRune = map[rune]PixelGrid{}
	quadrantByRune = map[rune]PixelGrid{}
	densityByRune  = map[rune]int{}
)

func init() {
	for idx := 0; idx < 64; idx++ {
		g := GridFromIndex(idx)
		teletextByRune[ToTeletext(g)] = g
	}

	for bits := 0; bits < 16; bits++ {
		// Квадрант разворачивается обратно в 2x3: нижний ряд 2x2
		// дублируется в средний и нижний ряды.
		g := PixelGrid{
			TopLeft:     bits&2 != 0,
			TopRight:    bits&1 != 0,
			MiddleLeft:  bits&8 != 0,
			MiddleRight: bits&4 != 0,
			BottomLeft:  bits&8 != 0,
			BottomRight: bits&4 != 0,
		}
		if _, exists := quadrantByRune[quadrantGlyphs[bits]]; !exists {
			quadrantByRune[quadrantGlyphs[bits]] = g
		}
	}

	// Представительные плотности для уровней штриховки и ASCII.
	for i, density := range [5]int{0, 1, 3, 5, 6} {
		densityByRune[shadeGlyphs[i]] = density
		densityByRune[asciiGlyphs[i]] = density
	}
}

// GridFromRune возвращает сетку пикселей для символа одного из четырёх
// алфавитов. Второе значение false, если символ не принадлежит ни одному
// известному алфавиту.
func GridFromRune(r rune) (PixelGrid, bool) {
	if g, ok := teletextByRune[r]; ok {
		return g, true
	}
	if g, ok := quadrantByRune[r]; ok {
		return g, true
	}
	if density, ok := densityByRune[r]; ok {
		return GridFromDensity(density), true
	}
	return PixelGrid{}, false
}
