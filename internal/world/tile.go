package world

import "fmt"

// TileType определяет тип размещаемой плитки.
type TileType string

const (
	TileObject TileType = "object"
	TileSprite TileType = "sprite"
	TileMarker TileType = "marker"
)

// Footprint определяет прямоугольную площадь плитки в клетках,
// с якорем в левой верхней клетке. Стандартная площадь 1x1, широкая 2x1.
type Footprint struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// TilePlacement представляет размещение плитки в мире.
// Создаётся внешним загрузчиком; после размещения объектом владеет арена
// мира, а каждая покрытая клетка ссылается на него по ID. Для плиток с
// площадью больше 1x1 все покрытые клетки разделяют один и тот же объект.
type TilePlacement struct {
	ID        string                 `json:"id"`
	Type      TileType               `json:"type"`
	Solid     bool                   `json:"solid,omitempty"`
	Footprint *Footprint             `json:"footprint,omitempty"`
	Props     map[string]interface{} `json:"props,omitempty"`
}

// EffectiveFootprint возвращает площадь плитки с учётом значения по умолчанию 1x1.
func (p *TilePlacement) EffectiveFootprint() Footprint {
	if p.Footprint == nil || p.Footprint.Width <= 0 || p.Footprint.Height <= 0 {
		return Footprint{Width: 1, Height: 1}
	}
	return *p.Footprint
}

// CollisionError возвращается, когда твёрдое размещение пересекается
// с существующим твёрдым размещением в одной из покрытых клеток.
// Мир при этом остаётся без изменений.
type CollisionError struct {
	Canonical string // Клетка, в которой обнаружено пересечение
	TileID    string // ID уже существующей плитки
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("коллизия в клетке %s: занято плиткой %s", e.Canonical, e.TileID)
}

// DuplicateIDError возвращается при попытке разместить плитку с ID,
// который уже занят другой плиткой арены. Повторное использование ID
// перенаправило бы ссылки существующих клеток на новую плитку.
type DuplicateIDError struct {
	TileID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("плитка с ID %s уже существует", e.TileID)
}
