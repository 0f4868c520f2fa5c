package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/teletext-world/internal/grid"
)

func TestSparseWorld_PlaceAndOccupancy(t *testing.T) {
	w := NewSparseWorld()

	occupied, err := w.IsOccupied("L300-AA10")
	require.NoError(t, err)
	assert.False(t, occupied, "пустой мир не должен содержать занятых клеток")

	err = w.Place("L300-AA10", &TilePlacement{Type: TileObject, Solid: true})
	require.NoError(t, err, "размещение в пустую клетку должно проходить")

	occupied, err = w.IsOccupied("L300-AA10")
	require.NoError(t, err)
	assert.True(t, occupied)
	assert.Equal(t, 1, w.Len())
}

func TestSparseWorld_SolidCollision(t *testing.T) {
	w := NewSparseWorld()

	require.NoError(t, w.Place("L300-AA10", &TilePlacement{ID: "wall", Type: TileObject, Solid: true}))

	// Твёрдое поверх твёрдого — коллизия
	err := w.Place("L300-AA10", &TilePlacement{Type: TileObject, Solid: true})
	var collision *CollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "L300-AA10", collision.Canonical)
	assert.Equal(t, "wall", collision.TileID)

	// Нетвёрдое поверх твёрдого тоже отклоняется
	err = w.Place("L300-AA10", &TilePlacement{Type: TileMarker})
	require.ErrorAs(t, err, &collision)

	assert.Equal(t, 1, w.Len(), "после коллизий мир не должен меняться")
}

func TestSparseWorld_NonSolidStacking(t *testing.T) {
	w := NewSparseWorld()

	require.NoError(t, w.Place("L300-AA10", &TilePlacement{Type: TileMarker}))
	require.NoError(t, w.Place("L300-AA10", &TilePlacement{Type: TileMarker}),
		"нетвёрдые плитки должны складываться в одной клетке")

	tiles, err := w.GetTiles("L300-AA10")
	require.NoError(t, err)
	assert.Len(t, tiles, 2)
}

func TestSparseWorld_SolidRejectedOverNonSolid(t *testing.T) {
	w := NewSparseWorld()

	require.NoError(t, w.Place("L300-AA10", &TilePlacement{ID: "marker", Type: TileMarker}))

	// Твёрдая плитка не размещается в уже занятую клетку, даже нетвёрдую
	err := w.Place("L300-AA10", &TilePlacement{Type: TileObject, Solid: true})
	var collision *CollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "marker", collision.TileID)
}

func TestSparseWorld_FootprintAtomicity(t *testing.T) {
	w := NewSparseWorld()

	// Якорь в последнем столбце: вторая клетка 2x1 выходит за границу
	anchor := grid.FormatCanonical(300, grid.Cell{Col: grid.Width - 1, Row: 0})
	err := w.Place(anchor, &TilePlacement{
		Type:      TileObject,
		Solid:     true,
		Footprint: &Footprint{Width: 2, Height: 1},
	})

	var oob *grid.OutOfBoundsError
	require.ErrorAs(t, err, &oob, "часть площади вне сетки должна отклонять размещение целиком")

	occupied, err := w.IsOccupied(anchor)
	require.NoError(t, err)
	assert.False(t, occupied, "якорная клетка не должна быть занята после отказа")
	assert.Equal(t, 0, w.Len())
}

func TestSparseWorld_FootprintAliasing(t *testing.T) {
	w := NewSparseWorld()

	wide := &TilePlacement{
		ID:        "couch",
		Type:      TileObject,
		Solid:     true,
		Footprint: &Footprint{Width: 2, Height: 1},
	}
	require.NoError(t, w.Place("L300-AA10", wide))

	assert.Equal(t, 2, w.Len(), "плитка 2x1 должна занимать две клетки")

	left, err := w.GetTiles("L300-AA10")
	require.NoError(t, err)
	right, err := w.GetTiles("L300-AB10")
	require.NoError(t, err)

	require.Len(t, left, 1)
	require.Len(t, right, 1)
	assert.Same(t, left[0], right[0], "обе клетки должны видеть один и тот же объект плитки")
}

func TestSparseWorld_FootprintCollisionOnSecondCell(t *testing.T) {
	w := NewSparseWorld()

	require.NoError(t, w.Place("L300-AB10", &TilePlacement{ID: "pillar", Type: TileObject, Solid: true}))

	// Якорь свободен, но вторая клетка площади занята
	err := w.Place("L300-AA10", &TilePlacement{
		Type:      TileObject,
		Solid:     true,
		Footprint: &Footprint{Width: 2, Height: 1},
	})

	var collision *CollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "L300-AB10", collision.Canonical)

	occupied, err := w.IsOccupied("L300-AA10")
	require.NoError(t, err)
	assert.False(t, occupied, "якорная клетка должна остаться свободной")
}

func TestSparseWorld_ClearKeepsSharedTile(t *testing.T) {
	w := NewSparseWorld()

	wide := &TilePlacement{
		ID:        "couch",
		Type:      TileObject,
		Footprint: &Footprint{Width: 2, Height: 1},
	}
	require.NoError(t, w.Place("L300-AA10", wide))

	// Очистка одной клетки площади не трогает вторую
	require.NoError(t, w.Clear("L300-AA10"))

	occupied, err := w.IsOccupied("L300-AA10")
	require.NoError(t, err)
	assert.False(t, occupied)

	tiles, err := w.GetTiles("L300-AB10")
	require.NoError(t, err)
	require.Len(t, tiles, 1, "вторая клетка площади должна сохранить плитку")
	assert.Equal(t, "couch", tiles[0].ID)

	// После очистки последней ссылки плитка уходит из арены
	require.NoError(t, w.Clear("L300-AB10"))
	assert.Equal(t, 0, w.Len())
	assert.Empty(t, w.arena, "арена не должна держать плитки без ссылок")
}

func TestSparseWorld_ClearEmptyCellIsNoop(t *testing.T) {
	w := NewSparseWorld()
	rev := w.Revision()

	require.NoError(t, w.Clear("L300-AA10"))
	assert.Equal(t, rev, w.Revision(), "очистка пустой клетки не должна менять ревизию")
}

func TestSparseWorld_RevisionGrowsOnMutation(t *testing.T) {
	w := NewSparseWorld()
	rev := w.Revision()

	require.NoError(t, w.Place("L300-AA10", &TilePlacement{Type: TileObject}))
	assert.Greater(t, w.Revision(), rev, "успешное размещение должно увеличивать ревизию")

	rev = w.Revision()
	err := w.Place("L300-ZZ99", &TilePlacement{Type: TileObject})
	require.Error(t, err)
	assert.Equal(t, rev, w.Revision(), "неудачное размещение не должно менять ревизию")
}

func TestSparseWorld_PlaceGroupAllowsSolidOverGroupBackground(t *testing.T) {
	w := NewSparseWorld()

	// Фон и твёрдая стена одной авторской клетки не конфликтуют между собой
	err := w.PlaceGroup("L300-AA10", []*TilePlacement{
		{Type: TileObject, Props: map[string]interface{}{"char": "░", "z": -1}},
		{ID: "wall", Type: TileObject, Solid: true},
	})
	require.NoError(t, err, "группа из фона и твёрдого объекта должна размещаться")

	tiles, err := w.GetTiles("L300-AA10")
	require.NoError(t, err)
	assert.Len(t, tiles, 2, "обе плитки группы должны попасть в клетку")
}

func TestSparseWorld_PlaceGroupRejectedByExistingSolid(t *testing.T) {
	w := NewSparseWorld()

	require.NoError(t, w.Place("L300-AA10", &TilePlacement{ID: "pillar", Type: TileObject, Solid: true}))
	rev := w.Revision()

	// Существующее содержимое мира по-прежнему блокирует всю группу
	err := w.PlaceGroup("L300-AA10", []*TilePlacement{
		{Type: TileObject, Props: map[string]interface{}{"z": -1}},
		{Type: TileObject, Solid: true},
	})
	var collision *CollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "pillar", collision.TileID)

	tiles, err := w.GetTiles("L300-AA10")
	require.NoError(t, err)
	assert.Len(t, tiles, 1, "из отклонённой группы не должно разместиться ничего")
	assert.Equal(t, rev, w.Revision(), "неудачная группа не должна менять ревизию")
}

func TestSparseWorld_PlaceGroupAtomicOnBadFootprint(t *testing.T) {
	w := NewSparseWorld()

	anchor := grid.FormatCanonical(300, grid.Cell{Col: grid.Width - 1, Row: 0})
	err := w.PlaceGroup(anchor, []*TilePlacement{
		{Type: TileObject, Props: map[string]interface{}{"z": -1}},
		{Type: TileObject, Solid: true, Footprint: &Footprint{Width: 2, Height: 1}},
	})

	var oob *grid.OutOfBoundsError
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, 0, w.Len(), "ошибка любой плитки группы откатывает группу целиком")
}

func TestSparseWorld_DuplicateIDRejected(t *testing.T) {
	w := NewSparseWorld()

	original := &TilePlacement{ID: "wall", Type: TileObject, Solid: true}
	require.NoError(t, w.Place("L300-AA10", original))

	// Повторный ID перенаправил бы ссылки первой клетки на новую плитку
	err := w.Place("L300-AB10", &TilePlacement{ID: "wall", Type: TileObject})
	var dup *DuplicateIDError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "wall", dup.TileID)

	tiles, err := w.GetTiles("L300-AA10")
	require.NoError(t, err)
	require.Len(t, tiles, 1)
	assert.Same(t, original, tiles[0], "первая клетка должна указывать на исходную плитку")

	occupied, err := w.IsOccupied("L300-AB10")
	require.NoError(t, err)
	assert.False(t, occupied)
}

func TestSparseWorld_PlaceGroupDuplicateIDWithinGroup(t *testing.T) {
	w := NewSparseWorld()

	err := w.PlaceGroup("L300-AA10", []*TilePlacement{
		{ID: "twin", Type: TileMarker},
		{ID: "twin", Type: TileMarker},
	})
	var dup *DuplicateIDError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 0, w.Len(), "группа с повторным ID отклоняется целиком")
}

func TestSparseWorld_InvalidAddress(t *testing.T) {
	w := NewSparseWorld()

	err := w.Place("AA10", &TilePlacement{Type: TileObject})
	var invalid *grid.InvalidFormatError
	assert.ErrorAs(t, err, &invalid, "адрес без слоя должен отклоняться")

	_, err = w.GetTiles("L300")
	assert.ErrorAs(t, err, &invalid)
}
