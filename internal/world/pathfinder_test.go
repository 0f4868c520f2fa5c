package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathfinder_AdjacentCells(t *testing.T) {
	pf := NewPathfinder(NewSparseWorld())

	result, err := pf.FindPath("L300-AA10", "L300-AB10")
	require.NoError(t, err)
	require.True(t, result.Found, "в пустом мире путь к соседней клетке должен находиться")
	assert.Equal(t, []string{"L300-AA10", "L300-AB10"}, result.Path)
}

func TestPathfinder_SameCell(t *testing.T) {
	pf := NewPathfinder(NewSparseWorld())

	result, err := pf.FindPath("L300-AA10", "L300-AA10")
	require.NoError(t, err)
	require.True(t, result.Found)
	assert.Equal(t, []string{"L300-AA10"}, result.Path, "путь в ту же клетку — сама клетка")
}

func TestPathfinder_LayerMismatch(t *testing.T) {
	pf := NewPathfinder(NewSparseWorld())

	// Разные эффективные слои: поиск не выполняется вовсе
	result, err := pf.FindPath("L300-AA10", "L299-AA10")
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Empty(t, result.Path)
	assert.NotNil(t, result.Path, "путь должен быть пустым срезом, не nil")
}

func TestPathfinder_FractalLayerMatch(t *testing.T) {
	pf := NewPathfinder(NewSparseWorld())

	// L298 с глубиной 2 даёт эффективный слой 300 — совпадает с L300
	result, err := pf.FindPath("L298-AA10-AB11-AC12", "L300-AB12")
	require.NoError(t, err)
	assert.True(t, result.Found, "совпадение эффективных слоёв должно разрешать поиск")
}

func TestPathfinder_AroundWall(t *testing.T) {
	w := NewSparseWorld()

	// Вертикальная стена в столбце AB, ряды 10-13, с проходом в ряду 14
	for _, cell := range []string{"L300-AB10", "L300-AB11", "L300-AB12", "L300-AB13"} {
		require.NoError(t, w.Place(cell, &TilePlacement{Type: TileObject, Solid: true}))
	}

	pf := NewPathfinder(w)
	result, err := pf.FindPath("L300-AA10", "L300-AC10")
	require.NoError(t, err)
	require.True(t, result.Found, "путь в обход стены должен существовать")

	assert.Equal(t, "L300-AA10", result.Path[0])
	assert.Equal(t, "L300-AC10", result.Path[len(result.Path)-1])

	for _, step := range result.Path {
		assert.NotContains(t, []string{"L300-AB10", "L300-AB11", "L300-AB12", "L300-AB13"}, step,
			"путь не должен проходить через твёрдые клетки")
	}

	// Кратчайший обход: вниз до ряда 14, через проход и обратно вверх
	assert.Len(t, result.Path, 11)
}

func TestPathfinder_NonSolidTraversable(t *testing.T) {
	w := NewSparseWorld()
	require.NoError(t, w.Place("L300-AB10", &TilePlacement{Type: TileMarker}))

	pf := NewPathfinder(w)
	result, err := pf.FindPath("L300-AA10", "L300-AC10")
	require.NoError(t, err)
	require.True(t, result.Found)
	assert.Equal(t, []string{"L300-AA10", "L300-AB10", "L300-AC10"}, result.Path,
		"нетвёрдые плитки должны быть проходимы")
}

func TestPathfinder_UnreachableGoal(t *testing.T) {
	w := NewSparseWorld()

	// Цель в верхнем ряду, замурована с трёх оставшихся сторон
	for _, cell := range []string{"L300-AB11", "L300-AA10", "L300-AC10"} {
		require.NoError(t, w.Place(cell, &TilePlacement{Type: TileObject, Solid: true}))
	}

	pf := NewPathfinder(w)
	result, err := pf.FindPath("L300-AE15", "L300-AB10")
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Empty(t, result.Path)
}

func TestPathfinder_InvalidAddress(t *testing.T) {
	pf := NewPathfinder(NewSparseWorld())

	result, err := pf.FindPath("bogus", "L300-AA10")
	assert.Error(t, err)
	assert.False(t, result.Found)
	assert.NotNil(t, result.Path)
}
