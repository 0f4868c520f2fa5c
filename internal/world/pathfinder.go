package world

import (
	"github.com/annel0/teletext-world/internal/grid"
)

// PathResult представляет результат поиска пути.
type PathResult struct {
	Path  []string // Канонические адреса от старта до цели включительно
	Found bool
}

// Pathfinder ищет маршруты между клетками одного эффективного слоя
// поиском в ширину по занятости SparseWorld.
type Pathfinder struct {
	world *SparseWorld
}

// NewPathfinder создаёт поисковик путей поверх мира.
func NewPathfinder(w *SparseWorld) *Pathfinder {
	return &Pathfinder{world: w}
}

// Четыре направления соседства в фиксированном порядке: +col, -col, +row, -row.
// Порядок определяет разрешение ничьих между кратчайшими путями:
// возвращается кратчайший по числу клеток путь, но при нескольких
// кратчайших выбор следует только порядку вставки в очередь.
var neighborDeltas = [4]grid.Cell{
	{Col: 1, Row: 0},
	{Col: -1, Row: 0},
	{Col: 0, Row: 1},
	{Col: 0, Row: -1},
}

// FindPath ищет путь между двумя каноническими адресами.
//
// Оба адреса должны разрешаться в один эффективный слой; при несовпадении
// поиск не выполняется и возвращается пустой результат. Занятые клетки
// проходимы, если ни одна из их плиток не твёрдая; клетки с твёрдой
// плиткой пропускаются. Путь восстанавливается при первом извлечении
// цели из очереди.
func (pf *Pathfinder) FindPath(startCanonical, goalCanonical string) (PathResult, error) {
	start, err := grid.ParseCanonical(startCanonical)
	if err != nil {
		return PathResult{Path: []string{}}, err
	}
	goal, err := grid.ParseCanonical(goalCanonical)
	if err != nil {
		return PathResult{Path: []string{}}, err
	}

	pathSearchesTotal.Inc()

	if start.EffectiveLayer() != goal.EffectiveLayer() {
		return PathResult{Path: []string{}}, nil
	}

	// Поиск идёт в пространстве базового слоя стартового адреса: туда же
	// канонизируются адреса клеток пути и ключи проверки занятости.
	layer := start.BaseLayer

	var visited [grid.Height][grid.Width]bool
	parent := make(map[grid.Cell]grid.Cell)

	queue := []grid.Cell{start.Cell}
	visited[start.Cell.Row][start.Cell.Col] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		pathCellsExpanded.Inc()

		if current == goal.Cell {
			pathFoundTotal.Inc()
			return PathResult{Path: pf.reconstruct(parent, start.Cell, current, layer), Found: true}, nil
		}

		for _, delta := range neighborDeltas {
			next := grid.Cell{Col: current.Col + delta.Col, Row: current.Row + delta.Row}
			if !grid.IsInBounds(next.Col, next.Row) {
				continue
			}
			if visited[next.Row][next.Col] {
				continue
			}
			if pf.world.anySolid(grid.FormatCanonical(layer, next)) {
				continue
			}
			visited[next.Row][next.Col] = true
			parent[next] = current
			queue = append(queue, next)
		}
	}

	return PathResult{Path: []string{}}, nil
}

// reconstruct восстанавливает путь от старта до цели по карте родителей.
func (pf *Pathfinder) reconstruct(parent map[grid.Cell]grid.Cell, start, goal grid.Cell, layer int) []string {
	cells := []grid.Cell{goal}
	for current := goal; current != start; {
		current = parent[current]
		cells = append(cells, current)
	}

	path := make([]string, 0, len(cells))
	for i := len(cells) - 1; i >= 0; i-- {
		path = append(path, grid.FormatCanonical(layer, cells[i]))
	}
	return path
}
