package world

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/annel0/teletext-world/internal/eventbus"
	"github.com/annel0/teletext-world/internal/grid"
	"github.com/annel0/teletext-world/internal/logging"
)

// SparseWorld хранит размещения плиток по каноническим адресам.
// Хранение разреженное: записи существуют только для занятых клеток,
// размер карты равен числу занятых клеток, а не размеру сетки.
//
// Плитки хранятся в арене по ID; клетки держат только ссылки-идентификаторы.
// Благодаря этому плитка с площадью 2x1 видна из обеих покрытых клеток как
// один и тот же объект, а очистка клетки не оставляет висячих копий.
//
// Внутренних блокировок нет: хранилище рассчитано на одного логического
// писателя; параллельные писатели должны сериализоваться снаружи.
type SparseWorld struct {
	arena    map[string]*TilePlacement // Владеющая арена плиток по ID
	cells    map[string]*cellEntry     // Канонический адрес -> занятая клетка
	revision uint64                    // Счётчик успешных мутаций
	log      *logging.Logger
}

// cellEntry представляет одну занятую клетку.
type cellEntry struct {
	canonical string
	tileIDs   []string
}

// NewSparseWorld создаёт пустой мир.
func NewSparseWorld() *SparseWorld {
	return &SparseWorld{
		arena: make(map[string]*TilePlacement),
		cells: make(map[string]*cellEntry),
		log:   logging.GetWorldLogger(),
	}
}

// IsInBounds проверяет попадание координат в сетку мира.
func (w *SparseWorld) IsInBounds(col, row int) bool {
	return grid.IsInBounds(col, row)
}

// Len возвращает число занятых клеток.
func (w *SparseWorld) Len() int {
	return len(w.cells)
}

// Revision возвращает счётчик мутаций мира. Используется как ключевой
// компонент кеша кадров: любое успешное изменение инвалидирует кадр.
func (w *SparseWorld) Revision() uint64 {
	return w.revision
}

// Place размещает плитку по каноническому адресу.
//
// Порядок строго validate-then-mutate: сначала проверяются границы всех
// покрытых клеток, затем коллизии, и только после этого мир изменяется.
// При любой ошибке мир остаётся в исходном состоянии (всё или ничего).
func (w *SparseWorld) Place(canonical string, placement *TilePlacement) error {
	addr, err := grid.ParseCanonical(canonical)
	if err != nil {
		return err
	}

	covered, err := w.coveredCells(addr, placement)
	if err != nil {
		return err
	}
	if err := w.checkCollision(covered, placement); err != nil {
		return err
	}
	if placement.ID != "" {
		if _, taken := w.arena[placement.ID]; taken {
			return &DuplicateIDError{TileID: placement.ID}
		}
	}

	w.commit(placement, covered)
	w.revision++
	w.publish(eventbus.EventTilePlaced, addr.String(), placement.ID)
	return nil
}

// PlaceGroup размещает набор плиток одной авторской клетки атомарно.
//
// Коллизии проверяются для всей группы до каких-либо мутаций и только
// против уже существующего состояния мира: плитки внутри группы считаются
// согласованными между собой, поэтому фон и твёрдая стена одной авторской
// клетки размещаются вместе. При любой ошибке мир остаётся нетронутым.
func (w *SparseWorld) PlaceGroup(canonical string, placements []*TilePlacement) error {
	if len(placements) == 0 {
		return nil
	}

	addr, err := grid.ParseCanonical(canonical)
	if err != nil {
		return err
	}

	covered := make([][]string, len(placements))
	seen := make(map[string]bool, len(placements))
	for i, placement := range placements {
		cells, err := w.coveredCells(addr, placement)
		if err != nil {
			return err
		}
		if err := w.checkCollision(cells, placement); err != nil {
			return err
		}
		if placement.ID != "" {
			if _, taken := w.arena[placement.ID]; taken || seen[placement.ID] {
				return &DuplicateIDError{TileID: placement.ID}
			}
			seen[placement.ID] = true
		}
		covered[i] = cells
	}

	for i, placement := range placements {
		w.commit(placement, covered[i])
		w.publish(eventbus.EventTilePlaced, addr.String(), placement.ID)
	}
	w.revision++
	return nil
}

// coveredCells собирает канонические адреса всех клеток под площадью плитки
// и проверяет границы. Мир не изменяется.
func (w *SparseWorld) coveredCells(addr grid.CanonicalAddress, placement *TilePlacement) ([]string, error) {
	fp := placement.EffectiveFootprint()
	covered := make([]string, 0, fp.Width*fp.Height)
	for dy := 0; dy < fp.Height; dy++ {
		for dx := 0; dx < fp.Width; dx++ {
			col := addr.Cell.Col + dx
			row := addr.Cell.Row + dy
			if !grid.IsInBounds(col, row) {
				return nil, &grid.OutOfBoundsError{Col: col, Row: row}
			}
			covered = append(covered, grid.FormatCanonical(addr.BaseLayer, grid.Cell{Col: col, Row: row}))
		}
	}
	return covered, nil
}

// checkCollision проверяет плитку против существующего состояния мира.
// Занятая клетка конфликтует, если твёрдая либо новая плитка, либо любая
// из уже размещённых.
func (w *SparseWorld) checkCollision(covered []string, placement *TilePlacement) error {
	for _, key := range covered {
		entry, exists := w.cells[key]
		if !exists {
			continue
		}
		if placement.Solid {
			collisionsTotal.Inc()
			return &CollisionError{Canonical: key, TileID: entry.tileIDs[0]}
		}
		for _, id := range entry.tileIDs {
			if tile, ok := w.arena[id]; ok && tile.Solid {
				collisionsTotal.Inc()
				return &CollisionError{Canonical: key, TileID: id}
			}
		}
	}
	return nil
}

// commit вносит прошедшую все проверки плитку в арену и покрытые клетки.
func (w *SparseWorld) commit(placement *TilePlacement, covered []string) {
	if placement.ID == "" {
		placement.ID = uuid.NewString()
	}

	w.arena[placement.ID] = placement
	for _, key := range covered {
		entry, exists := w.cells[key]
		if !exists {
			entry = &cellEntry{canonical: key}
			w.cells[key] = entry
		}
		entry.tileIDs = append(entry.tileIDs, placement.ID)
	}
	placementsTotal.Inc()
}

// IsOccupied сообщает, занята ли клетка по каноническому адресу.
func (w *SparseWorld) IsOccupied(canonical string) (bool, error) {
	addr, err := grid.ParseCanonical(canonical)
	if err != nil {
		return false, err
	}
	_, exists := w.cells[addr.String()]
	return exists, nil
}

// GetTiles возвращает плитки клетки. Возвращается защитная копия среза;
// сами плитки разделяются со всеми покрытыми клетками намеренно.
func (w *SparseWorld) GetTiles(canonical string) ([]*TilePlacement, error) {
	addr, err := grid.ParseCanonical(canonical)
	if err != nil {
		return nil, err
	}

	entry, exists := w.cells[addr.String()]
	if !exists {
		return nil, nil
	}

	tiles := make([]*TilePlacement, 0, len(entry.tileIDs))
	for _, id := range entry.tileIDs {
		if tile, ok := w.arena[id]; ok {
			tiles = append(tiles, tile)
		}
	}
	return tiles, nil
}

// Clear удаляет все плитки в одной канонической клетке. Плитки, которые
// через свою площадь всё ещё покрывают другие клетки, остаются в арене;
// плитки без оставшихся ссылок удаляются из арены.
func (w *SparseWorld) Clear(canonical string) error {
	addr, err := grid.ParseCanonical(canonical)
	if err != nil {
		return err
	}

	key := addr.String()
	entry, exists := w.cells[key]
	if !exists {
		return nil
	}

	removed := entry.tileIDs
	delete(w.cells, key)

	for _, id := range removed {
		if !w.referenced(id) {
			delete(w.arena, id)
		}
	}

	w.revision++
	clearsTotal.Inc()
	w.publish(eventbus.EventTileCleared, key, "")
	return nil
}

// referenced проверяет, ссылается ли хоть одна клетка на плитку.
func (w *SparseWorld) referenced(id string) bool {
	for _, entry := range w.cells {
		for _, tileID := range entry.tileIDs {
			if tileID == id {
				return true
			}
		}
	}
	return false
}

// anySolid сообщает, есть ли в клетке твёрдая плитка.
func (w *SparseWorld) anySolid(key string) bool {
	entry, exists := w.cells[key]
	if !exists {
		return false
	}
	for _, id := range entry.tileIDs {
		if tile, ok := w.arena[id]; ok && tile.Solid {
			return true
		}
	}
	return false
}

// publish отправляет событие мира в глобальную шину.
func (w *SparseWorld) publish(eventType, canonical, tileID string) {
	payload, err := json.Marshal(map[string]string{
		"canonical": canonical,
		"tile_id":   tileID,
	})
	if err != nil {
		w.log.Error("Не удалось сериализовать событие %s: %v", eventType, err)
		return
	}

	env := eventbus.NewEnvelope(eventType, "world", payload)
	if err := eventbus.Publish(context.Background(), env); err != nil {
		w.log.Warn("Событие %s не опубликовано: %v", eventType, err)
	}
}
