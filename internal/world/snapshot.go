package world

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/annel0/teletext-world/internal/eventbus"
)

// CellSnapshot представляет одну занятую клетку в сериализованном снимке.
type CellSnapshot struct {
	Canonical string           `json:"canonical"`
	Tiles     []*TilePlacement `json:"tiles"`
}

// WorldSnapshot представляет полный JSON-снимок мира.
// Поля версии нет: совместимость схемы согласуется вызывающей стороной.
type WorldSnapshot struct {
	Cells []CellSnapshot `json:"cells"`
}

// ToJSON сериализует занятые клетки мира в JSON-снимок.
// Клетки упорядочиваются по каноническому адресу, поэтому снимок
// детерминирован и пригоден для побайтового сравнения.
func (w *SparseWorld) ToJSON() ([]byte, error) {
	snapshot := WorldSnapshot{Cells: make([]CellSnapshot, 0, len(w.cells))}

	keys := make([]string, 0, len(w.cells))
	for key := range w.cells {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		entry := w.cells[key]
		tiles := make([]*TilePlacement, 0, len(entry.tileIDs))
		for _, id := range entry.tileIDs {
			if tile, ok := w.arena[id]; ok {
				tiles = append(tiles, tile)
			}
		}
		snapshot.Cells = append(snapshot.Cells, CellSnapshot{Canonical: key, Tiles: tiles})
	}

	return json.Marshal(snapshot)
}

// FromJSON восстанавливает мир из JSON-снимка.
// Семантика замены, не слияния: текущее состояние сбрасывается целиком.
// Плитки с одинаковым ID в разных клетках сводятся к одному объекту арены,
// восстанавливая разделение плиток с площадью больше 1x1.
func (w *SparseWorld) FromJSON(payload []byte) error {
	var snapshot WorldSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return fmt.Errorf("разбор снимка мира: %w", err)
	}

	w.arena = make(map[string]*TilePlacement)
	w.cells = make(map[string]*cellEntry)

	for _, cell := range snapshot.Cells {
		entry := &cellEntry{canonical: cell.Canonical}
		for _, tile := range cell.Tiles {
			if existing, ok := w.arena[tile.ID]; ok {
				tile = existing
			} else {
				w.arena[tile.ID] = tile
			}
			entry.tileIDs = append(entry.tileIDs, tile.ID)
		}
		w.cells[cell.Canonical] = entry
	}

	w.revision++
	w.publish(eventbus.EventWorldRestored, "", "")
	return nil
}

// SaveSnapshot сериализует мир и сохраняет снимок в репозитории под именем name.
func (w *SparseWorld) SaveSnapshot(ctx context.Context, repo SnapshotSink, name string) error {
	payload, err := w.ToJSON()
	if err != nil {
		return err
	}
	if err := repo.Save(ctx, name, payload); err != nil {
		return fmt.Errorf("сохранение снимка %q: %w", name, err)
	}
	w.publish(eventbus.EventSnapshotSaved, name, "")
	return nil
}

// LoadSnapshot загружает снимок из репозитория и восстанавливает мир.
// Возвращает false без ошибки, если снимка с таким именем нет.
func (w *SparseWorld) LoadSnapshot(ctx context.Context, repo SnapshotSink, name string) (bool, error) {
	payload, found, err := repo.Load(ctx, name)
	if err != nil {
		return false, fmt.Errorf("загрузка снимка %q: %w", name, err)
	}
	if !found {
		return false, nil
	}
	return true, w.FromJSON(payload)
}

// SnapshotSink описывает минимальный контракт хранилища снимков,
// который нужен миру. Реализации живут в internal/storage.
type SnapshotSink interface {
	Save(ctx context.Context, name string, payload []byte) error
	Load(ctx context.Context, name string) ([]byte, bool, error)
}
