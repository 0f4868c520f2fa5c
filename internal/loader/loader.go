package loader

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"

	"github.com/annel0/teletext-world/internal/logging"
	"github.com/annel0/teletext-world/internal/world"
)

// AuthoredObject описывает объект клетки в авторском YAML.
type AuthoredObject struct {
	ID    string `yaml:"id"`
	Char  string `yaml:"char"`
	Fg    string `yaml:"fg"`
	Bg    string `yaml:"bg"`
	Z     int    `yaml:"z"`
	Solid bool   `yaml:"solid"`
	Wide  bool   `yaml:"wide"` // Широкая плитка занимает площадь 2x1
}

// AuthoredSprite описывает спрайт клетки в авторском YAML.
type AuthoredSprite struct {
	ID   string `yaml:"id"`
	Char string `yaml:"char"`
	Fg   string `yaml:"fg"`
	Bg   string `yaml:"bg"`
	Z    int    `yaml:"z"`
}

// AuthoredCell описывает одну авторскую клетку локации.
type AuthoredCell struct {
	Address string           `yaml:"address"` // Клетка вида "AA10"
	Terrain string           `yaml:"terrain"` // Символ фона клетки (опционально)
	Objects []AuthoredObject `yaml:"objects"`
	Sprites []AuthoredSprite `yaml:"sprites"`
}

// GridBlock описывает авторскую локацию: именованный блок клеток на слое.
type GridBlock struct {
	Name      string         `yaml:"name"`
	Layer     int            `yaml:"layer"`
	StartCell string         `yaml:"startCell"`
	Cells     []AuthoredCell `yaml:"cells"`
}

// Document корневая структура YAML-файла локаций.
type Document struct {
	Locations []GridBlock `yaml:"locations"`
}

// Report итог загрузки партии локаций.
// Ошибки отдельных клеток не прерывают загрузку остальных.
type Report struct {
	Blocks int     // Обработанных локаций
	Placed int     // Успешно размещённых плиток
	Failed int     // Плиток, отклонённых с ошибкой
	Errors []error // Ошибки по каждой отклонённой клетке
}

// Loader переводит авторские локации в размещения мира.
type Loader struct {
	world *world.SparseWorld
	log   *logging.Logger
}

// NewLoader создаёт загрузчик поверх мира.
func NewLoader(w *world.SparseWorld) *Loader {
	return &Loader{
		world: w,
		log:   logging.GetLoaderLogger(),
	}
}

// LoadFile читает YAML-файл локаций и загружает его содержимое в мир.
func (l *Loader) LoadFile(ctx context.Context, path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("чтение файла локаций %q: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Report{}, fmt.Errorf("разбор файла локаций %q: %w", path, err)
	}

	return l.Load(ctx, doc.Locations), nil
}

// Load размещает все плитки из партии локаций.
//
// Политика ошибок: одна некорректная клетка (выход за границы, коллизия,
// кривой адрес) пропускается с записью в отчёт, остальная партия
// загружается дальше. Целиком загрузка не прерывается никогда.
func (l *Loader) Load(ctx context.Context, blocks []GridBlock) Report {
	_, span := otel.Tracer("loader").Start(ctx, "loader.Load")
	defer span.End()

	report := Report{Blocks: len(blocks)}

	for _, block := range blocks {
		for _, cell := range block.Cells {
			canonical := fmt.Sprintf("L%d-%s", block.Layer, cell.Address)
			group := l.translate(cell)
			if len(group) == 0 {
				continue
			}
			// Авторская клетка размещается одной группой: её фон и объекты
			// сверяются только с уже существующим содержимым мира, а не
			// друг с другом.
			if err := l.world.PlaceGroup(canonical, group); err != nil {
				report.Failed += len(group)
				report.Errors = append(report.Errors,
					fmt.Errorf("локация %q, клетка %s: %w", block.Name, canonical, err))
				l.log.Warn("Пропущена клетка %s (%s): %v", canonical, block.Name, err)
				continue
			}
			report.Placed += len(group)
		}
		l.log.Debug("Локация %q загружена (слой %d, клеток %d)", block.Name, block.Layer, len(block.Cells))
	}

	span.SetAttributes(
		attribute.Int("loader.blocks", report.Blocks),
		attribute.Int("loader.placed", report.Placed),
		attribute.Int("loader.failed", report.Failed),
	)

	l.log.Info("Загрузка завершена: локаций %d, размещено %d, отклонено %d",
		report.Blocks, report.Placed, report.Failed)
	return report
}

// translate переводит авторскую клетку в размещения мира.
// Фон клетки становится нетвёрдым объектом с z=-1, под всеми остальными.
func (l *Loader) translate(cell AuthoredCell) []*world.TilePlacement {
	var placements []*world.TilePlacement

	if cell.Terrain != "" {
		placements = append(placements, &world.TilePlacement{
			Type:  world.TileObject,
			Props: map[string]interface{}{"char": cell.Terrain, "z": -1},
		})
	}

	for _, obj := range cell.Objects {
		placement := &world.TilePlacement{
			ID:    obj.ID,
			Type:  world.TileObject,
			Solid: obj.Solid,
			Props: map[string]interface{}{
				"char": obj.Char,
				"fg":   obj.Fg,
				"bg":   obj.Bg,
				"z":    obj.Z,
			},
		}
		if obj.Wide {
			placement.Footprint = &world.Footprint{Width: 2, Height: 1}
		}
		placements = append(placements, placement)
	}

	for _, sprite := range cell.Sprites {
		placements = append(placements, &world.TilePlacement{
			ID:   sprite.ID,
			Type: world.TileSprite,
			Props: map[string]interface{}{
				"char": sprite.Char,
				"fg":   sprite.Fg,
				"bg":   sprite.Bg,
				"z":    sprite.Z,
			},
		})
	}

	return placements
}
