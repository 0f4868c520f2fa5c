package storage

import "context"

// SnapshotRepo определяет интерфейс хранилища JSON-снимков мира.
// Снимки адресуются именем мира; содержимое — непрозрачные байты,
// схему которых определяет сам мир.
type SnapshotRepo interface {
	// Save сохраняет снимок под указанным именем, перезаписывая существующий.
	Save(ctx context.Context, name string, payload []byte) error

	// Load загружает снимок. Второе значение false, если снимка нет.
	Load(ctx context.Context, name string) ([]byte, bool, error)

	// Delete удаляет снимок. Отсутствие снимка не является ошибкой.
	Delete(ctx context.Context, name string) error

	// List возвращает имена всех сохранённых снимков.
	List(ctx context.Context) ([]string, error)

	// Close закрывает хранилище.
	Close() error
}
