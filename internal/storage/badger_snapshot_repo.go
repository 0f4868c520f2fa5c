package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"

	"github.com/annel0/teletext-world/internal/logging"
)

// snapshotKeyPrefix префикс ключей снимков в BadgerDB.
const snapshotKeyPrefix = "snapshot:"

// BadgerSnapshotRepo реализует SnapshotRepo поверх BadgerDB.
// Снимки сжимаются zstd перед записью: JSON мира с повторяющимися
// каноническими адресами сжимается в несколько раз.
type BadgerSnapshotRepo struct {
	db      *badger.DB
	mu      sync.RWMutex
	isReady bool
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	log     *logging.Logger
}

// NewBadgerSnapshotRepo открывает BadgerDB в поддиректории snapshots.
func NewBadgerSnapshotRepo(dataPath string) (*BadgerSnapshotRepo, error) {
	dbPath := filepath.Join(dataPath, "snapshots")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}

	log := logging.GetStorageLogger()
	log.Info("BadgerSnapshotRepo: хранилище открыто в %s", dbPath)
	return &BadgerSnapshotRepo{
		db:      db,
		isReady: true,
		encoder: encoder,
		decoder: decoder,
		log:     log,
	}, nil
}

// Save сжимает и сохраняет снимок.
func (r *BadgerSnapshotRepo) Save(ctx context.Context, name string, payload []byte) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.isReady {
		return fmt.Errorf("хранилище не готово")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	compressed := r.encoder.EncodeAll(payload, nil)

	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKeyPrefix+name), compressed)
	})
	if err != nil {
		return fmt.Errorf("запись снимка %q: %w", name, err)
	}

	r.log.Debug("Снимок %q сохранён (%d -> %d байт)", name, len(payload), len(compressed))
	return nil
}

// Load загружает и распаковывает снимок.
func (r *BadgerSnapshotRepo) Load(ctx context.Context, name string) ([]byte, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.isReady {
		return nil, false, fmt.Errorf("хранилище не готово")
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var compressed []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKeyPrefix + name))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("чтение снимка %q: %w", name, err)
	}

	payload, err := r.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false, fmt.Errorf("распаковка снимка %q: %w", name, err)
	}
	return payload, true, nil
}

// Delete удаляет снимок.
func (r *BadgerSnapshotRepo) Delete(ctx context.Context, name string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(snapshotKeyPrefix + name))
	})
	if err != nil {
		return fmt.Errorf("удаление снимка %q: %w", name, err)
	}
	return nil
}

// List возвращает имена всех снимков.
func (r *BadgerSnapshotRepo) List(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var names []string
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(snapshotKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			names = append(names, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("список снимков: %w", err)
	}
	return names, nil
}

// Close закрывает хранилище.
func (r *BadgerSnapshotRepo) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isReady {
		return nil
	}
	r.isReady = false
	r.encoder.Close()
	r.decoder.Close()
	return r.db.Close()
}
