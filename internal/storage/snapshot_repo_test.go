package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoContract проверяет общий контракт SnapshotRepo для любой реализации.
func repoContract(t *testing.T, repo SnapshotRepo) {
	t.Helper()
	ctx := context.Background()

	// Пустой репозиторий
	_, found, err := repo.Load(ctx, "main")
	require.NoError(t, err)
	assert.False(t, found, "отсутствующий снимок — не ошибка")

	names, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	// Сохранение и загрузка
	payload := []byte(`{"cells":[]}`)
	require.NoError(t, repo.Save(ctx, "main", payload))

	loaded, found, err := repo.Load(ctx, "main")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, payload, loaded)

	// Перезапись под тем же именем
	updated := []byte(`{"cells":[{"canonical":"L300-AA10","tiles":[]}]}`)
	require.NoError(t, repo.Save(ctx, "main", updated))

	loaded, found, err = repo.Load(ctx, "main")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, updated, loaded, "повторное сохранение должно перезаписывать")

	// Список имён
	require.NoError(t, repo.Save(ctx, "backup", payload))
	names, err = repo.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"main", "backup"}, names)

	// Удаление
	require.NoError(t, repo.Delete(ctx, "backup"))
	_, found, err = repo.Load(ctx, "backup")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Delete(ctx, "missing"), "удаление несуществующего снимка — no-op")
}

func TestMemorySnapshotRepo_Contract(t *testing.T) {
	repo := NewMemorySnapshotRepo()
	defer repo.Close()
	repoContract(t, repo)
}

func TestBadgerSnapshotRepo_Contract(t *testing.T) {
	repo, err := NewBadgerSnapshotRepo(t.TempDir())
	require.NoError(t, err)
	defer repo.Close()
	repoContract(t, repo)
}

func TestBadgerSnapshotRepo_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewBadgerSnapshotRepo(dir)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, "main", []byte(`{"cells":[]}`)))
	require.NoError(t, repo.Close())

	reopened, err := NewBadgerSnapshotRepo(dir)
	require.NoError(t, err)
	defer reopened.Close()

	payload, found, err := reopened.Load(ctx, "main")
	require.NoError(t, err)
	require.True(t, found, "снимок должен переживать перезапуск хранилища")
	assert.Equal(t, []byte(`{"cells":[]}`), payload)
}

func TestMemorySnapshotRepo_CopiesPayload(t *testing.T) {
	repo := NewMemorySnapshotRepo()
	defer repo.Close()
	ctx := context.Background()

	payload := []byte("abc")
	require.NoError(t, repo.Save(ctx, "main", payload))
	payload[0] = 'X'

	loaded, found, err := repo.Load(ctx, "main")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("abc"), loaded, "репозиторий должен хранить копию данных")
}
