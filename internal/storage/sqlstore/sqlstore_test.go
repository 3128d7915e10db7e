package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copilot-ops/internal/config"
	"copilot-ops/internal/operation"
	"copilot-ops/internal/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), config.Storage{
		Driver:  DriverSQLite,
		Path:    filepath.Join(t.TempDir(), "copilot.db"),
		Migrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func sampleOperation(stage, title string) storage.StoredOperation {
	return storage.StoredOperation{
		StageName:       stage,
		Title:           title,
		Details:         "details of " + title,
		MinimumRequired: operation.MinimumRequiredV4,
		Content:         `{"stage_name":"` + stage + `"}`,
		Uploader:        "tester",
	}
}

func TestDSN(t *testing.T) {
	dsn, err := DSN(config.Storage{
		Driver:     DriverMySQL,
		DBUser:     "root",
		DBPassword: "secret",
		DBHost:     "db",
		DBPort:     3306,
		DBName:     "copilot",
	})
	require.NoError(t, err)
	assert.Contains(t, dsn, "root:secret@tcp(db:3306)/copilot")
	assert.Contains(t, dsn, "clientFoundRows=true")

	_, err = DSN(config.Storage{Driver: DriverSQLite})
	assert.Error(t, err)

	_, err = DSN(config.Storage{Driver: "postgres"})
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Migrate(context.Background()))
}

func TestOperationLifecycle(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	id, err := s.CreateOperation(ctx, sampleOperation("main_01-07", "1-7 - 永久关卡 - 坚壁清野"))
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := s.GetOperation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "main_01-07", got.StageName)
	assert.Equal(t, "tester", got.Uploader)
	assert.Zero(t, got.Views)
	assert.False(t, got.CreatedAt.IsZero())

	updated := sampleOperation("main_01-07", "renamed")
	require.NoError(t, s.UpdateOperation(ctx, id, updated))

	got, err = s.GetOperation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)

	// identical content still counts as a match
	require.NoError(t, s.UpdateOperation(ctx, id, updated))

	require.NoError(t, s.DeleteOperation(ctx, id))

	_, err = s.GetOperation(ctx, id)
	assert.ErrorIs(t, err, storage.ErrOperationNotFound)

	assert.ErrorIs(t, s.DeleteOperation(ctx, id), storage.ErrOperationNotFound)
	assert.ErrorIs(t, s.UpdateOperation(ctx, id, updated), storage.ErrOperationNotFound)
	assert.ErrorIs(t, s.IncrementViews(ctx, id), storage.ErrOperationNotFound)
}

func TestIncrementViews(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	created := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return created }

	id, err := s.CreateOperation(ctx, sampleOperation("main_01-07", "a"))
	require.NoError(t, err)

	s.now = func() time.Time { return created.Add(2 * time.Hour) }
	require.NoError(t, s.IncrementViews(ctx, id))
	require.NoError(t, s.IncrementViews(ctx, id))

	got, err := s.GetOperation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
	assert.InDelta(t, storage.HotScore(2, created, created.Add(2*time.Hour)), got.HotScore, 1e-9)
}

func TestQueryOperations(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	var ids []int64
	for _, title := range []string{"alpha 100%", "beta", "gamma_run"} {
		id, err := s.CreateOperation(ctx, sampleOperation("act1", title))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, s.IncrementViews(ctx, ids[1]))
	require.NoError(t, s.IncrementViews(ctx, ids[1]))
	require.NoError(t, s.IncrementViews(ctx, ids[0]))

	t.Run("order by id", func(t *testing.T) {
		ops, err := s.QueryOperations(ctx, storage.OperationQuery{OrderBy: storage.OrderByID})
		require.NoError(t, err)
		require.Len(t, ops, 3)
		assert.Equal(t, ids[2], ops[0].ID)
		assert.Equal(t, ids[0], ops[2].ID)
	})

	t.Run("order by views", func(t *testing.T) {
		ops, err := s.QueryOperations(ctx, storage.OperationQuery{OrderBy: storage.OrderByViews})
		require.NoError(t, err)
		require.Len(t, ops, 3)
		assert.Equal(t, ids[1], ops[0].ID)
		assert.Equal(t, ids[0], ops[1].ID)
	})

	t.Run("paging", func(t *testing.T) {
		ops, err := s.QueryOperations(ctx, storage.OperationQuery{OrderBy: storage.OrderByID, Page: 2, Limit: 2})
		require.NoError(t, err)
		require.Len(t, ops, 1)
		assert.Equal(t, ids[0], ops[0].ID)
	})

	t.Run("keyword escapes wildcards", func(t *testing.T) {
		q := storage.OperationQuery{Keyword: "%"}
		ops, err := s.QueryOperations(ctx, q)
		require.NoError(t, err)
		require.Len(t, ops, 1)
		assert.Equal(t, "alpha 100%", ops[0].Title)

		total, err := s.CountOperations(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		ops, err = s.QueryOperations(ctx, storage.OperationQuery{Keyword: "_"})
		require.NoError(t, err)
		require.Len(t, ops, 1)
		assert.Equal(t, "gamma_run", ops[0].Title)
	})

	t.Run("count all", func(t *testing.T) {
		total, err := s.CountOperations(ctx, storage.OperationQuery{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})
}

func TestUpsertLevels(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	levels := []operation.Level{
		{LevelID: "main_01-07", Name: "坚壁清野", CatOne: "主题曲", CatTwo: "1-7", CatThree: "永久关卡", Width: 9, Height: 6},
		{LevelID: "main_00-01", Name: "坍塌", CatOne: "主题曲", CatTwo: "0-1", Width: 8, Height: 5},
	}
	require.NoError(t, s.UpsertLevels(ctx, levels))

	levels[0].Name = "坚壁清野 (renamed)"
	require.NoError(t, s.UpsertLevels(ctx, levels[:1]))

	got, err := s.ListLevels(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "main_00-01", got[0].LevelID)
	assert.Equal(t, "坚壁清野 (renamed)", got[1].Name)
	assert.Equal(t, 9, got[1].Width)
}
