package state

import (
	"context"
	"testing"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.InitSchema())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Close())
}

func TestSQLiteStore_InitSchema(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Re-running is a no-op.
	require.NoError(t, store.InitSchema())
}

func TestSQLiteStore_FileBacked(t *testing.T) {
	path := t.TempDir() + "/state.db"
	ctx := context.Background()

	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(path))
	require.NoError(t, store.InitSchema())
	run, err := store.CreateRun(ctx, "telco.csv")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, reopened.Open(path))
	defer reopened.Close()
	require.NoError(t, reopened.InitSchema())

	got, err := reopened.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "telco.csv", got.InputPath)
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		status  RunStatus
		errMsg  string
		stats   RunStats
		wantErr string
	}{
		{
			name:   "completed",
			status: RunStatusCompleted,
			stats: RunStats{
				RawRows: 10, RawCols: 21, ProcessedRows: 9, ProcessedCols: 38, DroppedRows: 1,
				OutputPath: "out/telco.csv", ArtifactPath: "out/preprocessor.bin", ArtifactHash: "abc123",
			},
		},
		{
			name:    "failed",
			status:  RunStatusFailed,
			errMsg:  "schema mismatch",
			stats:   RunStats{RawRows: 10, RawCols: 20},
			wantErr: "schema mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)

			run, err := store.CreateRun(ctx, "telco.csv")
			require.NoError(t, err)
			assert.NotEmpty(t, run.ID)
			assert.Equal(t, RunStatusRunning, run.Status)

			got, err := store.GetRun(ctx, run.ID)
			require.NoError(t, err)
			assert.Equal(t, RunStatusRunning, got.Status)
			assert.Nil(t, got.CompletedAt)

			require.NoError(t, store.CompleteRun(ctx, run.ID, tt.stats, tt.status, tt.errMsg))

			got, err = store.GetRun(ctx, run.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.stats, got.Stats)
			assert.Equal(t, tt.wantErr, got.Error)
			require.NotNil(t, got.CompletedAt)
			assert.False(t, got.CompletedAt.Before(got.StartedAt))
		})
	}
}

func TestSQLiteStore_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	err = store.CompleteRun(ctx, "missing", RunStats{}, RunStatusCompleted, "")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var ids []string
	for _, in := range []string{"a.csv", "b.csv", "c.csv"} {
		run, err := store.CreateRun(ctx, in)
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)

	runs, err = store.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	ctx := context.Background()

	_, err := store.CreateRun(ctx, "x")
	assert.Error(t, err)
	_, err = store.GetRun(ctx, "x")
	assert.Error(t, err)
	_, err = store.ListRuns(ctx, 1)
	assert.Error(t, err)
	assert.Error(t, store.CompleteRun(ctx, "x", RunStats{}, RunStatusCompleted, ""))
	assert.Error(t, store.InitSchema())
	assert.NoError(t, store.Close())
}
