package adapter

import (
	"context"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdapter records LoadCSV calls and serves queries from a sqlmock DB.
type fakeAdapter struct {
	BaseSQLAdapter
	connectErr error
	loaded     map[string]string
}

func (f *fakeAdapter) Connect(_ context.Context, cfg Config) error {
	f.Cfg = cfg
	return f.connectErr
}

func (f *fakeAdapter) LoadCSV(_ context.Context, table, path string) error {
	f.loaded[table] = path
	return nil
}

func TestUnknownAdapterError_Error(t *testing.T) {
	err := &UnknownAdapterError{
		Type:      "fake_db",
		Available: []string{"duckdb", "postgres"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "fake_db")
	assert.Contains(t, msg, "duckdb")
	assert.Contains(t, msg, "churnprep.yaml")
}

func TestRegister(t *testing.T) {
	Register("test_adapter_internal", func(_ *slog.Logger) Adapter { return nil })

	assert.True(t, IsRegistered("test_adapter_internal"))
	assert.Contains(t, ListAdapters(), "test_adapter_internal")

	factory, ok := Get("test_adapter_internal")
	assert.True(t, ok)
	assert.NotNil(t, factory)
}

func TestNewAdapter_Errors(t *testing.T) {
	_, err := NewAdapter(Config{}, nil)
	require.Error(t, err)
	assert.Equal(t, "adapter type not specified", err.Error())

	_, err = NewAdapter(Config{Type: "no_such_db"}, nil)
	var unknown *UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "no_such_db", unknown.Type)
}

func TestPublish(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(9))
	mock.ExpectClose()

	fake := &fakeAdapter{BaseSQLAdapter: BaseSQLAdapter{DB: db}, loaded: map[string]string{}}
	Register("fake_publish", func(_ *slog.Logger) Adapter { return fake })

	n, err := Publish(context.Background(), Config{Type: "fake_publish"}, "telco_churn", "out/processed.csv", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "out/processed.csv", fake.loaded["telco_churn"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublish_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Publish(ctx, Config{Type: "fake_publish"}, "bad name", "x.csv", nil)
	assert.ErrorContains(t, err, "invalid table name")

	_, err = Publish(ctx, Config{Type: "no_such_db"}, "t", "x.csv", nil)
	var unknown *UnknownAdapterError
	assert.ErrorAs(t, err, &unknown)

	Register("fake_unreachable", func(_ *slog.Logger) Adapter {
		return &fakeAdapter{connectErr: assert.AnError, loaded: map[string]string{}}
	})
	_, err = Publish(ctx, Config{Type: "fake_unreachable"}, "t", "x.csv", nil)
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "failed to connect to fake_unreachable")
}
