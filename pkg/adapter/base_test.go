package adapter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockBase(t *testing.T) (*BaseSQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &BaseSQLAdapter{DB: db}, mock
}

func TestBaseSQLAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	base := &BaseSQLAdapter{}

	assert.False(t, base.IsConnected())
	assert.NoError(t, base.Close())

	err := base.Exec(ctx, "SELECT 1")
	assert.EqualError(t, err, "database connection not established")

	rows, err := base.Query(ctx, "SELECT 1")
	assert.Nil(t, rows)
	assert.EqualError(t, err, "database connection not established")
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		errMsg    string
	}{
		{
			name: "exec success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE churn").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			sql: "CREATE TABLE churn (label INT)",
		},
		{
			name: "exec with error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)
			},
			sql:    "INVALID SQL",
			errMsg: "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, mock := newMockBase(t)
			tt.setupMock(mock)

			err := base.Exec(context.Background(), tt.sql)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.ErrorIs(t, err, assert.AnError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBaseSQLAdapter_Query(t *testing.T) {
	t.Run("query success", func(t *testing.T) {
		base, mock := newMockBase(t)
		mock.ExpectQuery("SELECT label").WillReturnRows(
			sqlmock.NewRows([]string{"label"}).AddRow(1).AddRow(0))

		rows, err := base.Query(context.Background(), "SELECT label FROM churn")
		require.NoError(t, err)
		defer func() { _ = rows.Close() }()

		var labels []int
		for rows.Next() {
			var l int
			require.NoError(t, rows.Scan(&l))
			labels = append(labels, l)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []int{1, 0}, labels)
	})

	t.Run("query with error", func(t *testing.T) {
		base, mock := newMockBase(t)
		mock.ExpectQuery("INVALID").WillReturnError(assert.AnError)

		rows, err := base.Query(context.Background(), "INVALID SQL")
		require.Error(t, err)
		assert.Nil(t, rows)
		assert.Contains(t, err.Error(), "failed to execute query")
	})
}

func TestBaseSQLAdapter_Close(t *testing.T) {
	base, mock := newMockBase(t)
	mock.ExpectClose()

	assert.True(t, base.IsConnected())
	require.NoError(t, base.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		table string
		valid bool
	}{
		{"telco_churn", true},
		{"analytics.telco_churn", true},
		{"_staging", true},
		{"", false},
		{"1table", false},
		{"a.b.c", false},
		{"churn; DROP TABLE x", false},
		{"my table", false},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			err := ValidateTableName(tt.table)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"num__tenure"`, QuoteIdentifier("num__tenure"))
	assert.Equal(t, `"cat__Contract_One year"`, QuoteIdentifier("cat__Contract_One year"))
	assert.Equal(t, `"a""b"`, QuoteIdentifier(`a"b`))
}
