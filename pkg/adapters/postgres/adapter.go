// Package postgres provides a PostgreSQL database adapter for publishing
// processed datasets.
package postgres

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/adapter"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/transform"
)

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildPostgresDSN(cfg)

	a.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildPostgresDSN constructs a key=value PostgreSQL connection string.
func buildPostgresDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	if cfg.Schema != "" {
		dsn += fmt.Sprintf(" search_path=%s", cfg.Schema)
	}

	return dsn
}

// LoadCSV loads data from a CSV file into a table using COPY FROM STDIN.
// The table is recreated with columns typed from the first data row:
// integers become BIGINT, other numbers DOUBLE PRECISION, the rest TEXT.
func (a *Adapter) LoadCSV(ctx context.Context, tableName string, filePath string) error {
	if a.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	if err := adapter.ValidateTableName(tableName); err != nil {
		return err
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	file, err := os.Open(absPath) //nolint:gosec // path comes from the pipeline output
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	headers, err := csv.NewReader(file).Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	if err := a.createTable(ctx, tableName, headers); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to reset file: %w", err)
	}

	if err := a.copyFromCSV(ctx, tableName, file); err != nil {
		return fmt.Errorf("failed to copy data: %w", err)
	}

	return nil
}

// createTable drops and recreates tableName with one column per header name.
func (a *Adapter) createTable(ctx context.Context, tableName string, columns []string) error {
	ident := quoteTable(tableName)

	if _, err := a.DB.ExecContext(ctx, "DROP TABLE IF EXISTS "+ident); err != nil {
		return err
	}

	colDefs := make([]string, len(columns))
	for i, col := range columns {
		colDefs[i] = adapter.QuoteIdentifier(col) + " " + columnType(col)
	}

	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", ident, strings.Join(colDefs, ", "))
	_, err := a.DB.ExecContext(ctx, createSQL)
	return err
}

// copyFromCSV streams the file through COPY on the underlying pgx connection.
func (a *Adapter) copyFromCSV(ctx context.Context, tableName string, r io.Reader) error {
	conn, err := a.DB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	return conn.Raw(func(driverConn any) error {
		sc, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}

		copySQL := fmt.Sprintf("COPY %s FROM STDIN WITH (FORMAT csv, HEADER true)", quoteTable(tableName))
		tag, err := sc.Conn().PgConn().CopyFrom(ctx, r, copySQL)
		if err != nil {
			return err
		}
		a.Logger.Debug("copied rows", slog.String("table", tableName), slog.Int64("rows", tag.RowsAffected()))
		return nil
	})
}

// quoteTable quotes a plain or schema-qualified table name.
func quoteTable(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}

// columnType maps a processed-table header to its column type. Feature
// columns are standardized or indicator values and the label is 0 or 1.
func columnType(name string) string {
	switch {
	case name == transform.LabelColumn:
		return "BIGINT"
	case strings.HasPrefix(name, transform.NumericPrefix), strings.HasPrefix(name, transform.CategoricalPrefix):
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
