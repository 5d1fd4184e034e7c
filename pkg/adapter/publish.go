package adapter

import (
	"context"
	"fmt"
	"log/slog"
)

// Publish loads the CSV file at path into table on the target described by
// cfg, replacing any existing table, and returns the loaded row count.
func Publish(ctx context.Context, cfg Config, table, path string, logger *slog.Logger) (int64, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := ValidateTableName(table); err != nil {
		return 0, err
	}

	db, err := NewAdapter(cfg, logger)
	if err != nil {
		return 0, err
	}
	if err := db.Connect(ctx, cfg); err != nil {
		return 0, fmt.Errorf("failed to connect to %s: %w", cfg.Type, err)
	}
	defer func() { _ = db.Close() }()

	logger.Debug("publishing processed table",
		slog.String("target", cfg.Type),
		slog.String("table", table),
		slog.String("path", path))

	if err := db.LoadCSV(ctx, table, path); err != nil {
		return 0, fmt.Errorf("failed to load %s into %s: %w", path, table, err)
	}

	return CountRows(ctx, db, table)
}

// CountRows returns the number of rows in table.
func CountRows(ctx context.Context, db Adapter, table string) (int64, error) {
	if err := ValidateTableName(table); err != nil {
		return 0, err
	}

	rows, err := db.Query(ctx, "SELECT COUNT(*) FROM "+table)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to scan row count: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}
