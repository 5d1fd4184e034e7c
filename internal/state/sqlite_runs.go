package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/core"
)

const runColumns = `id, input_path, status, started_at, completed_at, error,
	raw_rows, raw_cols, processed_rows, processed_cols, dropped_rows,
	output_path, artifact_path, artifact_hash`

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// CreateRun records the start of a pipeline run.
func (s *SQLiteStore) CreateRun(ctx context.Context, inputPath string) (*core.Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &core.Run{
		ID:        generateID(),
		InputPath: inputPath,
		Status:    core.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	s.logger.Debug("creating run", slog.String("id", run.ID), slog.String("input", inputPath))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_path, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.InputPath, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	return run, nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*core.Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// CompleteRun marks a run finished with the given status and statistics.
func (s *SQLiteStore) CompleteRun(ctx context.Context, id string, stats core.RunStats, status core.RunStatus, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	now := time.Now().UTC()
	var errorPtr *string
	if errMsg != "" {
		errorPtr = &errMsg
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, completed_at = ?, error = ?,
			raw_rows = ?, raw_cols = ?, processed_rows = ?, processed_cols = ?, dropped_rows = ?,
			output_path = ?, artifact_path = ?, artifact_hash = ?
		 WHERE id = ?`,
		string(status), now, errorPtr,
		stats.RawRows, stats.RawCols, stats.ProcessedRows, stats.ProcessedCols, stats.DroppedRows,
		stats.OutputPath, stats.ArtifactPath, stats.ArtifactHash,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	s.logger.Debug("completed run", slog.String("id", id), slog.String("status", string(status)))
	return nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*core.Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*core.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*core.Run, error) {
	run := &core.Run{}
	var status string
	var completedAt sql.NullTime
	var errMsg sql.NullString

	err := sc.Scan(
		&run.ID, &run.InputPath, &status, &run.StartedAt, &completedAt, &errMsg,
		&run.Stats.RawRows, &run.Stats.RawCols, &run.Stats.ProcessedRows, &run.Stats.ProcessedCols,
		&run.Stats.DroppedRows, &run.Stats.OutputPath, &run.Stats.ArtifactPath, &run.Stats.ArtifactHash,
	)
	if err != nil {
		return nil, err
	}

	run.Status = core.RunStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	return run, nil
}
