package core

import (
	"context"
	"time"
)

// Store defines the interface for run ledger operations.
type Store interface {
	Open(path string) error
	Close() error
	InitSchema() error

	CreateRun(ctx context.Context, inputPath string) (*Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	CompleteRun(ctx context.Context, id string, stats RunStats, status RunStatus, errMsg string) error
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
}

// RunStatus represents the status of a pipeline run.
type RunStatus string

// Run status constants.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunStats holds the shape summary recorded for a finished run.
type RunStats struct {
	RawRows       int
	RawCols       int
	ProcessedRows int
	ProcessedCols int
	DroppedRows   int
	OutputPath    string
	ArtifactPath  string
	ArtifactHash  string
}

// Run represents one execution of the preprocessing pipeline.
type Run struct {
	ID          string
	InputPath   string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
	Stats       RunStats
}
