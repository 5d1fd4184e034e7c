// Package pipeline runs the churn preprocessing stages end to end:
// load, clean and label, fit the feature transform, and save the outputs.
// It optionally records each run in a ledger and publishes the processed
// table to a database.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/export"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/loader"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/prep"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/state"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/adapter"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/core"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/transform"
	"gonum.org/v1/gonum/mat"
)

// Default locations used when nothing is configured.
const (
	DefaultInputPath = "WA_Fn-UseC_-Telco-Customer-Churn.csv"
	DefaultOutputDir = "TelcoChurn_preprocessing"
)

// DefaultNumericFeatures are the columns standardized rather than one-hot encoded.
var DefaultNumericFeatures = []string{"tenure", "MonthlyCharges", "TotalCharges"}

// DefaultDataset returns the column roles of the Telco churn dataset.
func DefaultDataset() core.DatasetConfig {
	return core.DatasetConfig{
		IDColumn:        prep.DefaultIDColumn,
		LabelColumn:     prep.DefaultLabelColumn,
		CoerceColumn:    prep.DefaultCoerceColumn,
		PositiveLabel:   prep.DefaultPositiveLabel,
		NegativeLabel:   prep.DefaultNegativeLabel,
		NumericFeatures: append([]string(nil), DefaultNumericFeatures...),
	}
}

// Config holds pipeline configuration.
type Config struct {
	// InputPath is the raw CSV file.
	InputPath string
	// OutputDir receives the processed CSV and the artifact.
	OutputDir string
	// Files names the outputs inside OutputDir (defaults if empty).
	Files export.Files
	// Dataset assigns column roles; empty fields take the Telco defaults.
	Dataset core.DatasetConfig
	// StatePath enables the run ledger when set.
	StatePath string
	// Publish loads the processed table into a database when enabled.
	Publish *core.PublishConfig
	// Out receives progress lines (optional, discarded if nil).
	Out io.Writer
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Pipeline runs the preprocessing stages.
type Pipeline struct {
	cfg    Config
	out    io.Writer
	logger *slog.Logger
	store  core.Store
}

// Result summarizes a successful run.
type Result struct {
	// RunID is empty when the ledger is disabled.
	RunID         string
	RawRows       int
	RawCols       int
	ProcessedRows int
	ProcessedCols int
	Dropped       int
	FeatureNames  []string
	Paths         *export.Paths
	// Published is the number of rows loaded into the publish table.
	Published int64
}

// New creates a pipeline. When cfg.StatePath is set the run ledger is opened
// and migrated; call Close to release it.
func New(cfg Config) (*Pipeline, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}

	if cfg.InputPath == "" {
		cfg.InputPath = DefaultInputPath
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.Files.Processed == "" {
		cfg.Files.Processed = export.DefaultProcessedFile
	}
	if cfg.Files.Artifact == "" {
		cfg.Files.Artifact = export.DefaultArtifactFile
	}
	cfg.Dataset = withDatasetDefaults(cfg.Dataset)

	p := &Pipeline{cfg: cfg, out: out, logger: logger}

	if cfg.StatePath != "" {
		// Ensure state directory exists
		if stateDir := filepath.Dir(cfg.StatePath); stateDir != "." && stateDir != "" {
			if err := os.MkdirAll(stateDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}

		store := state.NewSQLiteStore(logger)
		if err := store.Open(cfg.StatePath); err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		if err := store.InitSchema(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to initialize state schema: %w", err)
		}
		p.store = store
	}

	logger.Debug("initialized pipeline",
		slog.String("input", cfg.InputPath),
		slog.String("output_dir", cfg.OutputDir),
		slog.Bool("ledger", p.store != nil),
		slog.Bool("publish", cfg.Publish.Enabled()))

	return p, nil
}

// Close releases the run ledger, if open.
func (p *Pipeline) Close() error {
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}

// Store returns the run ledger, or nil when disabled.
func (p *Pipeline) Store() core.Store {
	return p.store
}

// Run executes all stages. The context is checked between stages and passed
// to ledger and publish calls.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.logger.Info("starting run", slog.String("input", p.cfg.InputPath))

	var run *core.Run
	if p.store != nil {
		var err error
		run, err = p.store.CreateRun(ctx, p.cfg.InputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create run: %w", err)
		}
		p.logger.Debug("created run", slog.String("run_id", run.ID))
	}

	res, runErr := p.run(ctx)
	if run != nil {
		res.RunID = run.ID
	}

	if run != nil {
		status, msg := core.RunStatusCompleted, ""
		if runErr != nil {
			status, msg = core.RunStatusFailed, runErr.Error()
		}
		// Record the outcome even if ctx was cancelled mid-run.
		if err := p.store.CompleteRun(context.WithoutCancel(ctx), run.ID, res.stats(), status, msg); err != nil {
			p.logger.Warn("failed to record run", slog.String("run_id", run.ID), slog.String("error", err.Error()))
		}
	}

	if runErr != nil {
		p.logger.Info("run failed", slog.String("error", runErr.Error()))
		return nil, runErr
	}

	p.logger.Info("run completed",
		slog.Int("rows", res.ProcessedRows),
		slog.Int("cols", res.ProcessedCols))
	return res, nil
}

// run performs the stages. It always returns a non-nil Result holding
// whatever was learned before a failure.
func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	res := &Result{}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	p.printf("Loading raw data from: %s\n", p.cfg.InputPath)
	raw, err := loader.Load(p.cfg.InputPath)
	if err != nil {
		return res, err
	}
	res.RawRows, res.RawCols = raw.Shape()
	p.printf("Raw shape: (%d, %d)\n", res.RawRows, res.RawCols)

	if err := ctx.Err(); err != nil {
		return res, err
	}
	cleaned, err := prep.Clean(raw, p.prepOptions(true))
	if err != nil {
		return res, err
	}
	res.Dropped = cleaned.Dropped

	if err := ctx.Err(); err != nil {
		return res, err
	}
	ct, X, err := p.fit(cleaned.Features)
	if err != nil {
		return res, err
	}

	processed := &export.Processed{
		Columns:  ct.FeatureNames(),
		Features: X,
		Labels:   cleaned.Labels,
	}
	res.FeatureNames = processed.Columns
	res.ProcessedRows, res.ProcessedCols = processed.Shape()
	p.printf("Processed shape: (%d, %d)\n", res.ProcessedRows, res.ProcessedCols)

	if err := ctx.Err(); err != nil {
		return res, err
	}
	paths, err := export.Save(p.cfg.OutputDir, p.cfg.Files, processed, ct)
	if err != nil {
		return res, err
	}
	res.Paths = paths
	p.printf("Saved processed data to: %s\n", paths.Processed)
	p.printf("Saved preprocessor to: %s\n", paths.Artifact)

	if p.cfg.Publish.Enabled() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		n, err := adapter.Publish(ctx, p.cfg.Publish.Target.AdapterConfig(), p.cfg.Publish.Table, paths.Processed, p.logger)
		if err != nil {
			return res, fmt.Errorf("failed to publish: %w", err)
		}
		res.Published = n
		p.printf("Published %d rows to %s table %s\n", n, p.cfg.Publish.Target.Type, p.cfg.Publish.Table)
	}

	return res, nil
}

// fit partitions the feature columns and fits the column transformer.
func (p *Pipeline) fit(features *core.Table) (*transform.ColumnTransformer, *mat.Dense, error) {
	numeric := p.cfg.Dataset.NumericFeatures
	categorical, err := transform.Partition(features.Columns, numeric, nil)
	if err != nil {
		return nil, nil, err
	}

	ct, err := transform.NewColumnTransformer(numeric, categorical)
	if err != nil {
		return nil, nil, err
	}

	X, err := ct.FitApply(features)
	if err != nil {
		if errors.Is(err, transform.ErrNoRows) {
			return nil, nil, fmt.Errorf("no rows left after cleaning %s: %w", p.cfg.Dataset.CoerceColumn, err)
		}
		return nil, nil, err
	}

	p.logger.Debug("fitted transform",
		slog.Int("numeric", len(numeric)),
		slog.Int("categorical", len(categorical)),
		slog.Int("features", ct.NumFeatures()))
	return ct, X, nil
}

func (p *Pipeline) prepOptions(requireAll bool) prep.Options {
	ds := p.cfg.Dataset
	return prep.Options{
		IDColumn:     ds.IDColumn,
		LabelColumn:  ds.LabelColumn,
		CoerceColumn: ds.CoerceColumn,
		Positive:     ds.PositiveLabel,
		Negative:     ds.NegativeLabel,
		RequireID:    requireAll,
		RequireLabel: requireAll,
		Logger:       p.logger,
	}
}

func (p *Pipeline) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (r *Result) stats() core.RunStats {
	s := core.RunStats{
		RawRows:       r.RawRows,
		RawCols:       r.RawCols,
		ProcessedRows: r.ProcessedRows,
		ProcessedCols: r.ProcessedCols,
		DroppedRows:   r.Dropped,
	}
	if r.Paths != nil {
		s.OutputPath = r.Paths.Processed
		s.ArtifactPath = r.Paths.Artifact
		s.ArtifactHash = r.Paths.ArtifactHash
	}
	return s
}

func withDatasetDefaults(ds core.DatasetConfig) core.DatasetConfig {
	def := DefaultDataset()
	if ds.IDColumn == "" {
		ds.IDColumn = def.IDColumn
	}
	if ds.LabelColumn == "" {
		ds.LabelColumn = def.LabelColumn
	}
	if ds.CoerceColumn == "" {
		ds.CoerceColumn = def.CoerceColumn
	}
	if ds.PositiveLabel == "" {
		ds.PositiveLabel = def.PositiveLabel
	}
	if ds.NegativeLabel == "" {
		ds.NegativeLabel = def.NegativeLabel
	}
	if len(ds.NumericFeatures) == 0 {
		ds.NumericFeatures = def.NumericFeatures
	}
	return ds
}
