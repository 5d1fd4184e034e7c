package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/export"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/loader"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/prep"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/core"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/transform"
)

// ApplyConfig configures reapplying a saved transform to new data.
type ApplyConfig struct {
	InputPath    string
	ArtifactPath string
	OutputPath   string
	// Dataset assigns column roles; empty fields take the Telco defaults.
	// The identifier and label columns are optional in the input.
	Dataset core.DatasetConfig
	Out     io.Writer
	Logger  *slog.Logger
}

// ApplyResult summarizes an apply run.
type ApplyResult struct {
	Rows      int
	Cols      int
	Dropped   int
	HasLabels bool
}

// Apply loads InputPath, cleans it the same way as Run, transforms it with
// the artifact at ArtifactPath, and writes the result to OutputPath.
// Categories unseen at fit time encode as all zeros.
func Apply(ctx context.Context, cfg ApplyConfig) (*ApplyResult, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	ds := withDatasetDefaults(cfg.Dataset)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ct, err := transform.LoadFile(cfg.ArtifactPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded transform", slog.String("path", cfg.ArtifactPath), slog.Int("features", ct.NumFeatures()))

	_, _ = fmt.Fprintf(out, "Loading raw data from: %s\n", cfg.InputPath)
	raw, err := loader.Load(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	rows, cols := raw.Shape()
	_, _ = fmt.Fprintf(out, "Raw shape: (%d, %d)\n", rows, cols)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleaned, err := prep.Clean(raw, prep.Options{
		IDColumn:     ds.IDColumn,
		LabelColumn:  ds.LabelColumn,
		CoerceColumn: ds.CoerceColumn,
		Positive:     ds.PositiveLabel,
		Negative:     ds.NegativeLabel,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	X, err := ct.Apply(cleaned.Features)
	if err != nil {
		return nil, err
	}

	processed := &export.Processed{
		Columns:  ct.FeatureNames(),
		Features: X,
		Labels:   cleaned.Labels,
	}
	res := &ApplyResult{Dropped: cleaned.Dropped, HasLabels: cleaned.Labels != nil}
	res.Rows, res.Cols = processed.Shape()
	_, _ = fmt.Fprintf(out, "Processed shape: (%d, %d)\n", res.Rows, res.Cols)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := export.WriteProcessedFile(cfg.OutputPath, processed); err != nil {
		return nil, err
	}
	_, _ = fmt.Fprintf(out, "Saved processed data to: %s\n", cfg.OutputPath)

	return res, nil
}
