package commands

import (
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/cli/output"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Preprocess the raw churn CSV",
		Long: `Load the raw churn CSV, clean and label it, fit the feature transform,
and save the processed CSV and the fitted transform artifact.

Rows whose TotalCharges is blank or not numeric are dropped. The label
column must hold only Yes or No.`,
		Example: `  # Use churnprep.yaml or the defaults
  churnprep run

  # Explicit input and output directory
  churnprep run -i data/telco.csv --output-dir build/

  # Record the run in a ledger and emit JSON for CI
  churnprep run --state .churnprep/state.db -o json`,
		Args: cobra.NoArgs,
		RunE: runPipeline,
	}
}

// RunPipeline executes the preprocessing pipeline for cmd. The root command
// uses it as its default action.
func RunPipeline(cmd *cobra.Command, args []string) error {
	return runPipeline(cmd, args)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cc.Cfg

	p, err := pipeline.New(pipeline.Config{
		InputPath: cfg.InputPath,
		OutputDir: cfg.OutputDir,
		Files:     cfg.Files(),
		Dataset:   cfg.Dataset,
		StatePath: cfg.StatePath,
		Publish:   cfg.Publish,
		Out:       cc.Progress(cmd),
		Logger:    cc.Logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	res, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	if !cc.Renderer.Structured() {
		return nil
	}
	return cc.Renderer.Document(output.RunOutput{
		RunID:          res.RunID,
		Input:          cfg.InputPath,
		RawShape:       [2]int{res.RawRows, res.RawCols},
		ProcessedShape: [2]int{res.ProcessedRows, res.ProcessedCols},
		DroppedRows:    res.Dropped,
		ProcessedPath:  res.Paths.Processed,
		ArtifactPath:   res.Paths.Artifact,
		ArtifactSHA256: res.Paths.ArtifactHash,
		Features:       res.FeatureNames,
		PublishedRows:  res.Published,
	})
}
