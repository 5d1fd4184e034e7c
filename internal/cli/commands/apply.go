package commands

import (
	"path/filepath"
	"strings"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/cli/output"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/pipeline"
	"github.com/spf13/cobra"
)

// ApplyOptions holds options for the apply command.
type ApplyOptions struct {
	Artifact string
	Out      string
}

// NewApplyCommand creates the apply command.
func NewApplyCommand() *cobra.Command {
	opts := &ApplyOptions{}

	cmd := &cobra.Command{
		Use:   "apply <input.csv>",
		Short: "Transform new data with a saved artifact",
		Long: `Clean a CSV the same way as run and transform it with a previously
fitted artifact. The label and identifier columns are optional. Categories
not seen when the artifact was fitted encode as all zeros.`,
		Example: `  # Uses <output_dir>/preprocessor.bin and writes next to the input
  churnprep apply new_customers.csv

  churnprep apply new.csv --artifact build/preprocessor.bin --out new_features.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Artifact, "artifact", "", "Path to the transform artifact (default: <output_dir>/<artifact_file>)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Path of the processed CSV (default: <input>_preprocessed.csv)")

	return cmd
}

func runApply(cmd *cobra.Command, input string, opts *ApplyOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cc.Cfg

	artifact := opts.Artifact
	if artifact == "" {
		artifact = filepath.Join(cfg.OutputDir, cfg.ArtifactFile)
	}
	out := opts.Out
	if out == "" {
		out = DefaultApplyOutput(input)
	}

	res, err := pipeline.Apply(cmd.Context(), pipeline.ApplyConfig{
		InputPath:    input,
		ArtifactPath: artifact,
		OutputPath:   out,
		Dataset:      cfg.Dataset,
		Out:          cc.Progress(cmd),
		Logger:       cc.Logger,
	})
	if err != nil {
		return err
	}

	if !cc.Renderer.Structured() {
		if !res.HasLabels {
			cc.Renderer.Warning("input has no " + cfg.Dataset.LabelColumn + " column; output has no label")
		}
		return nil
	}
	return cc.Renderer.Document(output.ApplyOutput{
		Input:          input,
		Artifact:       artifact,
		Output:         out,
		ProcessedShape: [2]int{res.Rows, res.Cols},
		DroppedRows:    res.Dropped,
		Labelled:       res.HasLabels,
	})
}

// DefaultApplyOutput derives the output path for input: data/new.csv
// becomes data/new_preprocessed.csv.
func DefaultApplyOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_preprocessed.csv"
}
