package commands

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/cli/output"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/transform"
	"github.com/spf13/cobra"
)

// maxInlineCategories caps how many categories text output lists per column.
const maxInlineCategories = 6

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [artifact]",
		Short: "Describe a saved transform artifact",
		Long: `Show the columns a transform artifact was fitted on: the mean and scale
of each standardized column and the vocabulary of each encoded column.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	path := filepath.Join(cc.Cfg.OutputDir, cc.Cfg.ArtifactFile)
	if len(args) == 1 {
		path = args[0]
	}

	ct, err := transform.LoadFile(path)
	if err != nil {
		return err
	}
	doc := describeArtifact(path, ct)

	r := cc.Renderer
	if r.Structured() {
		return r.Document(doc)
	}

	r.Header(1, "Artifact "+path)
	r.KeyValue("Features", doc.Features)
	r.Println()

	r.Header(2, "Standardized columns")
	numRows := make([][]any, len(doc.Numeric))
	for i, c := range doc.Numeric {
		numRows[i] = []any{c.Name, formatFloat(c.Mean), formatFloat(c.Scale)}
	}
	r.Table([]string{"Column", "Mean", "Scale"}, numRows)
	r.Println()

	r.Header(2, "Encoded columns")
	catRows := make([][]any, len(doc.Categorical))
	for i, c := range doc.Categorical {
		catRows[i] = []any{c.Name, len(c.Categories), summarizeCategories(c.Categories)}
	}
	r.Table([]string{"Column", "Categories", "Values"}, catRows)
	return nil
}

func describeArtifact(path string, ct *transform.ColumnTransformer) output.InspectOutput {
	doc := output.InspectOutput{
		Path:        path,
		Features:    ct.NumFeatures(),
		Numeric:     make([]output.NumericColumn, len(ct.Numeric)),
		Categorical: make([]output.CategoricalColumn, len(ct.Categorical)),
	}
	for i, name := range ct.Numeric {
		doc.Numeric[i] = output.NumericColumn{Name: name, Mean: ct.Scalers[i].Mean, Scale: ct.Scalers[i].Scale}
	}
	for i, name := range ct.Categorical {
		doc.Categorical[i] = output.CategoricalColumn{Name: name, Categories: ct.Encoders[i].Categories}
	}
	return doc
}

func summarizeCategories(cats []string) string {
	if len(cats) <= maxInlineCategories {
		return strings.Join(cats, ", ")
	}
	return strings.Join(cats[:maxInlineCategories], ", ") + ", ..."
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
