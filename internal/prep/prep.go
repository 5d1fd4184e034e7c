// Package prep cleans a raw churn table and derives the binary label.
//
// Cleaning coerces one text column to numbers and drops every row whose
// value does not coerce. The drop is silent: it is reported through
// Result.Dropped and a debug log line only.
package prep

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/core"
)

// Default column names of the Telco churn dataset.
const (
	DefaultIDColumn      = "customerID"
	DefaultLabelColumn   = "Churn"
	DefaultCoerceColumn  = "TotalCharges"
	DefaultPositiveLabel = "Yes"
	DefaultNegativeLabel = "No"
)

// Options controls which columns are cleaned, labelled and removed.
type Options struct {
	IDColumn     string
	LabelColumn  string
	CoerceColumn string
	Positive     string
	Negative     string

	// RequireID and RequireLabel make the identifier and label columns
	// mandatory. Fitting needs both; reapplying a saved transform on new
	// data needs neither.
	RequireID    bool
	RequireLabel bool

	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// DefaultOptions returns the options used for fitting on the Telco dataset.
func DefaultOptions() Options {
	return Options{
		IDColumn:     DefaultIDColumn,
		LabelColumn:  DefaultLabelColumn,
		CoerceColumn: DefaultCoerceColumn,
		Positive:     DefaultPositiveLabel,
		Negative:     DefaultNegativeLabel,
		RequireID:    true,
		RequireLabel: true,
	}
}

// Result is the cleaned feature table and its row-aligned labels.
type Result struct {
	// Features excludes the identifier and label columns.
	Features *core.Table
	// Labels is nil when the input had no label column.
	Labels []int
	// Dropped counts rows removed because the coerced column was missing.
	Dropped int
}

// Clean coerces, filters and labels t. The input table is not modified.
func Clean(t *core.Table, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	required := []string{opts.CoerceColumn}
	if opts.RequireID {
		required = append(required, opts.IDColumn)
	}
	if opts.RequireLabel {
		required = append(required, opts.LabelColumn)
	}
	if err := t.Require(required...); err != nil {
		return nil, err
	}

	raw, err := t.Column(opts.CoerceColumn)
	if err != nil {
		return nil, err
	}
	values := CoerceNumeric(raw)

	kept := t.Filter(func(i int) bool { return !math.IsNaN(values[i]) })
	dropped := len(t.Rows) - len(kept.Rows)

	// Write the coerced value back in canonical form so later stages parse
	// exactly what was kept.
	coerceIdx := kept.Index(opts.CoerceColumn)
	j := 0
	keptSource := make([]int, 0, len(kept.Rows))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		kept.Rows[j][coerceIdx] = strconv.FormatFloat(v, 'g', -1, 64)
		keptSource = append(keptSource, i)
		j++
	}

	logger.Debug("cleaned table",
		slog.String("column", opts.CoerceColumn),
		slog.Int("input_rows", len(t.Rows)),
		slog.Int("dropped_rows", dropped))

	res := &Result{Dropped: dropped}

	if kept.Has(opts.LabelColumn) {
		res.Labels, err = deriveLabels(kept, keptSource, opts)
		if err != nil {
			return nil, err
		}
	}

	res.Features = kept.Drop(opts.IDColumn, opts.LabelColumn)
	return res, nil
}

// CoerceNumeric parses each value as a decimal float64. Values that are
// blank, not numeric, not finite, or written in Go-only forms (hex floats,
// underscore digit separators) become NaN, the missing sentinel.
func CoerceNumeric(values []string) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		v = strings.TrimSpace(v)
		if strings.ContainsAny(v, "_xXpP") {
			out[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			out[i] = math.NaN()
			continue
		}
		out[i] = f
	}
	return out
}

// deriveLabels maps the label column to 1/0. source maps each kept row back
// to its input position for error reporting.
func deriveLabels(t *core.Table, source []int, opts Options) ([]int, error) {
	col, err := t.Column(opts.LabelColumn)
	if err != nil {
		return nil, err
	}

	labels := make([]int, len(col))
	for i, v := range col {
		switch strings.TrimSpace(v) {
		case opts.Positive:
			labels[i] = 1
		case opts.Negative:
			labels[i] = 0
		default:
			return nil, &LabelError{Column: opts.LabelColumn, Row: source[i] + 1, Value: v}
		}
	}
	return labels, nil
}

// LabelError is returned when the label column holds a value that is
// neither the positive nor the negative label.
type LabelError struct {
	Column string
	// Row is the 1-based position among the input data rows.
	Row   int
	Value string
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("unexpected %s value %q at row %d", e.Column, e.Value, e.Row)
}
