package transform

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/core"
	"gonum.org/v1/gonum/mat"
)

// Feature name prefixes.
const (
	NumericPrefix     = "num__"
	CategoricalPrefix = "cat__"
)

// LabelColumn is the header of the label column appended to processed tables.
const LabelColumn = "label"

var (
	// ErrNotFitted is returned by Apply before Fit or FitApply.
	ErrNotFitted = errors.New("transform: column transformer is not fitted")
	// ErrNoRows is returned when there are no rows to fit or transform.
	ErrNoRows = errors.New("transform: no rows")
)

// ColumnTransformer standardizes the numeric columns and one-hot encodes the
// categorical columns of a table, concatenating the results column-wise:
// numeric outputs first in declared order, then the indicators of each
// categorical column in declared order.
//
// Columns are looked up by name, so input tables may carry extra columns.
type ColumnTransformer struct {
	Numeric     []string
	Categorical []string

	Scalers  []StandardScaler
	Encoders []OneHotEncoder
}

// NewColumnTransformer creates an unfitted transformer. The two column groups
// must be non-empty in total, free of duplicates, and disjoint.
func NewColumnTransformer(numeric, categorical []string) (*ColumnTransformer, error) {
	if len(numeric)+len(categorical) == 0 {
		return nil, &core.SchemaError{Reason: "no feature columns"}
	}

	seen := make(map[string]bool, len(numeric)+len(categorical))
	for _, c := range slices.Concat(numeric, categorical) {
		if seen[c] {
			return nil, &core.SchemaError{Column: c, Reason: "column listed more than once"}
		}
		seen[c] = true
	}

	return &ColumnTransformer{
		Numeric:     slices.Clone(numeric),
		Categorical: slices.Clone(categorical),
	}, nil
}

// Partition returns the categorical feature set: every column that is neither
// numeric nor excluded, in column order. Every numeric column must be present.
func Partition(columns, numeric, exclude []string) ([]string, error) {
	var missing []string
	for _, n := range numeric {
		if !slices.Contains(columns, n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return nil, &core.SchemaError{Missing: missing}
	}

	var categorical []string
	for _, c := range columns {
		if slices.Contains(numeric, c) || slices.Contains(exclude, c) {
			continue
		}
		categorical = append(categorical, c)
	}
	return categorical, nil
}

// Fitted reports whether the transformer holds fitted parameters.
func (ct *ColumnTransformer) Fitted() bool {
	return len(ct.Scalers) == len(ct.Numeric) &&
		len(ct.Encoders) == len(ct.Categorical) &&
		len(ct.Scalers)+len(ct.Encoders) > 0
}

// Fit learns scaling statistics and category vocabularies from t, replacing
// any previously fitted parameters.
func (ct *ColumnTransformer) Fit(t *core.Table) error {
	if len(t.Rows) == 0 {
		return ErrNoRows
	}

	numIdx, catIdx, err := ct.locate(t)
	if err != nil {
		return err
	}

	scalers := make([]StandardScaler, len(ct.Numeric))
	for j, idx := range numIdx {
		values, err := parseColumn(t, idx)
		if err != nil {
			return err
		}
		scalers[j] = FitScaler(values)
	}

	encoders := make([]OneHotEncoder, len(ct.Categorical))
	col := make([]string, len(t.Rows))
	for j, idx := range catIdx {
		for i, row := range t.Rows {
			col[i] = row[idx]
		}
		encoders[j] = FitEncoder(col)
	}

	ct.Scalers = scalers
	ct.Encoders = encoders
	return nil
}

// Apply transforms t with the fitted parameters. It does not modify the
// transformer. Unknown categories produce all-zero indicators.
func (ct *ColumnTransformer) Apply(t *core.Table) (*mat.Dense, error) {
	if !ct.Fitted() {
		return nil, ErrNotFitted
	}
	if len(t.Rows) == 0 {
		return nil, ErrNoRows
	}

	numIdx, catIdx, err := ct.locate(t)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(len(t.Rows), ct.NumFeatures(), nil)

	for j, idx := range numIdx {
		values, err := parseColumn(t, idx)
		if err != nil {
			return nil, err
		}
		s := ct.Scalers[j]
		for i, v := range values {
			out.Set(i, j, s.Transform(v))
		}
	}

	offset := len(ct.Numeric)
	for j, idx := range catIdx {
		enc := ct.Encoders[j]
		for i, row := range t.Rows {
			if k, ok := enc.Index(row[idx]); ok {
				out.Set(i, offset+k, 1)
			}
		}
		offset += enc.Len()
	}

	return out, nil
}

// FitApply fits the transformer on t and returns the transformed matrix.
// Each call replaces the fitted parameters.
func (ct *ColumnTransformer) FitApply(t *core.Table) (*mat.Dense, error) {
	if err := ct.Fit(t); err != nil {
		return nil, err
	}
	return ct.Apply(t)
}

// NumFeatures returns the width of the transformed matrix.
func (ct *ColumnTransformer) NumFeatures() int {
	n := len(ct.Numeric)
	for _, e := range ct.Encoders {
		n += e.Len()
	}
	return n
}

// FeatureNames returns the generated output column names, e.g. num__tenure
// and cat__Contract_One year.
func (ct *ColumnTransformer) FeatureNames() []string {
	names := make([]string, 0, ct.NumFeatures())
	for _, c := range ct.Numeric {
		names = append(names, NumericPrefix+c)
	}
	for j, c := range ct.Categorical {
		if j >= len(ct.Encoders) {
			break
		}
		for _, cat := range ct.Encoders[j].Categories {
			names = append(names, CategoricalPrefix+c+"_"+cat)
		}
	}
	return names
}

// locate resolves the column positions of both groups in t.
func (ct *ColumnTransformer) locate(t *core.Table) (numIdx, catIdx []int, err error) {
	if err := t.Require(slices.Concat(ct.Numeric, ct.Categorical)...); err != nil {
		return nil, nil, err
	}
	for _, c := range ct.Numeric {
		numIdx = append(numIdx, t.Index(c))
	}
	for _, c := range ct.Categorical {
		catIdx = append(catIdx, t.Index(c))
	}
	return numIdx, catIdx, nil
}

// parseColumn parses column idx of t as finite floats.
func parseColumn(t *core.Table, idx int) ([]float64, error) {
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &core.SchemaError{
				Column: t.Columns[idx],
				Row:    i + 1,
				Reason: fmt.Sprintf("non-numeric value %q", row[idx]),
			}
		}
		out[i] = v
	}
	return out, nil
}
