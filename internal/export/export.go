// Package export writes the processed dataset and the fitted transform to disk.
package export

import (
	"bufio"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/transform"
	"gonum.org/v1/gonum/mat"
)

// Default output file names.
const (
	DefaultProcessedFile = "telco_churn_preprocessed.csv"
	DefaultArtifactFile  = "preprocessor.bin"
)

// LabelColumn is the header of the appended label column.
const LabelColumn = transform.LabelColumn

// ErrIO is the error kind for filesystem failures while saving.
var ErrIO = errors.New("i/o error")

// Error carries a save failure with the path and operation involved.
type Error struct {
	Path string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrIO, e.Op, e.Path, e.Err)
}

// Unwrap returns ErrIO and the cause.
func (e *Error) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// Processed is a model-ready dataset: the transformed feature matrix, its
// column names and, when available, the row-aligned labels.
type Processed struct {
	Columns  []string
	Features *mat.Dense
	// Labels is nil when the source had no label column.
	Labels []int
}

// Shape returns rows and columns including the label column when present.
func (p *Processed) Shape() (rows, cols int) {
	rows, cols = p.Features.Dims()
	if p.Labels != nil {
		cols++
	}
	return rows, cols
}

// WriteCSV writes p with a header row. Floats use the shortest decimal form
// that parses back to the same value.
func WriteCSV(w io.Writer, p *Processed) error {
	rows, cols := p.Features.Dims()
	if len(p.Columns) != cols {
		return fmt.Errorf("processed table has %d names for %d columns", len(p.Columns), cols)
	}
	if p.Labels != nil && len(p.Labels) != rows {
		return fmt.Errorf("processed table has %d labels for %d rows", len(p.Labels), rows)
	}

	cw := csv.NewWriter(w)

	header := append([]string(nil), p.Columns...)
	if p.Labels != nil {
		header = append(header, LabelColumn)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for i := range rows {
		for j := range cols {
			record[j] = strconv.FormatFloat(p.Features.At(i, j), 'g', -1, 64)
		}
		if p.Labels != nil {
			record[cols] = strconv.Itoa(p.Labels[i])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Files names the two outputs inside the output directory.
type Files struct {
	Processed string
	Artifact  string
}

// DefaultFiles returns the standard output names.
func DefaultFiles() Files {
	return Files{Processed: DefaultProcessedFile, Artifact: DefaultArtifactFile}
}

// Paths reports where Save wrote its outputs.
type Paths struct {
	Processed string
	Artifact  string
	// ArtifactHash is the hex SHA-256 of the artifact bytes.
	ArtifactHash string
}

// Save creates dir if needed, then writes the processed CSV followed by the
// serialized transform. A failure after the CSV is written leaves it in place.
func Save(dir string, files Files, p *Processed, ct *transform.ColumnTransformer) (*Paths, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, &Error{Path: dir, Op: "create directory", Err: err}
	}

	paths := &Paths{
		Processed: filepath.Join(dir, files.Processed),
		Artifact:  filepath.Join(dir, files.Artifact),
	}

	if err := writeProcessed(paths.Processed, p); err != nil {
		return nil, err
	}

	data, err := transform.Marshal(ct)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize transform: %w", err)
	}
	if err := os.WriteFile(paths.Artifact, data, 0o600); err != nil {
		return nil, &Error{Path: paths.Artifact, Op: "write", Err: err}
	}

	sum := sha256.Sum256(data)
	paths.ArtifactHash = hex.EncodeToString(sum[:])
	return paths, nil
}

// WriteProcessedFile writes p as CSV to path, creating its directory.
func WriteProcessedFile(path string, p *Processed) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return &Error{Path: filepath.Dir(path), Op: "create directory", Err: err}
	}
	return writeProcessed(path, p)
}

func writeProcessed(path string, p *Processed) (err error) {
	f, err := os.Create(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return &Error{Path: path, Op: "create", Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &Error{Path: path, Op: "close", Err: cerr}
		}
	}()

	bw := bufio.NewWriter(f)
	if err := WriteCSV(bw, p); err != nil {
		return &Error{Path: path, Op: "write", Err: err}
	}
	if err := bw.Flush(); err != nil {
		return &Error{Path: path, Op: "write", Err: err}
	}
	return nil
}
