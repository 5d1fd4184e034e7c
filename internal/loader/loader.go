// Package loader reads raw CSV datasets into core tables.
//
// Cells are kept as text exactly as stored; type coercion is left to the
// cleaning stage.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/core"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Load reads the CSV file at path. The first record is the header.
func Load(path string) (*core.Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Kind: ErrFileNotFound, Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	t, err := Read(f)
	if err != nil {
		var le *Error
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return t, nil
}

// Read parses CSV text from r. A leading byte order mark is honoured and
// stripped; otherwise the input is decoded as UTF-8.
func Read(r io.Reader) (*core.Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = 0 // header fixes the width

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &Error{Kind: ErrParse, Err: errors.New("no header row")}
	}
	if err != nil {
		return nil, &Error{Kind: ErrParse, Err: err}
	}
	if err := checkHeader(header); err != nil {
		return nil, &Error{Kind: ErrParse, Err: err}
	}

	t := core.NewTable(header...)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &Error{Kind: ErrParse, Err: err}
		}
		t.Rows = append(t.Rows, append([]string(nil), rec...))
	}
	return t, nil
}

// checkHeader rejects blank and duplicate column names so lookups by name
// are unambiguous.
func checkHeader(header []string) error {
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("column %d has an empty name", i+1)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("duplicate column %q at positions %d and %d", name, prev+1, i+1)
		}
		seen[name] = i
	}
	return nil
}
