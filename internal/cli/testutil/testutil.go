// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	roottestutil "github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/testutil"
)

// SetupTestProject creates a temporary project holding the Telco sample as
// data/telco.csv and, when config is non-empty, a churnprep.yaml with that
// content. It returns the project directory.
func SetupTestProject(t *testing.T, config string) string {
	t.Helper()

	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "data")
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		t.Fatalf("failed to create directory %s: %v", dataDir, err)
	}
	roottestutil.WriteTelcoCSV(t, dataDir)

	if config != "" {
		if err := os.WriteFile(filepath.Join(tmpDir, "churnprep.yaml"), []byte(config), 0o600); err != nil {
			t.Fatalf("failed to create churnprep.yaml: %v", err)
		}
	}

	return tmpDir
}

// ProjectConfig is a churnprep.yaml pointing at the SetupTestProject sample.
const ProjectConfig = `input: data/telco.csv
output_dir: build
`

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
