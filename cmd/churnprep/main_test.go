package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/cli"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/testutil"
)

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("version command error = %v", err)
	}

	if output := buf.String(); !strings.Contains(output, "churnprep") {
		t.Errorf("version output should contain 'churnprep', got: %s", output)
	}
}

func TestDefaultCommandRunsPipeline(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := testutil.WriteTelcoCSV(t, dir)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--input", input})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("root command error = %v", err)
	}

	if !strings.Contains(buf.String(), "Processed shape: (9, 38)") {
		t.Errorf("unexpected output: %s", buf.String())
	}
	for _, name := range []string{"telco_churn_preprocessed.csv", "preprocessor.bin"} {
		if _, err := os.Stat(filepath.Join(dir, "TelcoChurn_preprocessing", name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestMissingInput(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := cli.NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"-i", "does-not-exist.csv"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for a missing input file")
	}
}
