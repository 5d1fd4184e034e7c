package pipeline_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/export"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/loader"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/pipeline"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/prep"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/testutil"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/core"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	_ "github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/adapters/duckdb"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newPipeline builds a pipeline over the Telco sample in a fresh directory.
func newPipeline(t *testing.T, mutate func(*pipeline.Config)) (*pipeline.Pipeline, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	var out bytes.Buffer

	cfg := pipeline.Config{
		InputPath: testutil.WriteTelcoCSV(t, dir),
		OutputDir: filepath.Join(dir, "TelcoChurn_preprocessing"),
		Out:       &out,
		Logger:    testutil.NewTestLogger(t),
	}
	if mutate != nil {
		mutate(&cfg)
	}

	p, err := pipeline.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p, &out, dir
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestRun_TelcoSample(t *testing.T) {
	p, out, dir := newPipeline(t, nil)

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, testutil.TelcoRows, res.RawRows)
	assert.Equal(t, len(testutil.TelcoHeader), res.RawCols)
	assert.Equal(t, testutil.TelcoRetainedRows, res.ProcessedRows)
	assert.Equal(t, testutil.TelcoFeatureCols+1, res.ProcessedCols)
	assert.Equal(t, 1, res.Dropped)
	assert.Empty(t, res.RunID)

	outDir := filepath.Join(dir, "TelcoChurn_preprocessing")
	wantOut := "Loading raw data from: " + filepath.Join(dir, "telco.csv") + "\n" +
		"Raw shape: (10, 21)\n" +
		"Processed shape: (9, 38)\n" +
		"Saved processed data to: " + filepath.Join(outDir, export.DefaultProcessedFile) + "\n" +
		"Saved preprocessor to: " + filepath.Join(outDir, export.DefaultArtifactFile) + "\n"
	assert.Equal(t, wantOut, out.String())

	records := readCSV(t, res.Paths.Processed)
	require.Len(t, records, testutil.TelcoRetainedRows+1)
	header := records[0]
	assert.Equal(t, "num__tenure", header[0])
	assert.Equal(t, "label", header[len(header)-1])
	if diff := cmp.Diff(res.FeatureNames, header[:len(header)-1]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	var labels []string
	for _, r := range records[1:] {
		labels = append(labels, r[len(r)-1])
	}
	assert.Equal(t, []string{"0", "0", "1", "0", "1", "1", "0", "0", "1"}, labels)

	ct, err := transform.LoadFile(res.Paths.Artifact)
	require.NoError(t, err)
	assert.Equal(t, res.FeatureNames, ct.FeatureNames())
}

func TestRun_ArtifactReproducesOutput(t *testing.T) {
	p, _, dir := newPipeline(t, nil)

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	raw, err := loader.Load(filepath.Join(dir, "telco.csv"))
	require.NoError(t, err)
	cleaned, err := prep.Clean(raw, prep.DefaultOptions())
	require.NoError(t, err)

	ct, err := transform.LoadFile(res.Paths.Artifact)
	require.NoError(t, err)
	X, err := ct.Apply(cleaned.Features)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, &export.Processed{
		Columns: ct.FeatureNames(), Features: X, Labels: cleaned.Labels,
	}))

	written, err := os.ReadFile(res.Paths.Processed)
	require.NoError(t, err)
	assert.Equal(t, string(written), buf.String())
}

func TestRun_Ledger(t *testing.T) {
	ctx := context.Background()

	t.Run("completed run recorded", func(t *testing.T) {
		p, _, _ := newPipeline(t, func(c *pipeline.Config) {
			c.StatePath = filepath.Join(filepath.Dir(c.InputPath), ".churnprep", "state.db")
		})

		res, err := p.Run(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, res.RunID)

		run, err := p.Store().GetRun(ctx, res.RunID)
		require.NoError(t, err)
		assert.Equal(t, core.RunStatusCompleted, run.Status)
		assert.Equal(t, core.RunStats{
			RawRows: 10, RawCols: 21, ProcessedRows: 9, ProcessedCols: 38, DroppedRows: 1,
			OutputPath:   res.Paths.Processed,
			ArtifactPath: res.Paths.Artifact,
			ArtifactHash: res.Paths.ArtifactHash,
		}, run.Stats)
	})

	t.Run("failed run recorded", func(t *testing.T) {
		p, _, _ := newPipeline(t, func(c *pipeline.Config) {
			c.InputPath = filepath.Join(filepath.Dir(c.InputPath), "missing.csv")
			c.StatePath = ":memory:"
		})

		_, err := p.Run(ctx)
		require.ErrorIs(t, err, loader.ErrFileNotFound)

		runs, err := p.Store().ListRuns(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, core.RunStatusFailed, runs[0].Status)
		assert.Contains(t, runs[0].Error, "file not found")
	})
}

func TestRun_PublishDuckDB(t *testing.T) {
	p, out, _ := newPipeline(t, func(c *pipeline.Config) {
		c.Publish = &core.PublishConfig{
			Table: "telco_churn",
			Target: &core.TargetConfig{
				Type:     "duckdb",
				Database: filepath.Join(filepath.Dir(c.InputPath), "warehouse.duckdb"),
			},
		}
	})

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(testutil.TelcoRetainedRows), res.Published)
	assert.Contains(t, out.String(), "Published 9 rows to duckdb table telco_churn")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr error
	}{
		{
			name:    "missing coerce column",
			csv:     "customerID,tenure,Churn\nA,1,No\n",
			wantErr: core.ErrSchemaMismatch,
		},
		{
			name:    "missing numeric feature",
			csv:     "customerID,TotalCharges,MonthlyCharges,Churn\nA,1,2,No\n",
			wantErr: core.ErrSchemaMismatch,
		},
		{
			name:    "every row dropped",
			csv:     "customerID,tenure,MonthlyCharges,TotalCharges,Churn\nA,1,2, ,No\n",
			wantErr: transform.ErrNoRows,
		},
		{
			name:    "malformed csv",
			csv:     "customerID,tenure\nA,1,extra\n",
			wantErr: loader.ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			p, err := pipeline.New(pipeline.Config{
				InputPath: testutil.WriteFile(t, dir, "in.csv", tt.csv),
				OutputDir: filepath.Join(dir, "out"),
			})
			require.NoError(t, err)
			defer p.Close()

			_, err = p.Run(context.Background())
			require.ErrorIs(t, err, tt.wantErr)

			_, statErr := os.Stat(filepath.Join(dir, "out"))
			assert.True(t, os.IsNotExist(statErr), "no outputs on failure")
		})
	}
}

func TestRun_UnknownLabel(t *testing.T) {
	dir := t.TempDir()
	csvText := strings.Replace(testutil.TelcoCSV, "29.85,29.85,No", "29.85,29.85,Maybe", 1)
	p, err := pipeline.New(pipeline.Config{
		InputPath: testutil.WriteFile(t, dir, "in.csv", csvText),
		OutputDir: filepath.Join(dir, "out"),
	})
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Run(context.Background())
	var le *prep.LabelError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 1, le.Row)
	assert.Equal(t, "Maybe", le.Value)
}

func TestRun_Cancelled(t *testing.T) {
	p, out, dir := newPipeline(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())

	_, statErr := os.Stat(filepath.Join(dir, "TelcoChurn_preprocessing"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestNew_Defaults(t *testing.T) {
	ds := pipeline.DefaultDataset()
	assert.Equal(t, "customerID", ds.IDColumn)
	assert.Equal(t, "Churn", ds.LabelColumn)
	assert.Equal(t, "TotalCharges", ds.CoerceColumn)
	assert.Equal(t, []string{"tenure", "MonthlyCharges", "TotalCharges"}, ds.NumericFeatures)

}

func TestNew_StatePath(t *testing.T) {
	t.Run("creates missing directories", func(t *testing.T) {
		statePath := filepath.Join(t.TempDir(), ".churnprep", "ledger", "state.db")
		p, err := pipeline.New(pipeline.Config{StatePath: statePath})
		require.NoError(t, err)
		t.Cleanup(func() { _ = p.Close() })

		assert.NotNil(t, p.Store())
		assert.FileExists(t, statePath)
	})

	t.Run("parent is a file", func(t *testing.T) {
		blocker := testutil.WriteFile(t, t.TempDir(), "blocker", "x")
		_, err := pipeline.New(pipeline.Config{StatePath: filepath.Join(blocker, "state.db")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create state directory")
	})
}
