package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"TEXT", ModeText, false},
		{" json ", ModeJSON, false},
		{"yaml", ModeYAML, false},
		{"markdown", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid output format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_AutoIsPlainForBuffers(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &bytes.Buffer{}, ModeAuto)

	assert.Equal(t, ModeText, r.Mode())
	assert.False(t, r.Structured())

	r.Header(1, "Artifact")
	r.KeyValue("Features", 37)
	assert.Equal(t, "Artifact\n  Features: 37\n", out.String())
}

func TestRenderer_Document(t *testing.T) {
	doc := RunOutput{
		Input:          "telco.csv",
		RawShape:       [2]int{10, 21},
		ProcessedShape: [2]int{9, 38},
		DroppedRows:    1,
		Features:       []string{"num__tenure"},
	}

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		r := NewRenderer(&out, &bytes.Buffer{}, ModeJSON)
		require.NoError(t, r.Document(doc))
		assert.Contains(t, out.String(), `"processed_shape": [`)
		assert.Contains(t, out.String(), `"dropped_rows": 1`)
		assert.NotContains(t, out.String(), "run_id")
	})

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer
		r := NewRenderer(&out, &bytes.Buffer{}, ModeYAML)
		require.NoError(t, r.Document(doc))
		assert.Contains(t, out.String(), "processed_shape: [9, 38]")
		assert.Contains(t, out.String(), "input: telco.csv")
	})
}

func TestRenderer_Table(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &bytes.Buffer{}, ModeText)

	r.Table([]string{"Column", "Mean"}, [][]any{{"tenure", 22.5}})
	assert.Contains(t, out.String(), "tenure")
	assert.Contains(t, out.String(), "22.5")
	assert.Contains(t, out.String(), "┌")
}

func TestRenderer_Warning(t *testing.T) {
	var errOut bytes.Buffer
	r := NewRenderer(&bytes.Buffer{}, &errOut, ModeText)
	r.Warning("ledger disabled")
	assert.Equal(t, "Warning: ledger disabled\n", errOut.String())
}
