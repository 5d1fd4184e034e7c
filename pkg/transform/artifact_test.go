package transform_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifact_RoundTrip(t *testing.T) {
	ct, features, X := fitTelco(t)

	data, err := transform.Marshal(ct)
	require.NoError(t, err)

	restored, err := transform.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, ct.FeatureNames(), restored.FeatureNames())

	got, err := restored.Apply(features)
	require.NoError(t, err)

	rows, cols := X.Dims()
	for i := range rows {
		for j := range cols {
			assert.Equal(t, math.Float64bits(X.At(i, j)), math.Float64bits(got.At(i, j)),
				"cell (%d, %d)", i, j)
		}
	}
}

func TestArtifact_Deterministic(t *testing.T) {
	ct, _, _ := fitTelco(t)

	a, err := transform.Marshal(ct)
	require.NoError(t, err)
	b, err := transform.Marshal(ct)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestArtifact_LoadFile(t *testing.T) {
	ct, _, _ := fitTelco(t)
	path := filepath.Join(t.TempDir(), "preprocessor.bin")

	data, err := transform.Marshal(ct)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	restored, err := transform.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ct.Scalers, restored.Scalers)
	assert.Equal(t, ct.Encoders, restored.Encoders)
}

func TestArtifact_Errors(t *testing.T) {
	ct, _, _ := fitTelco(t)
	good, err := transform.Marshal(ct)
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"wrong magic", []byte("NOTANARTIFACT")},
		{"truncated", good[:len(good)/2]},
		{"garbage payload", append([]byte("CHPREP\x00\x01"), 1, 2, 3, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transform.Unmarshal(tt.data)
			assert.ErrorIs(t, err, transform.ErrBadArtifact)
		})
	}

	_, err = transform.LoadFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestUnmarshal_InvalidParams(t *testing.T) {
	tests := []struct {
		name       string
		scale      float64
		mean       float64
		categories []string
		errSubstr  string
	}{
		{"zero scale", 0, 1, []string{"No", "Yes"}, "scale 0"},
		{"infinite scale", math.Inf(1), 1, []string{"No", "Yes"}, "scale +Inf"},
		{"nan scale", math.NaN(), 1, []string{"No", "Yes"}, "scale NaN"},
		{"infinite mean", 1, math.Inf(-1), []string{"No", "Yes"}, "mean -Inf"},
		{"unsorted categories", 1, 0, []string{"Yes", "No"}, `not sorted and unique at "No"`},
		{"duplicate categories", 1, 0, []string{"No", "No", "Yes"}, `not sorted and unique at "No"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := transform.NewColumnTransformer([]string{"tenure"}, []string{"Partner"})
			require.NoError(t, err)
			ct.Scalers = []transform.StandardScaler{{Mean: tt.mean, Scale: tt.scale}}
			ct.Encoders = []transform.OneHotEncoder{{Categories: tt.categories}}

			data, err := transform.Marshal(ct)
			require.NoError(t, err)

			_, err = transform.Unmarshal(data)
			require.ErrorIs(t, err, transform.ErrBadArtifact)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestMarshal_NotFitted(t *testing.T) {
	ct, err := transform.NewColumnTransformer([]string{"a"}, nil)
	require.NoError(t, err)

	_, err = transform.Marshal(ct)
	assert.ErrorIs(t, err, transform.ErrNotFitted)
}
