package transform

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// ErrBadArtifact is returned when artifact bytes cannot be decoded into a
// fitted transformer.
var ErrBadArtifact = errors.New("transform: bad artifact")

// artifactMagic prefixes every artifact. The last byte is the format version.
var artifactMagic = []byte("CHPREP\x00\x01")

const artifactVersion = 1

// artifactDoc is the CBOR payload of an artifact.
type artifactDoc struct {
	Version     int        `cbor:"1,keyasint"`
	Numeric     []string   `cbor:"2,keyasint"`
	Means       []float64  `cbor:"3,keyasint"`
	Scales      []float64  `cbor:"4,keyasint"`
	Categorical []string   `cbor:"5,keyasint"`
	Categories  [][]string `cbor:"6,keyasint"`
}

var encMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{Sort: cbor.SortCoreDeterministic}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Marshal serializes a fitted transformer. Equal transformers produce equal
// bytes.
func Marshal(ct *ColumnTransformer) ([]byte, error) {
	if !ct.Fitted() {
		return nil, ErrNotFitted
	}

	doc := artifactDoc{
		Version:     artifactVersion,
		Numeric:     ct.Numeric,
		Means:       make([]float64, len(ct.Scalers)),
		Scales:      make([]float64, len(ct.Scalers)),
		Categorical: ct.Categorical,
		Categories:  make([][]string, len(ct.Encoders)),
	}
	for i, s := range ct.Scalers {
		doc.Means[i] = s.Mean
		doc.Scales[i] = s.Scale
	}
	for i, e := range ct.Encoders {
		doc.Categories[i] = e.Categories
	}

	payload, err := encMode.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode artifact: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}
	defer enc.Close()

	out := make([]byte, 0, len(artifactMagic)+len(payload)/2)
	out = append(out, artifactMagic...)
	return enc.EncodeAll(payload, out), nil
}

// Unmarshal restores a transformer serialized by Marshal.
func Unmarshal(data []byte) (*ColumnTransformer, error) {
	if !bytes.HasPrefix(data, artifactMagic) {
		return nil, fmt.Errorf("%w: missing header", ErrBadArtifact)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create decompressor: %w", err)
	}
	defer dec.Close()

	payload, err := dec.DecodeAll(data[len(artifactMagic):], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArtifact, err)
	}

	var doc artifactDoc
	if err := cbor.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArtifact, err)
	}
	if doc.Version != artifactVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadArtifact, doc.Version)
	}
	if len(doc.Means) != len(doc.Numeric) || len(doc.Scales) != len(doc.Numeric) ||
		len(doc.Categories) != len(doc.Categorical) {
		return nil, fmt.Errorf("%w: inconsistent parameter lengths", ErrBadArtifact)
	}

	if err := validateParams(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArtifact, err)
	}

	ct, err := NewColumnTransformer(doc.Numeric, doc.Categorical)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArtifact, err)
	}
	ct.Scalers = make([]StandardScaler, len(doc.Numeric))
	for i := range doc.Numeric {
		ct.Scalers[i] = StandardScaler{Mean: doc.Means[i], Scale: doc.Scales[i]}
	}
	ct.Encoders = make([]OneHotEncoder, len(doc.Categorical))
	for i, cats := range doc.Categories {
		ct.Encoders[i] = OneHotEncoder{Categories: cats}
	}
	return ct, nil
}

// validateParams checks the invariants Fit guarantees: finite means, finite
// non-zero scales, and strictly increasing vocabularies for Index lookups.
func validateParams(doc *artifactDoc) error {
	for i, name := range doc.Numeric {
		if m := doc.Means[i]; math.IsNaN(m) || math.IsInf(m, 0) {
			return fmt.Errorf("column %s: mean %v is not finite", name, m)
		}
		if sc := doc.Scales[i]; sc == 0 || math.IsNaN(sc) || math.IsInf(sc, 0) {
			return fmt.Errorf("column %s: scale %v is not finite and non-zero", name, sc)
		}
	}
	for i, name := range doc.Categorical {
		cats := doc.Categories[i]
		for j := 1; j < len(cats); j++ {
			if cats[j-1] >= cats[j] {
				return fmt.Errorf("column %s: categories not sorted and unique at %q", name, cats[j])
			}
		}
	}
	return nil
}

// LoadFile reads a transformer written from Marshal output.
func LoadFile(path string) (*ColumnTransformer, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return Unmarshal(data)
}
