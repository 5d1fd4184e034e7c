package duckdb

import (
	"fmt"
	"regexp"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds DuckDB-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Extensions to install and load (e.g., "json", "parquet")
	Extensions []string `mapstructure:"extensions"`

	// Settings to apply at session level (e.g., memory_limit, threads)
	Settings map[string]string `mapstructure:"settings"`
}

var settingNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// parseParams decodes the raw params map. Scalar settings such as
// threads: 4 are accepted and converted to strings.
func parseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if len(raw) == 0 {
		return p, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid duckdb params: %w", err)
	}

	for _, ext := range p.Extensions {
		if !settingNamePattern.MatchString(ext) {
			return nil, fmt.Errorf("invalid duckdb extension name %q", ext)
		}
	}
	for name := range p.Settings {
		if !settingNamePattern.MatchString(name) {
			return nil, fmt.Errorf("invalid duckdb setting name %q", name)
		}
	}
	return p, nil
}
