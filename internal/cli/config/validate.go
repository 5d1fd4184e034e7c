package config

import (
	"fmt"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/cli/output"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/adapter"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	if c.InputPath == "" {
		return fmt.Errorf("input is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	ds := c.Dataset
	if ds.PositiveLabel != "" && ds.PositiveLabel == ds.NegativeLabel {
		return fmt.Errorf("dataset.positive_label and dataset.negative_label must differ (both %q)", ds.PositiveLabel)
	}
	seen := make(map[string]bool, len(ds.NumericFeatures))
	for _, name := range ds.NumericFeatures {
		if name == "" {
			return fmt.Errorf("dataset.numeric_features contains an empty column name")
		}
		if seen[name] {
			return fmt.Errorf("dataset.numeric_features lists %q twice", name)
		}
		seen[name] = true
	}

	if c.Publish.Enabled() {
		if err := ValidateTarget(c.Publish.Target); err != nil {
			return fmt.Errorf("invalid publish target: %w", err)
		}
		if err := adapter.ValidateTableName(c.Publish.Table); err != nil {
			return fmt.Errorf("invalid publish table: %w", err)
		}
	}
	return nil
}
