// Package config loads churnprep configuration from defaults, a YAML file,
// CHURNPREP_ environment variables and command-line flags.
//
// The shared column-role and publish types live in pkg/core and are
// re-exported here via type aliases.
package config

import (
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/export"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/pipeline"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = core.TargetConfig

// DatasetConfig is an alias for the shared dataset column roles.
type DatasetConfig = core.DatasetConfig

// PublishConfig is an alias for the shared publish configuration.
type PublishConfig = core.PublishConfig

// Config holds all CLI configuration options.
type Config struct {
	// ProjectRoot anchors relative paths. It is the directory holding the
	// config file, or the working directory when there is none.
	ProjectRoot string `koanf:"-"`

	InputPath     string         `koanf:"input"`
	OutputDir     string         `koanf:"output_dir"`
	ProcessedFile string         `koanf:"processed_file"`
	ArtifactFile  string         `koanf:"artifact_file"`
	StatePath     string         `koanf:"state_path"` // empty disables the run ledger
	Verbose       bool           `koanf:"verbose"`
	OutputFormat  string         `koanf:"output"`
	Dataset       DatasetConfig  `koanf:"dataset"`
	Publish       *PublishConfig `koanf:"publish"`
}

// Files returns the output file names inside OutputDir.
func (c *Config) Files() export.Files {
	return export.Files{Processed: c.ProcessedFile, Artifact: c.ArtifactFile}
}

// Default configuration values.
const (
	ConfigFileName    = "churnprep.yaml"
	ConfigFileNameAlt = "churnprep.yml"
	EnvPrefix         = "CHURNPREP_"
	DefaultInput      = pipeline.DefaultInputPath
	DefaultOutputDir  = pipeline.DefaultOutputDir
	DefaultOutput     = "auto" // Auto-detect: TTY=styled text, non-TTY=plain text
	DefaultTable      = "telco_churn_preprocessed"
)
