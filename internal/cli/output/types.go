package output

import "time"

// RunOutput is the structured result of a pipeline run.
type RunOutput struct {
	RunID          string   `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Input          string   `json:"input" yaml:"input"`
	RawShape       [2]int   `json:"raw_shape" yaml:"raw_shape,flow"`
	ProcessedShape [2]int   `json:"processed_shape" yaml:"processed_shape,flow"`
	DroppedRows    int      `json:"dropped_rows" yaml:"dropped_rows"`
	ProcessedPath  string   `json:"processed_path" yaml:"processed_path"`
	ArtifactPath   string   `json:"artifact_path" yaml:"artifact_path"`
	ArtifactSHA256 string   `json:"artifact_sha256" yaml:"artifact_sha256"`
	Features       []string `json:"features" yaml:"features"`
	PublishedRows  int64    `json:"published_rows,omitempty" yaml:"published_rows,omitempty"`
}

// ApplyOutput is the structured result of reapplying an artifact.
type ApplyOutput struct {
	Input          string `json:"input" yaml:"input"`
	Artifact       string `json:"artifact" yaml:"artifact"`
	Output         string `json:"output" yaml:"output"`
	ProcessedShape [2]int `json:"processed_shape" yaml:"processed_shape,flow"`
	DroppedRows    int    `json:"dropped_rows" yaml:"dropped_rows"`
	Labelled       bool   `json:"labelled" yaml:"labelled"`
}

// InspectOutput describes a saved transform artifact.
type InspectOutput struct {
	Path        string              `json:"path" yaml:"path"`
	Features    int                 `json:"features" yaml:"features"`
	Numeric     []NumericColumn     `json:"numeric" yaml:"numeric"`
	Categorical []CategoricalColumn `json:"categorical" yaml:"categorical"`
}

// NumericColumn is a standardized column and its fitted statistics.
type NumericColumn struct {
	Name  string  `json:"name" yaml:"name"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Scale float64 `json:"scale" yaml:"scale"`
}

// CategoricalColumn is an encoded column and its vocabulary.
type CategoricalColumn struct {
	Name       string   `json:"name" yaml:"name"`
	Categories []string `json:"categories" yaml:"categories"`
}

// RunInfo is one ledger entry.
type RunInfo struct {
	ID             string     `json:"id" yaml:"id"`
	Status         string     `json:"status" yaml:"status"`
	Input          string     `json:"input" yaml:"input"`
	StartedAt      time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	ProcessedShape [2]int     `json:"processed_shape" yaml:"processed_shape,flow"`
	DroppedRows    int        `json:"dropped_rows" yaml:"dropped_rows"`
	ArtifactSHA256 string     `json:"artifact_sha256,omitempty" yaml:"artifact_sha256,omitempty"`
	Error          string     `json:"error,omitempty" yaml:"error,omitempty"`
}
