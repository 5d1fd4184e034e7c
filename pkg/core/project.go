package core

// DatasetConfig names the columns the pipeline treats specially.
type DatasetConfig struct {
	IDColumn        string   `koanf:"id_column"`
	LabelColumn     string   `koanf:"label_column"`
	CoerceColumn    string   `koanf:"coerce_column"`
	PositiveLabel   string   `koanf:"positive_label"`
	NegativeLabel   string   `koanf:"negative_label"`
	NumericFeatures []string `koanf:"numeric_features"`
}

// PublishConfig configures loading the processed table into a database.
type PublishConfig struct {
	Table  string        `koanf:"table"`
	Target *TargetConfig `koanf:"target"`
}

// Enabled reports whether a publish target is configured.
func (p *PublishConfig) Enabled() bool {
	return p != nil && p.Target != nil && p.Target.Type != ""
}

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // duckdb, postgres

	// File-based databases (DuckDB)
	Database string `koanf:"database"` // file path or database name

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Common
	Schema string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (e.g., DuckDB settings)
	Params map[string]any `koanf:"params"`
}

// AdapterConfig converts the target into the adapter connection config.
func (t *TargetConfig) AdapterConfig() AdapterConfig {
	return AdapterConfig{
		Type:     t.Type,
		Path:     t.Database,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
		Params:   t.Params,
	}
}
