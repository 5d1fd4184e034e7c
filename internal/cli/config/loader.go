package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/export"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/pipeline"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// pathFlags are flags whose values are paths relative to the working
// directory rather than the project root.
var pathFlags = map[string]string{
	"input":      "input",
	"output-dir": "output_dir",
	"state":      "state_path",
}

// configExistsIn returns the config file in dir, or "" if there is none.
func configExistsIn(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findConfigUpward searches upward from startDir for a churnprep config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findConfigUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if path := configExistsIn(dir); path != "" {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// defaults returns the lowest-precedence configuration layer.
func defaults() map[string]any {
	ds := pipeline.DefaultDataset()
	return map[string]any{
		"input":                    DefaultInput,
		"output_dir":               DefaultOutputDir,
		"processed_file":           export.DefaultProcessedFile,
		"artifact_file":            export.DefaultArtifactFile,
		"state_path":               "",
		"verbose":                  false,
		"output":                   DefaultOutput,
		"dataset.id_column":        ds.IDColumn,
		"dataset.label_column":     ds.LabelColumn,
		"dataset.coerce_column":    ds.CoerceColumn,
		"dataset.positive_label":   ds.PositiveLabel,
		"dataset.negative_label":   ds.NegativeLabel,
		"dataset.numeric_features": ds.NumericFeatures,
		"publish.table":            DefaultTable,
	}
}

// envKey maps CHURNPREP_DATASET__LABEL_COLUMN to dataset.label_column.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Load loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// cfgFile may be empty, in which case churnprep.yaml is searched for upward
// from the working directory.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, string, error) {
	k := koanf.New(".")

	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get working directory: %w", err)
	}

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFile := cfgFile
	if configFile == "" {
		configFile = findConfigUpward(cwd)
	}
	projectRoot := cwd
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, "", fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
		if abs, err := filepath.Abs(configFile); err == nil {
			projectRoot = filepath.Dir(abs)
		}
	}

	// 3. Load environment variables (CHURNPREP_ prefix)
	// Transform: CHURNPREP_OUTPUT_DIR -> output_dir, CHURNPREP_PUBLISH__TABLE -> publish.table
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = envKey(key)
		if key == "dataset.numeric_features" {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority). Path flags are relative to the
	// working directory, so they are made absolute here.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			if key, ok := pathFlags[f.Name]; ok {
				v := f.Value.String()
				if abs, err := filepath.Abs(v); err == nil && v != "" {
					v = abs
				}
				return key, v
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, "", fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, "", fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve relative paths against the project root
	cfg.ProjectRoot = projectRoot
	cfg.InputPath = resolvePathRelativeTo(cfg.InputPath, projectRoot)
	cfg.OutputDir = resolvePathRelativeTo(cfg.OutputDir, projectRoot)
	cfg.StatePath = resolvePathRelativeTo(cfg.StatePath, projectRoot)

	if cfg.Publish != nil && cfg.Publish.Target != nil {
		t := cfg.Publish.Target
		ApplyTargetDefaults(t)
		expandTargetEnvVars(t)
		if t.Type == "duckdb" && t.Database != "" && t.Database != ":memory:" {
			t.Database = resolvePathRelativeTo(t.Database, projectRoot)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, configFile, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() any {
	return loggerKey{}
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// configKey is used to store the loaded config in context.
type configKey struct{}

// WithConfig returns a copy of ctx carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config stored by WithConfig, or nil.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return nil
}
