package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/adapter"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// DefaultSchemaForType returns the default schema for a database type.
func DefaultSchemaForType(dbType string) string {
	switch strings.ToLower(dbType) {
	case "duckdb":
		return "main"
	case "postgres", "postgresql":
		return "public"
	default:
		return ""
	}
}

// ApplyTargetDefaults applies default values to a TargetConfig based on the target type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Type = strings.ToLower(t.Type)

	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}
	if t.Type == "postgres" && t.Port == 0 {
		t.Port = 5432
	}
}

// ValidateTarget checks that the target names a registered adapter.
func ValidateTarget(t *TargetConfig) error {
	if t == nil {
		return nil
	}
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{Type: t.Type, Available: adapter.ListAdapters()}
	}
	return nil
}

// expandEnvVars expands ${VAR} patterns with environment variable values.
// Unset variables are left as written.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}

// expandTargetEnvVars expands environment variables in sensitive target fields.
func expandTargetEnvVars(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
}
