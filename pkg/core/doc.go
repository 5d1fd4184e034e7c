// Package core defines the shared language of the churnprep system.
//
// This package contains:
//   - Domain entities (Table, Run)
//   - Service interfaces (Adapter, Store)
//   - Configuration types (DatasetConfig, TargetConfig)
//   - Error kinds shared across stages (ErrSchemaMismatch)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
