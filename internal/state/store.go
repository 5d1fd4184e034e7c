// Package state records pipeline runs in a SQLite ledger.
//
// The ledger is optional: the pipeline only opens it when a state path is
// configured. Core types live in pkg/core; this package re-exports the ones
// callers need most.
package state

import (
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/core"
)

type (
	// Store is an alias for core.Store.
	Store = core.Store

	// RunStatus is an alias for core.RunStatus.
	RunStatus = core.RunStatus

	// Run is an alias for core.Run.
	Run = core.Run

	// RunStats is an alias for core.RunStats.
	RunStats = core.RunStats
)

// Re-export status constants from core.
const (
	RunStatusRunning   = core.RunStatusRunning
	RunStatusCompleted = core.RunStatusCompleted
	RunStatusFailed    = core.RunStatusFailed
)

var _ Store = (*SQLiteStore)(nil)
