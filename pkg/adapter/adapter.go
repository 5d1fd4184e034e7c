// Package adapter provides the database adapter registry used to publish
// processed datasets.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves from init. Import them with a blank identifier.
package adapter

import (
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/core"
)

type (
	// Adapter is an alias for core.Adapter.
	Adapter = core.Adapter

	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)
