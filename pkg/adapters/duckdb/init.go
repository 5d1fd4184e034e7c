package duckdb

import (
	"log/slog"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/adapter"
)

func init() {
	adapter.Register("duckdb", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
