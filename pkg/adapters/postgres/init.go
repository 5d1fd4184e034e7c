package postgres

import (
	"log/slog"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/adapter"
)

func init() {
	adapter.Register("postgres", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
