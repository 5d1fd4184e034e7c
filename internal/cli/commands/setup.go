// Package commands implements the churnprep subcommands.
package commands

import (
	"io"
	"log/slog"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/cli/config"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/cli/output"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the dependencies from the command context. The
// root command stores the config there; when it is absent (a command run on
// its own) configuration is loaded from the working directory.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		var err error
		cfg, _, err = config.Load("", cmd.Root().PersistentFlags())
		if err != nil {
			return nil, err
		}
	}

	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

// Progress returns where stage progress lines go. Structured output keeps
// stdout for the result document, so progress moves to stderr.
func (c *CommandContext) Progress(cmd *cobra.Command) io.Writer {
	if c.Renderer.Structured() {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}
