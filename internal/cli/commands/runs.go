package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/cli/output"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/internal/state"
	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/core"
	"github.com/spf13/cobra"
)

// RunsOptions holds options for the runs command.
type RunsOptions struct {
	Limit int
}

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	opts := &RunsOptions{}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded pipeline runs",
		Long: `List runs recorded in the run ledger, newest first. The ledger is
enabled by setting state_path in churnprep.yaml or passing --state.`,
		Example: `  churnprep runs --state .churnprep/state.db
  churnprep runs -n 5 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRuns(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of runs to list")

	return cmd
}

func runRuns(cmd *cobra.Command, opts *RunsOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	path := cc.Cfg.StatePath
	if path == "" {
		return fmt.Errorf("run ledger is disabled\nHint: set state_path in churnprep.yaml or pass --state")
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("no run ledger at %s", path)
	}

	store := state.NewSQLiteStore(cc.Logger)
	if err := store.Open(path); err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	defer func() { _ = store.Close() }()
	if err := store.InitSchema(); err != nil {
		return fmt.Errorf("failed to initialize state schema: %w", err)
	}

	runs, err := store.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return err
	}

	infos := make([]output.RunInfo, len(runs))
	for i, run := range runs {
		infos[i] = runInfo(run)
	}

	r := cc.Renderer
	if r.Structured() {
		return r.Document(infos)
	}

	if len(infos) == 0 {
		r.Println(r.Styles().Muted.Render("No runs recorded."))
		return nil
	}

	rows := make([][]any, len(infos))
	for i, info := range infos {
		shape := fmt.Sprintf("(%d, %d)", info.ProcessedShape[0], info.ProcessedShape[1])
		if info.Status != string(core.RunStatusCompleted) {
			shape = "-"
		}
		rows[i] = []any{
			shortID(info.ID),
			info.StartedAt.Local().Format("2006-01-02 15:04:05"),
			statusStyle(r, info.Status).Render(info.Status),
			shape,
			info.DroppedRows,
			info.Error,
		}
	}
	r.Table([]string{"Run", "Started", "Status", "Shape", "Dropped", "Error"}, rows)
	return nil
}

func statusStyle(r *output.Renderer, status string) lipgloss.Style {
	switch core.RunStatus(status) {
	case core.RunStatusCompleted:
		return r.Styles().Success
	case core.RunStatusFailed:
		return r.Styles().Error
	default:
		return r.Styles().Warning
	}
}

func runInfo(run *core.Run) output.RunInfo {
	return output.RunInfo{
		ID:             run.ID,
		Status:         string(run.Status),
		Input:          run.InputPath,
		StartedAt:      run.StartedAt,
		CompletedAt:    run.CompletedAt,
		ProcessedShape: [2]int{run.Stats.ProcessedRows, run.Stats.ProcessedCols},
		DroppedRows:    run.Stats.DroppedRows,
		ArtifactSHA256: run.Stats.ArtifactHash,
		Error:          run.Error,
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
