package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sdnsurvey/internal/config"
	"sdnsurvey/internal/logging"
	"sdnsurvey/internal/resultstore"
)

// Workflow names.
const (
	WorkflowPrepare   = "prepare"
	WorkflowReddit    = "reddit"
	WorkflowKnowledge = "knowledge"
)

// Runner executes workflows against one configuration.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// New constructs a runner. A nil logger discards output.
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// run tracks one workflow invocation.
type run struct {
	id       string
	workflow string
	started  time.Time
	logger   *slog.Logger
	stages   []resultstore.StageCount
}

func (r *Runner) begin(ctx context.Context, workflow string) (context.Context, *run) {
	id := r.newID()
	ctx = logging.WithRunID(ctx, id)
	logger := logging.WithContext(ctx, r.logger).With(logging.String(logging.FieldWorkflow, workflow))
	logger.Info("workflow started", logging.String(logging.FieldEventType, "workflow_start"))
	return ctx, &run{id: id, workflow: workflow, started: r.now(), logger: logger}
}

// stage records a completed stage and logs its row counts.
func (rn *run) stage(name string, in, out int, attrs ...logging.Attr) {
	rn.stages = append(rn.stages, resultstore.StageCount{Stage: name, RecordsIn: in, RecordsOut: out})
	logging.StageComplete(rn.logger, name, in, out, attrs...)
}

// fail logs err against the workflow and returns it unchanged.
func (rn *run) fail(err error) error {
	logging.ErrorWithContext(rn.logger, "workflow failed", "workflow_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "fix the input or configuration named in the error and rerun"),
	)
	return err
}

func (rn *run) info(finished time.Time) RunInfo {
	return RunInfo{
		ID:         rn.id,
		Workflow:   rn.workflow,
		StartedAt:  rn.started,
		FinishedAt: finished,
		Stages:     append([]resultstore.StageCount(nil), rn.stages...),
	}
}

// RunInfo identifies a workflow invocation in reports.
type RunInfo struct {
	ID         string                   `json:"run_id"`
	Workflow   string                   `json:"workflow"`
	StartedAt  time.Time                `json:"started_at"`
	FinishedAt time.Time                `json:"finished_at"`
	Stages     []resultstore.StageCount `json:"stages"`
}

func (ri RunInfo) storeRun() resultstore.Run {
	return resultstore.Run{ID: ri.ID, Workflow: ri.Workflow, StartedAt: ri.StartedAt, FinishedAt: ri.FinishedAt}
}

// saveResults writes a run to the results database when enabled.
func (r *Runner) saveResults(ctx context.Context, rn *run, res resultstore.Results) (string, error) {
	if !r.cfg.Export.SQLiteEnabled {
		return "", nil
	}
	store, err := resultstore.Open(ctx, r.cfg.Export.SQLitePath)
	if err != nil {
		return "", fmt.Errorf("open results database: %w", err)
	}
	defer store.Close()
	if err := store.Save(ctx, res); err != nil {
		return "", fmt.Errorf("save results: %w", err)
	}
	rn.logger.Info("results saved", logging.String("path", store.Path()))
	return store.Path(), nil
}
