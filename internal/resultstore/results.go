package resultstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sdnsurvey/internal/distribution"
	"sdnsurvey/internal/flow"
	"sdnsurvey/internal/rankcorr"
)

// Run identifies one stored workflow invocation.
type Run struct {
	ID         string    `json:"run_id"`
	Workflow   string    `json:"workflow"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// StageCount is the row count summary of one stage.
type StageCount struct {
	Stage      string `json:"stage"`
	RecordsIn  int    `json:"records_in"`
	RecordsOut int    `json:"records_out"`
}

// NamedDistribution is a frequency table stored under a report name such as
// "demographics.Q13.1".
type NamedDistribution struct {
	Name         string
	Distribution distribution.Distribution
}

// NamedCorrelation is a correlation stored under a report name.
type NamedCorrelation struct {
	Name   string
	Result rankcorr.Result
}

// Results is everything persisted for one run.
type Results struct {
	Run           Run
	Stages        []StageCount
	Distributions []NamedDistribution
	Correlations  []NamedCorrelation
	Flows         []flow.Graph
}

// Save writes results in one transaction. Saving the same run id twice
// replaces the earlier rows.
func (s *Store) Save(ctx context.Context, res Results) error {
	if strings.TrimSpace(res.Run.ID) == "" {
		return errors.New("save results: run id is required")
	}
	return retryOnBusy(ctx, func() error {
		return s.save(ctx, res)
	})
}

func (s *Store) save(ctx context.Context, res Results) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin results tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	runID := res.Run.ID
	if _, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("replace run %s: %w", runID, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO runs (run_id, workflow, started_at, finished_at) VALUES (?, ?, ?, ?)",
		runID, res.Run.Workflow, formatTime(res.Run.StartedAt), formatTime(res.Run.FinishedAt),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, stage := range res.Stages {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO stages (run_id, seq, stage, records_in, records_out) VALUES (?, ?, ?, ?, ?)",
			runID, i, stage.Stage, stage.RecordsIn, stage.RecordsOut,
		); err != nil {
			return fmt.Errorf("insert stage %s: %w", stage.Stage, err)
		}
	}

	for _, nd := range res.Distributions {
		d := nd.Distribution
		for _, e := range d.Entries {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO distributions (run_id, name, column_name, description, value, count, proportion)
                 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				runID, nd.Name, d.Column, nullableString(d.Description), e.Value, e.Count, e.Proportion,
			); err != nil {
				return fmt.Errorf("insert distribution %s: %w", nd.Name, err)
			}
		}
	}

	for _, nc := range res.Correlations {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO correlations (run_id, name, n, rho, p_value) VALUES (?, ?, ?, ?, ?)",
			runID, nc.Name, nc.Result.N, nc.Result.Rho, nc.Result.PValue,
		); err != nil {
			return fmt.Errorf("insert correlation %s: %w", nc.Name, err)
		}
	}

	for _, g := range res.Flows {
		for _, e := range g.Edges {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO flow_edges (run_id, graph, source_rank, target_rank, source_label, target_label, weight, color)
                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				runID, g.Title, e.SourceRank, e.TargetRank,
				nodeLabel(g, e.SourceNode), nodeLabel(g, e.TargetNode), e.Weight, e.Color,
			); err != nil {
				return fmt.Errorf("insert flow edge for %q: %w", g.Title, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit results: %w", err)
	}
	return nil
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, workflow, started_at, finished_at FROM runs ORDER BY started_at DESC, run_id")
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run               Run
			started, finished string
		)
		if err := rows.Scan(&run.ID, &run.Workflow, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		run.FinishedAt = parseTime(finished)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Stages returns the stage summaries of a run in execution order.
func (s *Store) Stages(ctx context.Context, runID string) ([]StageCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT stage, records_in, records_out FROM stages WHERE run_id = ? ORDER BY seq", runID)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	var stages []StageCount
	for rows.Next() {
		var sc StageCount
		if err := rows.Scan(&sc.Stage, &sc.RecordsIn, &sc.RecordsOut); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		stages = append(stages, sc)
	}
	return stages, rows.Err()
}

// Distribution reads back a stored frequency table. Entries come back in
// the same order Of produces: descending count, ties by value.
func (s *Store) Distribution(ctx context.Context, runID, name string) (distribution.Distribution, bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT column_name, description, value, count, proportion FROM distributions
         WHERE run_id = ? AND name = ? ORDER BY count DESC, value`, runID, name)
	if err != nil {
		return distribution.Distribution{}, false, fmt.Errorf("read distribution: %w", err)
	}
	defer rows.Close()

	var (
		d     distribution.Distribution
		found bool
	)
	for rows.Next() {
		var (
			e    distribution.Entry
			desc sql.NullString
		)
		if err := rows.Scan(&d.Column, &desc, &e.Value, &e.Count, &e.Proportion); err != nil {
			return distribution.Distribution{}, false, fmt.Errorf("scan distribution: %w", err)
		}
		d.Description = desc.String
		d.Entries = append(d.Entries, e)
		d.Observed += e.Count
		found = true
	}
	if err := rows.Err(); err != nil {
		return distribution.Distribution{}, false, err
	}
	return d, found, nil
}

// Correlation reads back a stored correlation result.
func (s *Store) Correlation(ctx context.Context, runID, name string) (rankcorr.Result, bool, error) {
	var res rankcorr.Result
	err := s.db.QueryRowContext(ctx,
		"SELECT n, rho, p_value FROM correlations WHERE run_id = ? AND name = ?", runID, name,
	).Scan(&res.N, &res.Rho, &res.PValue)
	if errors.Is(err, sql.ErrNoRows) {
		return rankcorr.Result{}, false, nil
	}
	if err != nil {
		return rankcorr.Result{}, false, fmt.Errorf("read correlation: %w", err)
	}
	return res, true, nil
}

// FlowEdge is a stored flow edge with its node labels resolved.
type FlowEdge struct {
	SourceRank  int    `json:"source_rank"`
	TargetRank  int    `json:"target_rank"`
	SourceLabel string `json:"source_label"`
	TargetLabel string `json:"target_label"`
	Weight      int    `json:"weight"`
	Color       string `json:"color"`
}

// FlowEdges reads back the edges of one graph, heaviest first.
func (s *Store) FlowEdges(ctx context.Context, runID, graph string) ([]FlowEdge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_rank, target_rank, source_label, target_label, weight, color FROM flow_edges
         WHERE run_id = ? AND graph = ? ORDER BY weight DESC, source_rank, target_rank`, runID, graph)
	if err != nil {
		return nil, fmt.Errorf("read flow edges: %w", err)
	}
	defer rows.Close()

	var edges []FlowEdge
	for rows.Next() {
		var e FlowEdge
		if err := rows.Scan(&e.SourceRank, &e.TargetRank, &e.SourceLabel, &e.TargetLabel, &e.Weight, &e.Color); err != nil {
			return nil, fmt.Errorf("scan flow edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

func nodeLabel(g flow.Graph, idx int) string {
	if idx < 0 || idx >= len(g.Nodes) {
		return ""
	}
	return g.Nodes[idx].Label
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
