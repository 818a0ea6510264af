package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/google/go-cmp/cmp"

	"sdnsurvey/internal/pipeline"
	"sdnsurvey/internal/recode"
	"sdnsurvey/internal/survey"
	"sdnsurvey/internal/testsupport"
)

func TestPrepareMergesQualifiedParticipants(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFixtures())
	runner := pipeline.New(cfg, nil)

	report, err := runner.Prepare(context.Background())
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	if report.PrescreenRows != 7 || report.MainRows != 5 {
		t.Fatalf("loaded rows = %d/%d, want 7/5", report.PrescreenRows, report.MainRows)
	}
	if report.Qualification.Kept != 4 {
		t.Fatalf("qualified = %d, want 4", report.Qualification.Kept)
	}
	wantOutcomes := []struct {
		rejected, missing int
	}{{2, 1}, {1, 0}}
	for i, want := range wantOutcomes {
		got := report.Qualification.Outcomes[i]
		if got.Rejected != want.rejected || got.Missing != want.missing {
			t.Fatalf("rule %s outcome = %+v, want rejected %d missing %d", got.Rule, got, want.rejected, want.missing)
		}
	}
	if report.Reconciled != 3 || report.Merged != 3 {
		t.Fatalf("reconciled/merged = %d/%d, want 3/3", report.Reconciled, report.Merged)
	}
	if report.Provider == nil || report.Provider.Kept != 2 {
		t.Fatalf("provider filter = %+v, want 2 kept", report.Provider)
	}
	if report.Records != 2 {
		t.Fatalf("records = %d, want 2", report.Records)
	}
	for _, col := range report.Columns {
		if col == cfg.Schema.ParticipantID {
			t.Fatalf("participant id column %q left in output", col)
		}
	}
	if text, ok := report.Catalog.Describe("Q9.1"); !ok || text != "Question Q9.1" {
		t.Fatalf("catalog Q9.1 = %q (%v)", text, ok)
	}

	records := testsupport.ReadCSV(t, cfg.Paths.MergedFile)
	if len(records) != 3 {
		t.Fatalf("merged file rows = %d, want header + 2", len(records))
	}
	header := records[0]
	if diff := cmp.Diff(report.Columns, header); diff != "" {
		t.Fatalf("merged header mismatch (-report +file):\n%s", diff)
	}
	var ids []string
	for _, rec := range records[1:] {
		ids = append(ids, strings.TrimPrefix(rec[0], "rand-"))
	}
	if diff := cmp.Diff(testsupport.MergedParticipants, ids); diff != "" {
		t.Fatalf("merged participants mismatch (-want +got):\n%s", diff)
	}

	stages := make([]string, len(report.Run.Stages))
	for i, s := range report.Run.Stages {
		stages[i] = s.Stage
	}
	wantStages := []string{"load", "scrub", "qualify", "reconcile", "merge", "provider_filter", "write"}
	if diff := cmp.Diff(wantStages, stages); diff != "" {
		t.Fatalf("stages mismatch (-want +got):\n%s", diff)
	}
	if report.Run.ID == "" || report.Run.Workflow != pipeline.WorkflowPrepare {
		t.Fatalf("unexpected run info %+v", report.Run)
	}
}

func TestPrepareFailsOnMissingPIIColumn(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFixtures())
	cfg.Schema.PIIColumns = append(cfg.Schema.PIIColumns, "PhoneNumber")

	_, err := pipeline.New(cfg, nil).Prepare(context.Background())
	if !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
	if _, statErr := os.Stat(cfg.Paths.MergedFile); !os.IsNotExist(statErr) {
		t.Fatalf("merged file written despite failure: %v", statErr)
	}
}

func TestPrepareReportsNoOverlap(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFixtures())
	cfg.Qualify.Rules[0].Values = []string{"Maybe"}

	_, err := pipeline.New(cfg, nil).Prepare(context.Background())
	if !errors.Is(err, survey.ErrNoOverlap) {
		t.Fatalf("expected no-overlap error, got %v", err)
	}
}

func TestPrepareRefusesConcurrentRun(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFixtures())
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	held := flock.New(filepath.Join(cfg.Paths.OutputDir, ".sdnsurvey.lock"))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock = %v, %v", ok, err)
	}
	defer held.Unlock()

	_, err = pipeline.New(cfg, nil).Prepare(context.Background())
	if err == nil || !strings.Contains(err.Error(), "another sdnsurvey run") {
		t.Fatalf("expected lock error, got %v", err)
	}
}

func TestKnowledgeCorrelatesAndBuildsFlows(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFixtures())

	report, err := pipeline.New(cfg, nil).Knowledge(context.Background())
	if err != nil {
		t.Fatalf("Knowledge: %v", err)
	}
	if report.Reconciled != len(testsupport.KnowledgeResponses) {
		t.Fatalf("reconciled = %d, want %d", report.Reconciled, len(testsupport.KnowledgeResponses))
	}
	if len(report.Unclassified) != 0 {
		t.Fatalf("unexpected unclassified codes %+v", report.Unclassified)
	}
	if got := report.Knowledge.Count(recode.Low); got != 2 {
		t.Fatalf("Low count = %d, want 2 (one coded, one missing)", got)
	}
	if report.MissingSelfReport != 1 {
		t.Fatalf("missing self report = %d, want 1", report.MissingSelfReport)
	}
	if report.Correlation.N != 4 || report.Correlation.Rho != 1 || report.Correlation.PValue != 0 {
		t.Fatalf("correlation = %+v, want n=4 rho=1 p=0", report.Correlation)
	}

	totals := map[string][2]int{"trust": {5, 0}, "security": {5, 0}, "privacy": {3, 2}}
	if len(report.Flows) != len(totals) {
		t.Fatalf("flows = %d, want %d", len(report.Flows), len(totals))
	}
	for _, fr := range report.Flows {
		want := totals[fr.Name]
		if fr.Graph.Total != want[0] || fr.Graph.Skipped != want[1] {
			t.Fatalf("%s total/skipped = %d/%d, want %d/%d", fr.Name, fr.Graph.Total, fr.Graph.Skipped, want[0], want[1])
		}
		if fr.Graph.WeightSum() != fr.Graph.Total {
			t.Fatalf("%s weight sum %d != total %d", fr.Name, fr.Graph.WeightSum(), fr.Graph.Total)
		}
		rows := testsupport.ReadCSV(t, fr.File)
		if len(rows) != len(fr.Graph.Edges)+1 {
			t.Fatalf("%s edge file rows = %d, want %d", fr.Name, len(rows), len(fr.Graph.Edges)+1)
		}
	}
}

func TestKnowledgeAbortsOnUnclassifiedCode(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFixtures(), testsupport.WithoutEdgeCSV())
	cfg.Knowledge.Buckets[recode.Medium] = []string{"maps_ip_to_domain"}

	_, err := pipeline.New(cfg, nil).Knowledge(context.Background())
	if !errors.Is(err, survey.ErrUnclassified) {
		t.Fatalf("expected unclassified error, got %v", err)
	}
	if !strings.Contains(err.Error(), "navigation_to_website") {
		t.Fatalf("error should name the code: %v", err)
	}
}

func TestKnowledgeSavesResults(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFixtures(), testsupport.WithSQLite())

	report, err := pipeline.New(cfg, nil).Knowledge(context.Background())
	if err != nil {
		t.Fatalf("Knowledge: %v", err)
	}
	if report.ResultsDB != cfg.Export.SQLitePath {
		t.Fatalf("results db = %q, want %q", report.ResultsDB, cfg.Export.SQLitePath)
	}

	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	corr, ok, err := store.Correlation(ctx, report.Run.ID, pipeline.CorrelationName)
	if err != nil || !ok {
		t.Fatalf("Correlation = %v, %v", ok, err)
	}
	if diff := cmp.Diff(report.Correlation, corr); diff != "" {
		t.Fatalf("stored correlation mismatch (-want +got):\n%s", diff)
	}
	for _, fr := range report.Flows {
		edges, err := store.FlowEdges(ctx, report.Run.ID, fr.Graph.Title)
		if err != nil {
			t.Fatalf("FlowEdges: %v", err)
		}
		if len(edges) != len(fr.Graph.Edges) {
			t.Fatalf("%s stored edges = %d, want %d", fr.Name, len(edges), len(fr.Graph.Edges))
		}
	}
	stages, err := store.Stages(ctx, report.Run.ID)
	if err != nil {
		t.Fatalf("Stages: %v", err)
	}
	if diff := cmp.Diff(report.Run.Stages, stages); diff != "" {
		t.Fatalf("stored stages mismatch (-want +got):\n%s", diff)
	}
}

func TestRedditSummary(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFixtures())

	report, err := pipeline.New(cfg, nil).RedditSummary(context.Background())
	if err != nil {
		t.Fatalf("RedditSummary: %v", err)
	}
	if report.Records != 3 {
		t.Fatalf("records = %d, want 3", report.Records)
	}
	if len(report.Demographics) != len(cfg.Reddit.DemographicColumns) {
		t.Fatalf("demographics = %d, want %d", len(report.Demographics), len(cfg.Reddit.DemographicColumns))
	}
	age := report.Demographics[0]
	if age.Description != "Question Q13.1" || age.Count("18 - 24") != 2 || age.Count("25 - 34") != 1 {
		t.Fatalf("unexpected age distribution %+v", age)
	}
	for k := 1; k <= 3; k++ {
		if got := report.Offered.SelectionCount(k); got != 1 {
			t.Fatalf("offered selection count k=%d = %d, want 1", k, got)
		}
	}
	if report.Used.Respondents != 2 || report.Used.Missing != 1 {
		t.Fatalf("used respondents/missing = %d/%d, want 2/1", report.Used.Respondents, report.Used.Missing)
	}
	usage := report.Usage
	if usage.Using.Respondents != 1 || usage.Considering.Respondents != 2 || usage.DefaultedMissing != 1 {
		t.Fatalf("unexpected usage split %+v", usage)
	}
	if report.Security.Count("Agree") != 2 || report.Security.Count("Disagree") != 1 {
		t.Fatalf("unexpected security distribution %+v", report.Security)
	}
	if report.Privacy.Observed != 3 {
		t.Fatalf("privacy observed = %d, want 3", report.Privacy.Observed)
	}
}
