package survey_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sdnsurvey/internal/survey"
)

func fixtureTable(t *testing.T) *survey.Table {
	t.Helper()
	table, err := survey.NewTable("fixture", []string{"id", "q1", "q2"}, [][]survey.Value{
		survey.Values("a", "yes", "1"),
		{survey.Present("b"), survey.Missing, survey.Present("2")},
		survey.Values("c", "no", "3"),
	})
	if err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	withID, err := table.WithID("id")
	if err != nil {
		t.Fatalf("WithID returned error: %v", err)
	}
	return withID
}

func TestNewTableRejectsRaggedRows(t *testing.T) {
	_, err := survey.NewTable("ragged", []string{"a", "b"}, [][]survey.Value{survey.Values("1")})
	if !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestNewTableRejectsDuplicateColumns(t *testing.T) {
	_, err := survey.NewTable("dup", []string{"a", "a"}, nil)
	if !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestDropColumnsIsStrict(t *testing.T) {
	table := fixtureTable(t)
	if _, err := table.DropColumns("q1", "absent"); !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected schema error for absent column, got %v", err)
	}
	dropped, err := table.DropColumns("q1")
	if err != nil {
		t.Fatalf("DropColumns returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"id", "q2"}, dropped.Columns()); diff != "" {
		t.Fatalf("unexpected columns (-want +got):\n%s", diff)
	}
	if dropped.IDColumn() != "id" {
		t.Fatalf("expected id column to survive, got %q", dropped.IDColumn())
	}
	if got := table.Columns(); len(got) != 3 {
		t.Fatalf("source table modified: %v", got)
	}
}

func TestProjectDropsIDWhenExcluded(t *testing.T) {
	table := fixtureTable(t)
	projected, err := table.Project("q2", "q1")
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	if projected.IDColumn() != "" {
		t.Fatalf("expected id column cleared, got %q", projected.IDColumn())
	}
	if got := projected.Row(0).At(0).Text; got != "1" {
		t.Fatalf("unexpected first value: got %q want %q", got, "1")
	}
}

func TestFilterPreservesOrderAndSource(t *testing.T) {
	table := fixtureTable(t)
	kept := table.Filter(func(r survey.Record) bool { return !r.Get("q1").IsMissing() })
	if kept.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", kept.Len())
	}
	ids, err := kept.IDs()
	if err != nil {
		t.Fatalf("IDs returned error: %v", err)
	}
	if ids[0].Text != "a" || ids[1].Text != "c" {
		t.Fatalf("unexpected order: %v", ids)
	}
	if table.Len() != 3 {
		t.Fatalf("source table modified: %d rows", table.Len())
	}
}

func TestWithColumnRequiresOneValuePerRow(t *testing.T) {
	table := fixtureTable(t)
	if _, err := table.WithColumn("extra", survey.Values("x")); !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
	if _, err := table.WithColumn("q1", survey.Values("x", "y", "z")); !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected schema error for existing column, got %v", err)
	}
	extended, err := table.WithColumn("extra", survey.Values("x", "y", "z"))
	if err != nil {
		t.Fatalf("WithColumn returned error: %v", err)
	}
	if got := extended.Row(2).Get("extra").Text; got != "z" {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestDuplicateIDs(t *testing.T) {
	table, err := survey.NewTable("dups", []string{"id"}, [][]survey.Value{
		survey.Values("a"), survey.Values("b"), survey.Values("a"), {survey.Missing}, {survey.Missing},
	})
	if err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	table, err = table.WithID("id")
	if err != nil {
		t.Fatalf("WithID returned error: %v", err)
	}
	dups, rows, err := table.DuplicateIDs()
	if err != nil {
		t.Fatalf("DuplicateIDs returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, dups); diff != "" {
		t.Fatalf("unexpected duplicates (-want +got):\n%s", diff)
	}
	if rows != 2 {
		t.Fatalf("expected 2 duplicate rows, got %d", rows)
	}
}

func TestCatalogRestrictKeepsHeaderOrder(t *testing.T) {
	catalog := survey.NewCatalog([]string{"Q1", "Q2", "Q3"}, []string{"first", "second", "third"})
	restricted := catalog.Restrict("Q3", "Q1", "Q9")
	if diff := cmp.Diff([]string{"Q1", "Q3"}, restricted.Columns()); diff != "" {
		t.Fatalf("unexpected columns (-want +got):\n%s", diff)
	}
	if text, ok := restricted.Describe("Q3"); !ok || text != "third" {
		t.Fatalf("unexpected description: %q %v", text, ok)
	}
}
