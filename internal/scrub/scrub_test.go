package scrub_test

import (
	"errors"
	"testing"

	"sdnsurvey/internal/scrub"
	"sdnsurvey/internal/survey"
)

func rawTable(t *testing.T, columns ...string) *survey.Table {
	t.Helper()
	row := make([]survey.Value, len(columns))
	for i := range row {
		row[i] = survey.Present("v")
	}
	table, err := survey.NewTable("raw", columns, [][]survey.Value{row})
	if err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	return table
}

func TestScrubRemovesIdentifyingColumns(t *testing.T) {
	columns := append([]string{"ResponseId"}, scrub.DefaultPIIColumns...)
	columns = append(columns, "Q2.3")
	table := rawTable(t, columns...)

	out, err := scrub.New(scrub.DefaultPIIColumns).Scrub(table)
	if err != nil {
		t.Fatalf("Scrub returned error: %v", err)
	}
	for _, col := range scrub.DefaultPIIColumns {
		if out.Schema().Has(col) {
			t.Fatalf("expected %q to be removed", col)
		}
	}
	if !out.Schema().Has("ResponseId") || !out.Schema().Has("Q2.3") {
		t.Fatalf("unexpected columns: %v", out.Columns())
	}
	if !table.Schema().Has("IPAddress") {
		t.Fatal("source table modified")
	}
}

func TestScrubFailsOnAbsentColumn(t *testing.T) {
	table := rawTable(t, "ResponseId", "IPAddress")
	_, err := scrub.New([]string{"IPAddress", "RecipientEmail"}).Scrub(table)
	if !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestKeepProjectsInOrder(t *testing.T) {
	table := rawTable(t, "a", "b", "c")
	out, err := scrub.Keep("projection", table, "c", "a")
	if err != nil {
		t.Fatalf("Keep returned error: %v", err)
	}
	cols := out.Columns()
	if len(cols) != 2 || cols[0] != "c" || cols[1] != "a" {
		t.Fatalf("unexpected columns: %v", cols)
	}
	if _, err := scrub.Keep("projection", table, "z"); !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestDropWithNoColumnsReturnsInput(t *testing.T) {
	table := rawTable(t, "a")
	out, err := scrub.Drop("noop", table)
	if err != nil {
		t.Fatalf("Drop returned error: %v", err)
	}
	if out != table {
		t.Fatal("expected input table to be returned unchanged")
	}
}
