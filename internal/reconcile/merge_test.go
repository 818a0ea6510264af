package reconcile_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sdnsurvey/internal/reconcile"
	"sdnsurvey/internal/survey"
)

func TestReconcileThenMergeSingleParticipant(t *testing.T) {
	prescreen := keyed(t, "prescreen", "pid", []string{"pid", "Q2.6"}, survey.Values("1", "used X"))
	main := keyed(t, "main", "pid", []string{"pid", "answer"}, survey.Values("1", "4"))

	res, err := reconcile.Reconcile(prescreen, "pid", main, "pid")
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	merged, err := reconcile.Merge(res.Left, res.Right, reconcile.MergeSpec{Key: "pid"})
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"pid", "Q2.6", "answer"}, merged.Columns()); diff != "" {
		t.Fatalf("unexpected columns (-want +got):\n%s", diff)
	}
	if merged.Len() != 1 {
		t.Fatalf("expected one merged record, got %d", merged.Len())
	}
	row := merged.Row(0)
	got := map[string]string{"pid": row.Get("pid").Text, "Q2.6": row.Get("Q2.6").Text, "answer": row.Get("answer").Text}
	want := map[string]string{"pid": "1", "Q2.6": "used X", "answer": "4"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected record (-want +got):\n%s", diff)
	}
	if merged.IDColumn() != "pid" {
		t.Fatalf("expected merged table keyed by pid, got %q", merged.IDColumn())
	}
}

func TestMergeProjectsRequestedColumns(t *testing.T) {
	codes := keyed(t, "codes", "ResponseId", []string{"ResponseId", "Code 1", "Code 2"},
		survey.Values("R1", "sdns", "x"),
		survey.Values("R2", "maps_domain_to_ip", "y"),
	)
	data := keyed(t, "data", "ResponseId", []string{"ResponseId", "Q3.2", "Q9.1", "Q13.1"},
		survey.Values("R2", "I definitely know", "Very trustworthy", "30"),
		survey.Values("R1", "I somewhat know", "Neither trustworthy nor untrustworthy", "40"),
		survey.Values("R3", "I somewhat know", "Very untrustworthy", "50"),
	)
	merged, err := reconcile.Merge(codes, data, reconcile.MergeSpec{
		Key:          "ResponseId",
		LeftColumns:  []string{"Code 1"},
		RightColumns: []string{"ResponseId", "Q3.2", "Q9.1"},
	})
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"ResponseId", "Code 1", "Q3.2", "Q9.1"}, merged.Columns()); diff != "" {
		t.Fatalf("unexpected columns (-want +got):\n%s", diff)
	}
	if merged.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", merged.Len())
	}
	if merged.Len() > min(codes.Len(), data.Len()) {
		t.Fatalf("merge inflated rows: %d", merged.Len())
	}
	if got := merged.Row(0).Get("Q3.2").Text; got != "I somewhat know" {
		t.Fatalf("expected left order with matched right values, got %q", got)
	}
}

func TestMergeRejectsDuplicateKeys(t *testing.T) {
	left := keyed(t, "left", "id", []string{"id", "a"}, survey.Values("1", "x"), survey.Values("1", "y"))
	right := keyed(t, "right", "id", []string{"id", "b"}, survey.Values("1", "z"))
	if _, err := reconcile.Merge(left, right, reconcile.MergeSpec{Key: "id"}); !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected schema error for left duplicates, got %v", err)
	}
	if _, err := reconcile.Merge(right, left, reconcile.MergeSpec{Key: "id"}); !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected schema error for right duplicates, got %v", err)
	}
}

func TestMergeRejectsSharedColumns(t *testing.T) {
	left := keyed(t, "left", "id", []string{"id", "random_id"}, survey.Values("1", "x"))
	right := keyed(t, "right", "id", []string{"id", "random_id"}, survey.Values("1", "y"))
	if _, err := reconcile.Merge(left, right, reconcile.MergeSpec{Key: "id"}); !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected schema error for shared column, got %v", err)
	}
	if _, err := reconcile.Merge(left, right, reconcile.MergeSpec{Key: "id", RightColumns: []string{}}); err != nil {
		t.Fatalf("expected key-only right projection to merge, got %v", err)
	}
}

func TestMergeEmptyJoin(t *testing.T) {
	left := keyed(t, "left", "id", []string{"id"}, survey.Values("1"))
	right := keyed(t, "right", "id", []string{"id"}, survey.Values("2"))
	if _, err := reconcile.Merge(left, right, reconcile.MergeSpec{Key: "id"}); !errors.Is(err, survey.ErrNoOverlap) {
		t.Fatalf("expected no-overlap error, got %v", err)
	}
}

func TestMergeMissingKey(t *testing.T) {
	left := keyed(t, "left", "id", []string{"id"}, survey.Values("1"))
	if _, err := reconcile.Merge(left, left, reconcile.MergeSpec{Key: "pid"}); !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
	if _, err := reconcile.Merge(left, left, reconcile.MergeSpec{}); !errors.Is(err, survey.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
