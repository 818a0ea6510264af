package recode_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sdnsurvey/internal/recode"
	"sdnsurvey/internal/survey"
)

func TestClassifyScenarios(t *testing.T) {
	c := recode.DefaultClassifier()
	cases := []struct {
		code      survey.Value
		wantLabel string
		wantRank  int
	}{
		{survey.Present("maps_domain_to_ip"), recode.High, 4},
		{survey.Present("don't_know"), recode.Low, 1},
		{survey.Present("maps_website_to_ip"), recode.MedHigh, 3},
		{survey.Present("translates_domains_for_browsers"), recode.Medium, 2},
		{survey.Missing, recode.Low, 1},
	}
	for _, tc := range cases {
		label, known := c.Classify(tc.code)
		if !known || label != tc.wantLabel {
			t.Fatalf("Classify(%+v) = %q, %v; want %q", tc.code, label, known, tc.wantLabel)
		}
		rank, err := recode.Knowledge.Rank(label)
		if err != nil {
			t.Fatalf("Rank(%q) returned error: %v", label, err)
		}
		if rank != tc.wantRank {
			t.Fatalf("Rank(%q) = %d, want %d", label, rank, tc.wantRank)
		}
	}
}

func TestEveryTableCodeLandsOnScale(t *testing.T) {
	c := recode.DefaultClassifier()
	for bucket, codes := range recode.DefaultCodeBuckets {
		for _, code := range codes {
			label, known := c.Classify(survey.Present(code))
			if !known || label != bucket {
				t.Fatalf("code %q classified as %q (%v), want %q", code, label, known, bucket)
			}
			if !recode.Knowledge.Contains(label) {
				t.Fatalf("code %q mapped off-scale to %q", code, label)
			}
		}
	}
}

func TestUnknownCodePassesThrough(t *testing.T) {
	label, known := recode.DefaultClassifier().Classify(survey.Present("new_code"))
	if known {
		t.Fatal("expected unknown code to be flagged")
	}
	if label != "new_code" {
		t.Fatalf("expected code returned unchanged, got %q", label)
	}
	if _, err := recode.Knowledge.Rank(label); !errors.Is(err, survey.ErrUnclassified) {
		t.Fatalf("expected unclassified error when ranking passthrough, got %v", err)
	}
}

func TestScaleRanksStartAtOneAndIncrease(t *testing.T) {
	for _, scale := range []recode.Scale{recode.Knowledge, recode.SelfKnowledge, recode.Agreement, recode.Trustworthiness} {
		for i, label := range scale.Labels() {
			rank, err := scale.Rank(label)
			if err != nil {
				t.Fatalf("%s: Rank(%q) returned error: %v", scale.Name(), label, err)
			}
			if rank != i+1 {
				t.Fatalf("%s: Rank(%q) = %d, want %d", scale.Name(), label, rank, i+1)
			}
			back, ok := scale.Label(rank)
			if !ok || back != label {
				t.Fatalf("%s: Label(%d) = %q, want %q", scale.Name(), rank, back, label)
			}
		}
	}
}

func TestScalesAreNotConflated(t *testing.T) {
	if recode.Knowledge.Contains("I definitely know") {
		t.Fatal("knowledge scale must not accept self-report labels")
	}
	if recode.SelfKnowledge.Contains(recode.High) {
		t.Fatal("self-report scale must not accept knowledge labels")
	}
}

func TestNewScaleRejectsBadLabels(t *testing.T) {
	if _, err := recode.NewScale("empty"); !errors.Is(err, survey.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := recode.NewScale("dup", "a", "a"); !errors.Is(err, survey.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestNewClassifierValidatesBuckets(t *testing.T) {
	if _, err := recode.NewClassifier(recode.Knowledge, "Unknown", nil); !errors.Is(err, survey.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing bucket, got %v", err)
	}
	if _, err := recode.NewClassifier(recode.Knowledge, recode.Low, map[string][]string{"Expert": {"x"}}); !errors.Is(err, survey.ErrConfiguration) {
		t.Fatalf("expected configuration error for off-scale bucket, got %v", err)
	}
	dup := map[string][]string{recode.Low: {"x"}, recode.High: {"x"}}
	if _, err := recode.NewClassifier(recode.Knowledge, recode.Low, dup); !errors.Is(err, survey.ErrConfiguration) {
		t.Fatalf("expected configuration error for duplicate code, got %v", err)
	}
}

func TestRecodeColumnReportsUnclassified(t *testing.T) {
	table, err := survey.NewTable("codes", []string{"ResponseId", "Code 1"}, [][]survey.Value{
		survey.Values("R1", "sdns"),
		survey.Values("R2", "brand_new"),
		{survey.Present("R3"), survey.Missing},
		survey.Values("R4", "brand_new"),
	})
	if err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	res, err := recode.DefaultClassifier().RecodeColumn(table, "Code 1", "simplified_code")
	if err != nil {
		t.Fatalf("RecodeColumn returned error: %v", err)
	}
	col, err := res.Table.Column("simplified_code")
	if err != nil {
		t.Fatalf("Column returned error: %v", err)
	}
	got := []string{col[0].Text, col[1].Text, col[2].Text, col[3].Text}
	if diff := cmp.Diff([]string{recode.Low, "brand_new", recode.Low, "brand_new"}, got); diff != "" {
		t.Fatalf("unexpected recoding (-want +got):\n%s", diff)
	}
	want := []recode.UnclassifiedCode{{Code: "brand_new", Count: 2}}
	if diff := cmp.Diff(want, res.Unclassified); diff != "" {
		t.Fatalf("unexpected unclassified (-want +got):\n%s", diff)
	}
}

func TestRankColumn(t *testing.T) {
	table, err := survey.NewTable("data", []string{"Q3.2"}, [][]survey.Value{
		survey.Values("I definitely know"),
		{survey.Missing},
		survey.Values("I definitely do not know"),
	})
	if err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	ranks, present, err := recode.RankColumn(table, "Q3.2", recode.SelfKnowledge)
	if err != nil {
		t.Fatalf("RankColumn returned error: %v", err)
	}
	if diff := cmp.Diff([]int{4, 0, 1}, ranks); diff != "" {
		t.Fatalf("unexpected ranks (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true, false, true}, present); diff != "" {
		t.Fatalf("unexpected presence (-want +got):\n%s", diff)
	}

	bad, err := survey.NewTable("data", []string{"Q3.2"}, [][]survey.Value{survey.Values("Maybe")})
	if err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	if _, _, err := recode.RankColumn(bad, "Q3.2", recode.SelfKnowledge); !errors.Is(err, survey.ErrUnclassified) {
		t.Fatalf("expected unclassified error, got %v", err)
	}
}
