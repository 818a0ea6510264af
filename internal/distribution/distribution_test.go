package distribution_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sdnsurvey/internal/distribution"
	"sdnsurvey/internal/survey"
)

func TestOfExcludesMissing(t *testing.T) {
	values := []survey.Value{
		survey.Present("Agree"), survey.Missing, survey.Present("Agree"),
		survey.Present("Disagree"), survey.Missing,
	}
	d := distribution.Of("Q4.5", values)
	if d.Observed != 3 || d.Missing != 2 {
		t.Fatalf("unexpected totals: observed %d missing %d", d.Observed, d.Missing)
	}
	want := []distribution.Entry{
		{Value: "Agree", Count: 2, Proportion: 2.0 / 3.0},
		{Value: "Disagree", Count: 1, Proportion: 1.0 / 3.0},
	}
	if diff := cmp.Diff(want, d.Entries); diff != "" {
		t.Fatalf("unexpected entries (-want +got):\n%s", diff)
	}
}

func TestCountsSumToObservations(t *testing.T) {
	labels := []string{"a", "b", "c", "d"}
	for n := 1; n < 40; n++ {
		values := make([]survey.Value, n)
		nonMissing := 0
		for i := range values {
			if (i*7+n)%5 == 0 {
				values[i] = survey.Missing
				continue
			}
			values[i] = survey.Present(labels[(i*3+n)%len(labels)])
			nonMissing++
		}
		d := distribution.Of("c", values)
		if d.Total() != nonMissing {
			t.Fatalf("n=%d: counts sum to %d, want %d", n, d.Total(), nonMissing)
		}
		if nonMissing == 0 {
			continue
		}
		sum := 0.0
		for _, e := range d.Entries {
			sum += e.Proportion
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("n=%d: proportions sum to %v", n, sum)
		}
	}
}

func TestOfAllMissingIsEmpty(t *testing.T) {
	d := distribution.Of("c", []survey.Value{survey.Missing, survey.Missing})
	if len(d.Entries) != 0 || d.Observed != 0 || d.Missing != 2 {
		t.Fatalf("unexpected distribution: %+v", d)
	}
}

func TestLikertAttachesDescriptions(t *testing.T) {
	table, err := survey.NewTable("reddit", []string{"Q13.1", "Q13.2"}, [][]survey.Value{
		survey.Values("25-34", "Bachelor's degree"),
		{survey.Present("18-24"), survey.Missing},
	})
	if err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	catalog := survey.NewCatalog([]string{"Q13.1", "Q13.2"}, []string{"What is your age?", "Highest degree"})
	block, err := distribution.Likert(table, catalog, "Q13.1", "Q13.2")
	if err != nil {
		t.Fatalf("Likert returned error: %v", err)
	}
	if len(block) != 2 {
		t.Fatalf("expected 2 distributions, got %d", len(block))
	}
	if block[0].Description != "What is your age?" {
		t.Fatalf("unexpected description %q", block[0].Description)
	}
	if block[1].Observed != 1 || block[1].Missing != 1 {
		t.Fatalf("unexpected totals: %+v", block[1])
	}
	if _, err := distribution.Likert(table, catalog, "Q99"); err == nil {
		t.Fatal("expected error for absent column")
	}
}
