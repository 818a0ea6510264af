package flow_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sdnsurvey/internal/flow"
	"sdnsurvey/internal/survey"
)

func TestBuildWeightsMatchPresentRecords(t *testing.T) {
	source := []survey.Value{
		survey.Present("Very trustworthy"),
		survey.Present("Very trustworthy"),
		survey.Present("Slightly untrustworthy"),
		survey.Missing,
		survey.Present("Very trustworthy"),
	}
	target := survey.Values("High", "High", "Low", "Medium", "Low")

	g, err := flow.Build(flow.TrustLayout(), source, target)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if g.Total != 4 || g.WeightSum() != 4 {
		t.Fatalf("expected total and weight sum 4, got total=%d sum=%d", g.Total, g.WeightSum())
	}
	if g.Skipped != 1 {
		t.Fatalf("expected 1 skipped record, got %d", g.Skipped)
	}
	want := []flow.Edge{
		{SourceRank: 1, TargetRank: 4, SourceNode: 0, TargetNode: 8, Weight: 2, Color: "#053061"},
		{SourceRank: 1, TargetRank: 1, SourceNode: 0, TargetNode: 5, Weight: 1, Color: "#053061"},
		{SourceRank: 4, TargetRank: 1, SourceNode: 3, TargetNode: 5, Weight: 1, Color: "#d6604d"},
	}
	if diff := cmp.Diff(want, g.Edges); diff != "" {
		t.Fatalf("unexpected edges (-want +got):\n%s", diff)
	}
}

func TestBuildEdgeColorFollowsSource(t *testing.T) {
	layout := flow.SecurityLayout()
	source := survey.Values("Strongly agree", "Disagree", "Disagree", "Neither agree nor disagree")
	target := survey.Values("Low", "High", "Medium", "Med-High")
	g, err := flow.Build(layout, source, target)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	for _, e := range g.Edges {
		if want := layout.Source.Colors[e.SourceRank-1]; e.Color != want {
			t.Fatalf("edge %+v color %q, want source color %q", e, e.Color, want)
		}
		if g.Nodes[e.SourceNode].Color != e.Color {
			t.Fatalf("edge %+v does not match its source node %+v", e, g.Nodes[e.SourceNode])
		}
	}
}

func TestBuildRejectsUnknownCategories(t *testing.T) {
	source := survey.Values("Strongly agree", "Kind of agree", "Kind of agree")
	target := survey.Values("Low", "Low", "Low")
	_, err := flow.Build(flow.PrivacyLayout(), source, target)
	if !errors.Is(err, survey.ErrUnclassified) {
		t.Fatalf("expected unclassified error, got %v", err)
	}
	if !strings.Contains(err.Error(), `"source Kind of agree" (2)`) {
		t.Fatalf("error should name the value and count: %v", err)
	}

	_, err = flow.Build(flow.PrivacyLayout(), survey.Values("Agree"), survey.Values("Expert"))
	if !errors.Is(err, survey.ErrUnclassified) {
		t.Fatalf("expected unclassified error for target, got %v", err)
	}
}

func TestBuildLengthMismatch(t *testing.T) {
	_, err := flow.Build(flow.TrustLayout(), survey.Values("Very trustworthy"), nil)
	if !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestLayoutsAreConsistent(t *testing.T) {
	for _, layout := range []flow.Layout{flow.TrustLayout(), flow.SecurityLayout(), flow.PrivacyLayout()} {
		if err := layout.Validate(); err != nil {
			t.Fatalf("%s: %v", layout.Title, err)
		}
	}
	trust := flow.TrustLayout().Nodes()
	labels := make([]string, len(trust))
	for i, n := range trust {
		labels[i] = n.Label
	}
	want := []string{
		"Very Trustworthy", "Slightly Trustworthy", "Neither", "Slightly Untrustworthy", "Very Untrustworthy",
		"Low", "Medium", "Med-High", "High",
	}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Fatalf("unexpected trust labels (-want +got):\n%s", diff)
	}
	if got := flow.SecurityLayout().Source.Labels[3]; got != "Neither Agree Nor Disagree" {
		t.Fatalf("unexpected agreement label %q", got)
	}
}

func TestValidateRejectsShortColorTable(t *testing.T) {
	layout := flow.TrustLayout()
	layout.Target.Colors = layout.Target.Colors[:2]
	if err := layout.Validate(); !errors.Is(err, survey.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestBuildFromTableRequiresColumns(t *testing.T) {
	table, err := survey.NewTable("merged", []string{"Q9.1"}, [][]survey.Value{survey.Values("Very trustworthy")})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if _, err := flow.BuildFromTable(flow.TrustLayout(), table, "Q9.1", "simplified_code"); !errors.Is(err, survey.ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestLayoutNodesSpreadEvenly(t *testing.T) {
	layout := flow.TrustLayout()
	nodes := layout.Nodes()
	var sourceY, targetY []float64
	for i, n := range nodes {
		if i < len(layout.Source.Labels) {
			sourceY = append(sourceY, n.Y)
		} else {
			targetY = append(targetY, n.Y)
		}
	}
	if diff := cmp.Diff(flow.Spread(5), sourceY); diff != "" {
		t.Fatalf("source y mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(flow.Spread(4), targetY); diff != "" {
		t.Fatalf("target y mismatch (-want +got):\n%s", diff)
	}
	if got := flow.Spread(5); got[0] != 0.1 || got[2] != 0.5 || got[4] != 0.9 {
		t.Fatalf("unexpected spread %v", got)
	}
	if got := flow.Spread(1); len(got) != 1 || got[0] != 0.5 {
		t.Fatalf("single node should sit at 0.5, got %v", got)
	}
}
