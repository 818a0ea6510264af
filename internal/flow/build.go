package flow

import (
	"fmt"
	"sort"
	"strings"

	"sdnsurvey/internal/survey"
)

// Edge is one weighted link. Ranks are 1-based scale ranks; node indexes
// address Graph.Nodes, with targets offset by the number of source nodes.
type Edge struct {
	SourceRank int    `json:"source_rank"`
	TargetRank int    `json:"target_rank"`
	SourceNode int    `json:"source_node"`
	TargetNode int    `json:"target_node"`
	Weight     int    `json:"weight"`
	Color      string `json:"color"`
}

// Graph is a built flow graph. Total is the number of records with both
// columns present and always equals the sum of edge weights.
type Graph struct {
	Title   string `json:"title"`
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
	Total   int    `json:"total"`
	Skipped int    `json:"skipped"`
}

// Build counts (source, target) pairs over parallel value slices. Records
// missing either value are skipped. Any present value outside the layout's
// scales fails the whole build with survey.ErrUnclassified.
func Build(layout Layout, source, target []survey.Value) (Graph, error) {
	if err := layout.Validate(); err != nil {
		return Graph{}, err
	}
	if len(source) != len(target) {
		return Graph{}, survey.Wrap(survey.ErrSchema, "flow", "pair columns",
			fmt.Sprintf("source has %d values, target has %d", len(source), len(target)), nil)
	}

	type pair struct{ src, dst int }
	weights := make(map[pair]int)
	unknown := make(map[string]int)
	g := Graph{Title: layout.Title, Nodes: layout.Nodes()}
	for i := range source {
		if source[i].IsMissing() || target[i].IsMissing() {
			g.Skipped++
			continue
		}
		src, srcOK := rankOf(layout.Source, source[i].Text)
		dst, dstOK := rankOf(layout.Target, target[i].Text)
		if !srcOK {
			unknown["source "+source[i].Text]++
		}
		if !dstOK {
			unknown["target "+target[i].Text]++
		}
		if !srcOK || !dstOK {
			continue
		}
		weights[pair{src, dst}]++
		g.Total++
	}
	if len(unknown) > 0 {
		return Graph{}, survey.Wrap(survey.ErrUnclassified, "flow", "map categories",
			fmt.Sprintf("%q: values outside layout: %s", layout.Title, describeUnknown(unknown)), nil)
	}

	offset := layout.Source.Scale.Len()
	g.Edges = make([]Edge, 0, len(weights))
	for p, w := range weights {
		g.Edges = append(g.Edges, Edge{
			SourceRank: p.src,
			TargetRank: p.dst,
			SourceNode: p.src - 1,
			TargetNode: offset + p.dst - 1,
			Weight:     w,
			Color:      layout.Source.Colors[p.src-1],
		})
	}
	sort.Slice(g.Edges, func(i, j int) bool {
		a, b := g.Edges[i], g.Edges[j]
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		if a.SourceRank != b.SourceRank {
			return a.SourceRank < b.SourceRank
		}
		return a.TargetRank < b.TargetRank
	})
	return g, nil
}

// BuildFromTable reads both columns from t and builds the graph.
func BuildFromTable(layout Layout, t *survey.Table, sourceColumn, targetColumn string) (Graph, error) {
	if _, err := t.Schema().Require("flow", sourceColumn, targetColumn); err != nil {
		return Graph{}, err
	}
	src, _ := t.Column(sourceColumn)
	dst, _ := t.Column(targetColumn)
	return Build(layout, src, dst)
}

// WeightSum adds up edge weights.
func (g Graph) WeightSum() int {
	sum := 0
	for _, e := range g.Edges {
		sum += e.Weight
	}
	return sum
}

func rankOf(s Side, label string) (int, bool) {
	rank, err := s.Scale.Rank(label)
	return rank, err == nil
}

func describeUnknown(unknown map[string]int) string {
	keys := make([]string, 0, len(unknown))
	for k := range unknown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%q (%d)", k, unknown[k])
	}
	return strings.Join(parts, ", ")
}
