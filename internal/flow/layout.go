// Package flow builds weighted source-to-target edge lists for Sankey style
// visualizations from two categorical columns.
package flow

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sdnsurvey/internal/recode"
	"sdnsurvey/internal/survey"
)

// Side is one column of nodes. Node i carries the scale label at rank i+1.
type Side struct {
	Scale  recode.Scale
	Labels []string
	Colors []string
	X      float64
	Y      []float64
}

// Layout fixes node order, colors and coordinates for a graph.
type Layout struct {
	Title  string
	Source Side
	Target Side
}

// Node is a rendered node. Source nodes come first, then targets.
type Node struct {
	Label string  `json:"label"`
	Color string  `json:"color"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Validate checks that every side lists one label, color and coordinate per
// scale level.
func (l Layout) Validate() error {
	if err := l.Source.validate("source"); err != nil {
		return err
	}
	return l.Target.validate("target")
}

func (s Side) validate(which string) error {
	n := s.Scale.Len()
	if n == 0 {
		return survey.Wrap(survey.ErrConfiguration, "flow", "validate layout", which+" side has no scale", nil)
	}
	for name, got := range map[string]int{"labels": len(s.Labels), "colors": len(s.Colors), "y coordinates": len(s.Y)} {
		if got != n {
			return survey.Wrap(survey.ErrConfiguration, "flow", "validate layout",
				fmt.Sprintf("%s side of scale %q has %d %s, want %d", which, s.Scale.Name(), got, name, n), nil)
		}
	}
	return nil
}

// Nodes lists source nodes then target nodes.
func (l Layout) Nodes() []Node {
	nodes := make([]Node, 0, l.Source.Scale.Len()+l.Target.Scale.Len())
	for _, side := range []Side{l.Source, l.Target} {
		for i := range side.Labels {
			nodes = append(nodes, Node{Label: side.Labels[i], Color: side.Colors[i], X: side.X, Y: side.Y[i]})
		}
	}
	return nodes
}

// Spread returns n evenly spaced coordinates between 0.1 and 0.9.
func Spread(n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = 0.5
		return out
	}
	for i := range out {
		out[i] = 0.1 + 0.8*float64(i)/float64(n-1)
	}
	return out
}

// TitleLabels renders scale labels for display.
func TitleLabels(scale recode.Scale) []string {
	caser := cases.Title(language.Und)
	labels := scale.Labels()
	for i, label := range labels {
		labels[i] = caser.String(label)
	}
	return labels
}

func side(scale recode.Scale, x float64, colors ...string) Side {
	return Side{Scale: scale, Labels: TitleLabels(scale), Colors: colors, X: x, Y: Spread(scale.Len())}
}

// knowledgeSide keeps the knowledge labels as they are; they are already in
// display form.
func knowledgeSide(colors ...string) Side {
	s := side(recode.Knowledge, 0.9, colors...)
	s.Labels = recode.Knowledge.Labels()
	return s
}

// TrustLayout maps SDNS trustworthiness onto coded DNS knowledge.
func TrustLayout() Layout {
	src := side(recode.Trustworthiness, 0.1, "#053061", "#4393c3", "#efa882", "#d6604d", "#b2182b")
	src.Labels[2] = "Neither"
	return Layout{
		Title:  "SDNS Trustworthiness vs. DNS Knowledge",
		Source: src,
		Target: knowledgeSide("#67001f", "#b2182b", "#efa882", "#053061"),
	}
}

// SecurityLayout maps "SDNS improves security" agreement onto coded DNS
// knowledge.
func SecurityLayout() Layout {
	return agreementLayout("SDNS Improves Sec. v. DNS Knowledge")
}

// PrivacyLayout maps "SDNS improves privacy" agreement onto coded DNS
// knowledge.
func PrivacyLayout() Layout {
	return agreementLayout("SDNS Improves Priv. v. DNS Knowledge")
}

func agreementLayout(title string) Layout {
	return Layout{
		Title:  title,
		Source: side(recode.Agreement, 0.1, "#67001f", "#a42747", "#f4a582", "#fddbc7", "#92c5de", "#2166ac", "#053061"),
		Target: knowledgeSide("#67001f", "#efa882", "#92c5de", "#053061"),
	}
}
