// Package recode maps open-coded labels onto the ordered knowledge scale and
// converts ordinal or Likert labels into numeric ranks.
//
// Scales and the classification table are plain data passed to the code that
// uses them. The knowledge scale and the self-reported knowledge scale are
// separate values: a record may carry a rank from each, and nothing here
// converts one into the other.
package recode

import (
	"fmt"
	"strings"

	"sdnsurvey/internal/survey"
)

// Scale is a strictly ordered set of labels ranked from 1.
type Scale struct {
	name   string
	labels []string
	ranks  map[string]int
}

// NewScale builds a scale whose labels are ranked 1..n in the given order.
func NewScale(name string, labels ...string) (Scale, error) {
	if len(labels) == 0 {
		return Scale{}, survey.Wrap(survey.ErrConfiguration, "recode", "build scale", fmt.Sprintf("scale %q has no labels", name), nil)
	}
	s := Scale{name: name, labels: make([]string, len(labels)), ranks: make(map[string]int, len(labels))}
	copy(s.labels, labels)
	for i, label := range labels {
		if strings.TrimSpace(label) == "" {
			return Scale{}, survey.Wrap(survey.ErrConfiguration, "recode", "build scale", fmt.Sprintf("scale %q has an empty label", name), nil)
		}
		if _, dup := s.ranks[label]; dup {
			return Scale{}, survey.Wrap(survey.ErrConfiguration, "recode", "build scale",
				fmt.Sprintf("scale %q repeats label %q", name, label), nil)
		}
		s.ranks[label] = i + 1
	}
	return s, nil
}

func mustScale(name string, labels ...string) Scale {
	s, err := NewScale(name, labels...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the scale name.
func (s Scale) Name() string {
	return s.name
}

// Labels returns the labels in rank order.
func (s Scale) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Len returns the number of levels.
func (s Scale) Len() int {
	return len(s.labels)
}

// Contains reports whether label belongs to the scale.
func (s Scale) Contains(label string) bool {
	_, ok := s.ranks[label]
	return ok
}

// Rank returns the 1-based rank of label. Labels outside the scale fail with
// survey.ErrUnclassified.
func (s Scale) Rank(label string) (int, error) {
	rank, ok := s.ranks[label]
	if !ok {
		return 0, survey.Wrap(survey.ErrUnclassified, "recode", "rank",
			fmt.Sprintf("label outside scale %q: %s", s.name, survey.ColumnDetail("", label, 0)), nil)
	}
	return rank, nil
}

// Label returns the label at a 1-based rank.
func (s Scale) Label(rank int) (string, bool) {
	if rank < 1 || rank > len(s.labels) {
		return "", false
	}
	return s.labels[rank-1], true
}

const (
	Low     = "Low"
	Medium  = "Medium"
	MedHigh = "Med-High"
	High    = "High"
)

var (
	// Knowledge is the open-coded DNS knowledge scale.
	Knowledge = mustScale("knowledge", Low, Medium, MedHigh, High)

	// SelfKnowledge is the self-reported "do you know how DNS works" scale.
	SelfKnowledge = mustScale("self_knowledge",
		"I definitely do not know",
		"I'm not sure I know",
		"I somewhat know",
		"I definitely know",
	)

	// Agreement is the seven-point agree/disagree Likert scale.
	Agreement = mustScale("agreement",
		"Strongly agree",
		"Agree",
		"Somewhat agree",
		"Neither agree nor disagree",
		"Somewhat disagree",
		"Disagree",
		"Strongly disagree",
	)

	// Trustworthiness is the five-point trustworthy/untrustworthy Likert scale.
	Trustworthiness = mustScale("trustworthiness",
		"Very trustworthy",
		"Slightly trustworthy",
		"Neither trustworthy nor untrustworthy",
		"Slightly untrustworthy",
		"Very untrustworthy",
	)
)

// ScaleByName returns one of the built-in scales.
func ScaleByName(name string) (Scale, bool) {
	for _, s := range []Scale{Knowledge, SelfKnowledge, Agreement, Trustworthiness} {
		if s.name == name {
			return s, true
		}
	}
	return Scale{}, false
}
