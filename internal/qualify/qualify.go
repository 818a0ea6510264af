// Package qualify keeps only respondents who satisfy every eligibility rule.
//
// A missing answer never satisfies a rule unless the rule opts in with
// AllowMissing. Incomplete prescreen responses are therefore disqualified
// rather than silently counted as eligible.
package qualify

import (
	"fmt"
	"slices"
	"strings"

	"sdnsurvey/internal/survey"
)

// Op names a rule comparison.
type Op string

const (
	OpEquals    Op = "equals"
	OpNotEquals Op = "not_equals"
	OpIn        Op = "in"
	OpNotIn     Op = "not_in"
)

// Rule is one named boolean predicate over a single column.
type Rule struct {
	Name         string
	Column       string
	Op           Op
	Values       []string
	AllowMissing bool
}

// Validate reports whether the rule is well formed.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return survey.Wrap(survey.ErrConfiguration, "qualify", "validate rule", "rule name must be set", nil)
	}
	if strings.TrimSpace(r.Column) == "" {
		return survey.Wrap(survey.ErrConfiguration, "qualify", "validate rule", fmt.Sprintf("rule %q has no column", r.Name), nil)
	}
	switch r.Op {
	case OpEquals, OpNotEquals:
		if len(r.Values) != 1 {
			return survey.Wrap(survey.ErrConfiguration, "qualify", "validate rule",
				fmt.Sprintf("rule %q: %s takes exactly one value", r.Name, r.Op), nil)
		}
	case OpIn, OpNotIn:
		if len(r.Values) == 0 {
			return survey.Wrap(survey.ErrConfiguration, "qualify", "validate rule",
				fmt.Sprintf("rule %q: %s needs at least one value", r.Name, r.Op), nil)
		}
	default:
		return survey.Wrap(survey.ErrConfiguration, "qualify", "validate rule",
			fmt.Sprintf("rule %q: unsupported op %q", r.Name, r.Op), nil)
	}
	return nil
}

// Holds evaluates the rule against one value.
func (r Rule) Holds(v survey.Value) bool {
	if v.IsMissing() {
		return r.AllowMissing
	}
	switch r.Op {
	case OpEquals:
		return v.Text == r.Values[0]
	case OpNotEquals:
		return v.Text != r.Values[0]
	case OpIn:
		return slices.Contains(r.Values, v.Text)
	case OpNotIn:
		return !slices.Contains(r.Values, v.Text)
	default:
		return false
	}
}

// Filter applies a fixed rule set.
type Filter struct {
	stage string
	rules []Rule
}

// New validates rules and builds a filter. stage labels log lines and errors.
func New(stage string, rules ...Rule) (*Filter, error) {
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, err
		}
	}
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &Filter{stage: stage, rules: cp}, nil
}

// RuleOutcome counts how one rule affected the input.
type RuleOutcome struct {
	Rule     string `json:"rule"`
	Column   string `json:"column"`
	Rejected int    `json:"rejected"`
	Missing  int    `json:"missing"`
}

// Report summarizes a filter run.
type Report struct {
	Input    int           `json:"input"`
	Kept     int           `json:"kept"`
	Outcomes []RuleOutcome `json:"outcomes"`
}

// Apply returns the records satisfying every rule, in original order. All
// rule columns must exist.
func (f *Filter) Apply(t *survey.Table) (*survey.Table, Report, error) {
	columns := make([]string, len(f.rules))
	for i, rule := range f.rules {
		columns[i] = rule.Column
	}
	idx, err := t.Schema().Require(f.stage, columns...)
	if err != nil {
		return nil, Report{}, err
	}

	report := Report{Input: t.Len(), Outcomes: make([]RuleOutcome, len(f.rules))}
	for i, rule := range f.rules {
		report.Outcomes[i] = RuleOutcome{Rule: rule.Name, Column: rule.Column}
	}

	out := t.Filter(func(r survey.Record) bool {
		keep := true
		for i, rule := range f.rules {
			v := r.At(idx[i])
			if v.IsMissing() {
				report.Outcomes[i].Missing++
			}
			if !rule.Holds(v) {
				report.Outcomes[i].Rejected++
				keep = false
			}
		}
		return keep
	})
	report.Kept = out.Len()
	return out, report, nil
}
