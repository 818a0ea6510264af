package recode

import (
	"fmt"
	"sort"

	"sdnsurvey/internal/survey"
)

// DefaultCodeBuckets groups the primary open codes for "explain how DNS
// works" by the level of understanding they denote.
var DefaultCodeBuckets = map[string][]string{
	Low: {
		"sdns",
		"protocol_unclear",
		"don't_know",
		"identifies_pc_by_ip",
		"missing_details",
	},
	Medium: {
		"navigation_to_website",
		"maps_website_to_Internet_name",
		"maps_ip_to_domain",
		"translates_domains_for_browsers",
	},
	MedHigh: {
		"maps_website_to_ip",
	},
	High: {
		"maps_domain_to_ip",
		"query_dns_server",
		"query_recursive_dns",
	},
}

// Classifier maps open codes onto a scale.
type Classifier struct {
	scale   Scale
	missing string
	buckets map[string]string
}

// NewClassifier builds a classifier over scale. Every bucket must be a
// label of scale and a code may belong to one bucket only. Missing codes are
// classified as missingBucket.
func NewClassifier(scale Scale, missingBucket string, buckets map[string][]string) (*Classifier, error) {
	if !scale.Contains(missingBucket) {
		return nil, survey.Wrap(survey.ErrConfiguration, "recode", "build classifier",
			fmt.Sprintf("missing-code bucket %q is not on scale %q", missingBucket, scale.Name()), nil)
	}
	c := &Classifier{scale: scale, missing: missingBucket, buckets: make(map[string]string)}
	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		if !scale.Contains(label) {
			return nil, survey.Wrap(survey.ErrConfiguration, "recode", "build classifier",
				fmt.Sprintf("bucket %q is not on scale %q", label, scale.Name()), nil)
		}
		for _, code := range buckets[label] {
			if prev, dup := c.buckets[code]; dup {
				return nil, survey.Wrap(survey.ErrConfiguration, "recode", "build classifier",
					fmt.Sprintf("code %q is in both %q and %q", code, prev, label), nil)
			}
			c.buckets[code] = label
		}
	}
	return c, nil
}

// DefaultClassifier returns the knowledge classifier used by the study.
func DefaultClassifier() *Classifier {
	c, err := NewClassifier(Knowledge, Low, DefaultCodeBuckets)
	if err != nil {
		panic(err)
	}
	return c
}

// Scale returns the scale the classifier maps onto.
func (c *Classifier) Scale() Scale {
	return c.scale
}

// Classify maps one open code. A missing code maps to the missing bucket:
// no description is evidence of not understanding the mechanism. A code not
// in the table is returned unchanged with known false so callers can flag it.
func (c *Classifier) Classify(code survey.Value) (string, bool) {
	if code.IsMissing() {
		return c.missing, true
	}
	if label, ok := c.buckets[code.Text]; ok {
		return label, true
	}
	return code.Text, false
}

// Recoded is the outcome of recoding a table column.
type Recoded struct {
	Table *survey.Table
	// Unclassified lists distinct codes not in the table, in first
	// occurrence order, with their row counts.
	Unclassified []UnclassifiedCode
}

// UnclassifiedCode is a code that passed through unchanged.
type UnclassifiedCode struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// RecodeColumn classifies every value of source into a new column target.
// Unknown codes are copied unchanged into target and listed in the result.
func (c *Classifier) RecodeColumn(t *survey.Table, source, target string) (Recoded, error) {
	values, err := t.Column(source)
	if err != nil {
		return Recoded{}, err
	}
	out := make([]survey.Value, len(values))
	counts := map[string]int{}
	var order []string
	for i, v := range values {
		label, known := c.Classify(v)
		out[i] = survey.Present(label)
		if !known {
			if counts[label] == 0 {
				order = append(order, label)
			}
			counts[label]++
		}
	}
	table, err := t.WithColumn(target, out)
	if err != nil {
		return Recoded{}, err
	}
	res := Recoded{Table: table}
	for _, code := range order {
		res.Unclassified = append(res.Unclassified, UnclassifiedCode{Code: code, Count: counts[code]})
	}
	return res, nil
}

// RankColumn converts a column to ranks on scale. Missing values are
// reported as absent (ok false at that position); any present value outside
// the scale fails with survey.ErrUnclassified naming the value and how many
// records carry it.
func RankColumn(t *survey.Table, column string, scale Scale) ([]int, []bool, error) {
	values, err := t.Column(column)
	if err != nil {
		return nil, nil, err
	}
	ranks := make([]int, len(values))
	present := make([]bool, len(values))
	var bad []string
	badCounts := map[string]int{}
	for i, v := range values {
		if v.IsMissing() {
			continue
		}
		rank, err := scale.Rank(v.Text)
		if err != nil {
			if badCounts[v.Text] == 0 {
				bad = append(bad, v.Text)
			}
			badCounts[v.Text]++
			continue
		}
		ranks[i] = rank
		present[i] = true
	}
	if len(bad) > 0 {
		total := 0
		for _, n := range badCounts {
			total += n
		}
		return nil, nil, survey.Wrap(survey.ErrUnclassified, "recode", "rank column",
			fmt.Sprintf("%d distinct labels outside scale %q; first: %s", len(bad), scale.Name(),
				survey.ColumnDetail(column, bad[0], badCounts[bad[0]]))+fmt.Sprintf(" (%d records total)", total), nil)
	}
	return ranks, present, nil
}
