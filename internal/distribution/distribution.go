package distribution

import (
	"sort"

	"sdnsurvey/internal/survey"
)

// Entry is the frequency of one observed value.
type Entry struct {
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Proportion float64 `json:"proportion"`
}

// Distribution is the frequency table of one column.
type Distribution struct {
	Column      string  `json:"column"`
	Description string  `json:"description,omitempty"`
	Observed    int     `json:"observed"`
	Missing     int     `json:"missing"`
	Entries     []Entry `json:"entries"`
}

// Of tabulates values. Entries are ordered by descending count, ties by value.
func Of(column string, values []survey.Value) Distribution {
	counts := make(map[string]int)
	d := Distribution{Column: column}
	for _, v := range values {
		if v.IsMissing() {
			d.Missing++
			continue
		}
		counts[v.Text]++
		d.Observed++
	}
	d.Entries = entries(counts, d.Observed)
	return d
}

// OfStrings tabulates plain observations, none of which are missing.
func OfStrings(column string, observations []string) Distribution {
	counts := make(map[string]int)
	for _, o := range observations {
		counts[o]++
	}
	return Distribution{Column: column, Observed: len(observations), Entries: entries(counts, len(observations))}
}

// Column tabulates the named column of t.
func Column(t *survey.Table, column string) (Distribution, error) {
	values, err := t.Column(column)
	if err != nil {
		return Distribution{}, err
	}
	return Of(column, values), nil
}

// Likert tabulates each named column and attaches its question text from
// catalog.
func Likert(t *survey.Table, catalog survey.Catalog, columns ...string) ([]Distribution, error) {
	if _, err := t.Schema().Require("distribution", columns...); err != nil {
		return nil, err
	}
	out := make([]Distribution, 0, len(columns))
	for _, col := range columns {
		d, err := Column(t, col)
		if err != nil {
			return nil, err
		}
		d.Description, _ = catalog.Describe(col)
		out = append(out, d)
	}
	return out, nil
}

// Count returns the count of value, or zero.
func (d Distribution) Count(value string) int {
	for _, e := range d.Entries {
		if e.Value == value {
			return e.Count
		}
	}
	return 0
}

// Proportion returns the normalized frequency of value, or zero.
func (d Distribution) Proportion(value string) float64 {
	for _, e := range d.Entries {
		if e.Value == value {
			return e.Proportion
		}
	}
	return 0
}

// Total sums the entry counts.
func (d Distribution) Total() int {
	total := 0
	for _, e := range d.Entries {
		total += e.Count
	}
	return total
}

func entries(counts map[string]int, total int) []Entry {
	out := make([]Entry, 0, len(counts))
	for value, count := range counts {
		e := Entry{Value: value, Count: count}
		if total > 0 {
			e.Proportion = float64(count) / float64(total)
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
