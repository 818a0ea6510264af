package distribution

import (
	"sort"
	"strings"

	"sdnsurvey/internal/survey"
)

// SelectionCount is how many respondents chose exactly K options.
type SelectionCount struct {
	K          int     `json:"k"`
	Count      int     `json:"count"`
	Proportion float64 `json:"proportion"`
}

// SelectionGroup is the option breakdown among respondents who chose exactly
// K options.
type SelectionGroup struct {
	K           int          `json:"k"`
	Respondents int          `json:"respondents"`
	Options     Distribution `json:"options"`
}

// Prevalence returns the share of the group's respondents that chose option.
func (g SelectionGroup) Prevalence(option string) float64 {
	if g.Respondents == 0 {
		return 0
	}
	return float64(g.Options.Count(option)) / float64(g.Respondents)
}

// MultiSelect is the two-level breakdown of a "select all that apply"
// column: first by number of selections, then by option within each count.
type MultiSelect struct {
	Column          string           `json:"column"`
	Description     string           `json:"description,omitempty"`
	Respondents     int              `json:"respondents"`
	Missing         int              `json:"missing"`
	SelectionCounts []SelectionCount `json:"selection_counts"`
	Groups          []SelectionGroup `json:"groups"`
	// Overall explodes every selection across all respondents. It mixes
	// respondents with different selection counts and is kept for reference
	// next to the per-count groups.
	Overall Distribution `json:"overall"`
}

// Group returns the breakdown for respondents with exactly k selections.
func (m MultiSelect) Group(k int) (SelectionGroup, bool) {
	for _, g := range m.Groups {
		if g.K == k {
			return g, true
		}
	}
	return SelectionGroup{}, false
}

// SelectionCount returns how many respondents chose exactly k options.
func (m MultiSelect) SelectionCount(k int) int {
	for _, sc := range m.SelectionCounts {
		if sc.K == k {
			return sc.Count
		}
	}
	return 0
}

// SplitSelections splits a comma-delimited multi-select answer. Empty pieces
// are discarded; a value with no pieces yields nil.
func SplitSelections(v survey.Value) []string {
	if v.IsMissing() {
		return nil
	}
	parts := strings.Split(v.Text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// MultiSelectOf breaks down values. Values with no selections count as
// missing.
func MultiSelectOf(column string, values []survey.Value) MultiSelect {
	m := MultiSelect{Column: column}
	byK := make(map[int][]string)
	respondentsByK := make(map[int]int)
	var all []string
	for _, v := range values {
		picks := SplitSelections(v)
		if len(picks) == 0 {
			m.Missing++
			continue
		}
		m.Respondents++
		k := len(picks)
		respondentsByK[k]++
		byK[k] = append(byK[k], picks...)
		all = append(all, picks...)
	}

	ks := make([]int, 0, len(respondentsByK))
	for k := range respondentsByK {
		ks = append(ks, k)
	}
	sort.Ints(ks)
	for _, k := range ks {
		sc := SelectionCount{K: k, Count: respondentsByK[k]}
		sc.Proportion = float64(sc.Count) / float64(m.Respondents)
		m.SelectionCounts = append(m.SelectionCounts, sc)
		m.Groups = append(m.Groups, SelectionGroup{
			K:           k,
			Respondents: respondentsByK[k],
			Options:     OfStrings(column, byK[k]),
		})
	}
	m.Overall = OfStrings(column, all)
	return m
}

// MultiSelectColumn breaks down the named column of t.
func MultiSelectColumn(t *survey.Table, column string) (MultiSelect, error) {
	values, err := t.Column(column)
	if err != nil {
		return MultiSelect{}, err
	}
	return MultiSelectOf(column, values), nil
}
