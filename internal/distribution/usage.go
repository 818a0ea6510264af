package distribution

import (
	"sdnsurvey/internal/survey"
)

// UsageSplit separates a services column into respondents who use (or have
// used) Smart DNS and respondents who are only considering it.
type UsageSplit struct {
	Using       MultiSelect `json:"using"`
	Considering MultiSelect `json:"considering"`
	// DefaultedMissing counts respondents whose usage answer was missing or
	// not Yes/No and were therefore placed in the considering group.
	DefaultedMissing int `json:"defaulted_missing"`
}

// SplitByUsage maps useColumn "Yes" to using and "No" to considering; any
// other answer, including a missing one, is treated as not using.
func SplitByUsage(t *survey.Table, useColumn, servicesColumn string) (UsageSplit, error) {
	idx, err := t.Schema().Require("usage split", useColumn, servicesColumn)
	if err != nil {
		return UsageSplit{}, err
	}
	var using, considering []survey.Value
	split := UsageSplit{}
	t.Each(func(_ int, r survey.Record) {
		use := r.At(idx[0])
		services := r.At(idx[1])
		switch {
		case use.Valid && use.Text == "Yes":
			using = append(using, services)
		case use.Valid && use.Text == "No":
			considering = append(considering, services)
		default:
			split.DefaultedMissing++
			considering = append(considering, services)
		}
	})
	split.Using = MultiSelectOf(servicesColumn, using)
	split.Considering = MultiSelectOf(servicesColumn, considering)
	return split, nil
}
