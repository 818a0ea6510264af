// Package scrub removes identifying and unneeded columns from raw survey
// tables before any analysis touches them.
package scrub

import (
	"fmt"

	"sdnsurvey/internal/survey"
)

// DefaultPIIColumns are the identifying fields present in every Qualtrics
// export used by the study.
var DefaultPIIColumns = []string{
	"IPAddress",
	"RecipientLastName",
	"RecipientFirstName",
	"RecipientEmail",
	"LocationLatitude",
	"LocationLongitude",
	"Status",
}

// Scrubber drops a fixed list of identifying columns.
type Scrubber struct {
	columns []string
}

// New constructs a scrubber for the given columns.
func New(columns []string) *Scrubber {
	cp := make([]string, len(columns))
	copy(cp, columns)
	return &Scrubber{columns: cp}
}

// Columns returns the identifying columns removed by Scrub.
func (s *Scrubber) Columns() []string {
	cp := make([]string, len(s.columns))
	copy(cp, s.columns)
	return cp
}

// Scrub returns t without the identifying columns. Every listed column must be
// present; an absent one means the export no longer matches the expected
// schema and is reported as survey.ErrSchema.
func (s *Scrubber) Scrub(t *survey.Table) (*survey.Table, error) {
	return Drop("pii scrub", t, s.columns...)
}

// Drop removes columns from t, labelling failures with stage.
func Drop(stage string, t *survey.Table, columns ...string) (*survey.Table, error) {
	if len(columns) == 0 {
		return t, nil
	}
	out, err := t.DropColumns(columns...)
	if err != nil {
		return nil, survey.Wrap(survey.ErrSchema, stage, "drop columns",
			fmt.Sprintf("table %s does not match the expected schema (%d records)", t.Name(), t.Len()), err)
	}
	return out, nil
}

// Keep projects t onto columns, labelling failures with stage.
func Keep(stage string, t *survey.Table, columns ...string) (*survey.Table, error) {
	out, err := t.Project(columns...)
	if err != nil {
		return nil, survey.Wrap(survey.ErrSchema, stage, "project columns",
			fmt.Sprintf("table %s does not match the expected schema (%d records)", t.Name(), t.Len()), err)
	}
	return out, nil
}
