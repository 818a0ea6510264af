package reconcile

import (
	"fmt"
	"strings"

	"sdnsurvey/internal/survey"
)

// MergeSpec describes an inner join on a shared identifier column.
type MergeSpec struct {
	// Key is the identifier column present on both sides.
	Key string
	// LeftColumns and RightColumns are the non-key columns kept from each
	// side. A nil slice keeps every column of that side.
	LeftColumns  []string
	RightColumns []string
}

// Merge inner-joins left and right on spec.Key. The output holds the key
// followed by the projected left columns and then the projected right
// columns, in left row order, and is keyed by spec.Key.
//
// Duplicate keys on either side are a data-integrity violation and fail
// with survey.ErrSchema rather than fanning out. A column name kept from
// both sides also fails, since one of the two would shadow the other. An
// empty join fails with survey.ErrNoOverlap.
func Merge(left, right *survey.Table, spec MergeSpec) (*survey.Table, error) {
	if strings.TrimSpace(spec.Key) == "" {
		return nil, survey.Wrap(survey.ErrConfiguration, "merge", "validate", "join key must be set", nil)
	}
	leftCols, err := projection(left, spec.Key, spec.LeftColumns)
	if err != nil {
		return nil, err
	}
	rightCols, err := projection(right, spec.Key, spec.RightColumns)
	if err != nil {
		return nil, err
	}
	if err := checkCollisions(leftCols, rightCols); err != nil {
		return nil, err
	}

	if _, err := uniqueIndex(left, spec.Key); err != nil {
		return nil, err
	}
	rightIndex, err := uniqueIndex(right, spec.Key)
	if err != nil {
		return nil, err
	}

	leftPos, _ := left.Schema().Require("merge", leftCols...)
	rightPos, _ := right.Schema().Require("merge", rightCols...)
	keyPos, _ := left.Schema().Index(spec.Key)

	columns := make([]string, 0, 1+len(leftCols)+len(rightCols))
	columns = append(columns, spec.Key)
	columns = append(columns, leftCols...)
	columns = append(columns, rightCols...)

	var rows [][]survey.Value
	for i := 0; i < left.Len(); i++ {
		r := left.Row(i)
		key := r.At(keyPos)
		if key.IsMissing() {
			continue
		}
		j, ok := rightIndex[key.Text]
		if !ok {
			continue
		}
		other := right.Row(j)
		row := make([]survey.Value, 0, len(columns))
		row = append(row, key)
		for _, p := range leftPos {
			row = append(row, r.At(p))
		}
		for _, p := range rightPos {
			row = append(row, other.At(p))
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, survey.Wrap(survey.ErrNoOverlap, "merge", "join",
			fmt.Sprintf("%s and %s share no %q values", left.Name(), right.Name(), spec.Key), nil)
	}

	merged, err := survey.NewTable(left.Name()+"+"+right.Name(), columns, rows)
	if err != nil {
		return nil, err
	}
	return merged.WithID(spec.Key)
}

func projection(t *survey.Table, key string, columns []string) ([]string, error) {
	if !t.Schema().Has(key) {
		return nil, survey.Wrap(survey.ErrSchema, "merge", "resolve key",
			fmt.Sprintf("table %s has no join key %q (%d records)", t.Name(), key, t.Len()), nil)
	}
	if columns == nil {
		columns = t.Columns()
	}
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		if col == key {
			continue
		}
		out = append(out, col)
	}
	if _, err := t.Schema().Require("merge", out...); err != nil {
		return nil, err
	}
	return out, nil
}

func checkCollisions(left, right []string) error {
	seen := make(map[string]struct{}, len(left))
	for _, col := range left {
		seen[col] = struct{}{}
	}
	var shared []string
	for _, col := range right {
		if _, ok := seen[col]; ok {
			shared = append(shared, fmt.Sprintf("%q", col))
		}
	}
	if len(shared) > 0 {
		return survey.Wrap(survey.ErrSchema, "merge", "project columns",
			"columns kept from both sides: "+strings.Join(shared, ", "), nil)
	}
	return nil
}

func uniqueIndex(t *survey.Table, key string) (map[string]int, error) {
	keyed, err := t.WithID(key)
	if err != nil {
		return nil, err
	}
	dups, rows, err := keyed.DuplicateIDs()
	if err != nil {
		return nil, err
	}
	if len(dups) > 0 {
		return nil, survey.Wrap(survey.ErrSchema, "merge", "check key uniqueness",
			fmt.Sprintf("table %s: %d duplicate %q values (first %q)",
				t.Name(), len(dups), key, dups[0])+", "+survey.ColumnDetail(key, "", rows), nil)
	}
	pos, _ := t.Schema().Index(key)
	index := make(map[string]int, t.Len())
	for i := 0; i < t.Len(); i++ {
		v := t.Row(i).At(pos)
		if v.IsMissing() {
			continue
		}
		index[v.Text] = i
	}
	return index, nil
}
