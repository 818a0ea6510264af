package reconcile

import (
	"fmt"

	"sdnsurvey/internal/survey"
)

// Result holds both tables restricted to their shared identifiers.
type Result struct {
	Left    *survey.Table
	Right   *survey.Table
	Overlap int
	// DroppedLeft and DroppedRight count rows removed from each side,
	// including rows with a missing identifier.
	DroppedLeft  int
	DroppedRight int
}

// Reconcile computes ids(left) ∩ ids(right) over the named identifier
// columns and restricts each table to that overlap, preserving row order.
// Missing identifiers never match. An empty overlap is reported as
// survey.ErrNoOverlap.
func Reconcile(left *survey.Table, leftID string, right *survey.Table, rightID string) (Result, error) {
	leftIDs, err := identifierSet(left, leftID)
	if err != nil {
		return Result{}, err
	}
	rightIDs, err := identifierSet(right, rightID)
	if err != nil {
		return Result{}, err
	}

	overlap := make(map[string]struct{})
	for id := range leftIDs {
		if _, ok := rightIDs[id]; ok {
			overlap[id] = struct{}{}
		}
	}
	if len(overlap) == 0 {
		return Result{}, survey.Wrap(survey.ErrNoOverlap, "reconcile", "intersect identifiers",
			fmt.Sprintf("%s.%s (%d records) and %s.%s (%d records) share no identifiers; check the key column names",
				left.Name(), leftID, left.Len(), right.Name(), rightID, right.Len()), nil)
	}

	restrictedLeft := restrict(left, leftID, overlap)
	restrictedRight := restrict(right, rightID, overlap)
	return Result{
		Left:         restrictedLeft,
		Right:        restrictedRight,
		Overlap:      len(overlap),
		DroppedLeft:  left.Len() - restrictedLeft.Len(),
		DroppedRight: right.Len() - restrictedRight.Len(),
	}, nil
}

func identifierSet(t *survey.Table, column string) (map[string]struct{}, error) {
	values, err := t.Column(column)
	if err != nil {
		return nil, survey.Wrap(survey.ErrSchema, "reconcile", "read identifiers",
			fmt.Sprintf("table %s has no identifier column %q", t.Name(), column), err)
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		set[v.Text] = struct{}{}
	}
	return set, nil
}

func restrict(t *survey.Table, column string, keep map[string]struct{}) *survey.Table {
	idx, _ := t.Schema().Index(column)
	return t.Filter(func(r survey.Record) bool {
		v := r.At(idx)
		if v.IsMissing() {
			return false
		}
		_, ok := keep[v.Text]
		return ok
	})
}
