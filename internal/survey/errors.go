package survey

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema marks a missing column or a non-unique identifier where
	// uniqueness is required.
	ErrSchema = errors.New("schema violation")
	// ErrUnclassified marks a label outside an enumerated mapping.
	ErrUnclassified = errors.New("unclassified value")
	// ErrDegenerate marks a statistic that is undefined for its input.
	ErrDegenerate = errors.New("degenerate statistic")
	// ErrNoOverlap marks a reconciliation or merge with zero shared records.
	ErrNoOverlap = errors.New("no overlap")
	// ErrConfiguration marks invalid stage configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker so callers can classify it with errors.Is. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrConfiguration
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ColumnDetail formats the column, value, and affected record count used in
// stage error messages. Empty parts are omitted.
func ColumnDetail(column, value string, records int) string {
	parts := make([]string, 0, 3)
	if column != "" {
		parts = append(parts, fmt.Sprintf("column %q", column))
	}
	if value != "" {
		parts = append(parts, fmt.Sprintf("value %q", value))
	}
	if records > 0 {
		noun := "records"
		if records == 1 {
			noun = "record"
		}
		parts = append(parts, fmt.Sprintf("%d %s affected", records, noun))
	}
	return strings.Join(parts, ", ")
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
