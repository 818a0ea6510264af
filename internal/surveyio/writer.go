package surveyio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sdnsurvey/internal/survey"
)

// WriteTable encodes t as CSV: a header row followed by one row per record.
// Missing values are written as empty fields.
func WriteTable(w io.Writer, t *survey.Table) error {
	rows := make([][]string, 0, t.Len())
	t.Each(func(_ int, r survey.Record) {
		values := r.Values()
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = v.String()
		}
		rows = append(rows, row)
	})
	return WriteRows(w, t.Columns(), rows)
}

// WriteRows encodes a header and rows as CSV.
func WriteRows(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// WriteFile atomically replaces path with the output of encode. The parent
// directory is created when absent.
func WriteFile(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if err := encode(tmp); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// SaveTable writes t to path as CSV.
func SaveTable(path string, t *survey.Table) error {
	return WriteFile(path, func(w io.Writer) error {
		return WriteTable(w, t)
	})
}
