package surveyio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"sdnsurvey/internal/survey"
)

// LoadOptions controls how an export is interpreted.
type LoadOptions struct {
	// MetadataRows is the number of rows following the header that are not
	// responses. The first of them supplies the question catalog.
	MetadataRows int
	// IDColumn, when set, keys the loaded table by that column.
	IDColumn string
}

// Loaded is the result of reading one export.
type Loaded struct {
	Table   *survey.Table
	Catalog survey.Catalog
	// SkippedRows counts blank rows and repeated header rows that were dropped.
	SkippedRows int
}

// Load reads the CSV export at path.
func Load(path string, opts LoadOptions) (*Loaded, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	loaded, err := Read(file, path, opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return loaded, nil
}

// Read parses a CSV export from r. name labels the resulting table.
func Read(r io.Reader, name string, opts LoadOptions) (*Loaded, error) {
	if opts.MetadataRows < 0 {
		return nil, survey.Wrap(survey.ErrConfiguration, name, "load", "metadata rows must not be negative", nil)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, survey.Wrap(survey.ErrSchema, name, "load", "missing header row", nil)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	raw := append([]string(nil), header...)
	columns := headerNames(header)

	var catalogTexts []string
	for i := 0; i < opts.MetadataRows; i++ {
		meta, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, survey.Wrap(survey.ErrSchema, name, "load",
					fmt.Sprintf("expected %d metadata rows, found %d", opts.MetadataRows, i), nil)
			}
			return nil, fmt.Errorf("read metadata row %d: %w", i+1, err)
		}
		if i == 0 {
			catalogTexts = make([]string, len(columns))
			for j := range columns {
				if j < len(meta) {
					catalogTexts[j] = strings.TrimSpace(meta[j])
				}
			}
		}
	}

	var rows [][]survey.Value
	skipped := 0
	line := 1 + opts.MetadataRows
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++
		if len(record) != len(columns) {
			return nil, survey.Wrap(survey.ErrSchema, name, "load",
				fmt.Sprintf("line %d has %d fields, header has %d", line, len(record), len(columns)), nil)
		}
		if isRepeatedHeader(record, raw) {
			skipped++
			continue
		}
		values, empty := toValues(record)
		if empty {
			skipped++
			continue
		}
		rows = append(rows, values)
	}

	table, err := survey.NewTable(name, columns, rows)
	if err != nil {
		return nil, err
	}
	if opts.IDColumn != "" {
		table, err = table.WithID(opts.IDColumn)
		if err != nil {
			return nil, err
		}
	}
	return &Loaded{
		Table:       table,
		Catalog:     survey.NewCatalog(columns, catalogTexts),
		SkippedRows: skipped,
	}, nil
}

func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, cell := range header {
		if i == 0 {
			cell = strings.TrimPrefix(cell, utf8BOM)
		}
		if cell == "" {
			cell = "Unnamed: " + strconv.Itoa(i)
		}
		name := cell
		if n, dup := seen[cell]; dup {
			for {
				name = cell + "." + strconv.Itoa(n)
				n++
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[cell] = n
		} else {
			seen[cell] = 1
		}
		seen[name] = max(seen[name], 1)
		names[i] = name
	}
	return names
}

func isRepeatedHeader(record, header []string) bool {
	for i := range record {
		if strings.TrimPrefix(record[i], utf8BOM) != strings.TrimPrefix(header[i], utf8BOM) {
			return false
		}
	}
	return true
}

func toValues(record []string) ([]survey.Value, bool) {
	values := make([]survey.Value, len(record))
	empty := true
	for i, cell := range record {
		text := NormalizeText(cell)
		if text == "" {
			values[i] = survey.Missing
			continue
		}
		empty = false
		values[i] = survey.Present(text)
	}
	return values, empty
}
