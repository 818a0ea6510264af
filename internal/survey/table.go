package survey

import (
	"fmt"
)

// Record is a read-only view of one table row.
type Record struct {
	schema *Schema
	values []Value
}

// Get returns the value of the named column, or Missing if the column is absent.
func (r Record) Get(column string) Value {
	if r.schema == nil {
		return Missing
	}
	i, ok := r.schema.index[column]
	if !ok {
		return Missing
	}
	return r.values[i]
}

// At returns the value at a resolved column position.
func (r Record) At(i int) Value {
	return r.values[i]
}

// Values returns a copy of the row values in schema order.
func (r Record) Values() []Value {
	out := make([]Value, len(r.values))
	copy(out, r.values)
	return out
}

// Table is an immutable collection of records sharing one schema and,
// optionally, an identifier column.
type Table struct {
	name   string
	schema Schema
	idCol  string
	rows   [][]Value
}

// NewTable copies the provided rows into a new table. Every row must have
// exactly one value per column.
func NewTable(name string, columns []string, rows [][]Value) (*Table, error) {
	schema, err := NewSchema(columns)
	if err != nil {
		return nil, err
	}
	copied := make([][]Value, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, Wrap(ErrSchema, name, "build table",
				fmt.Sprintf("row %d has %d values, want %d", i+1, len(row), len(columns)), nil)
		}
		r := make([]Value, len(row))
		copy(r, row)
		copied[i] = r
	}
	return &Table{name: name, schema: schema, rows: copied}, nil
}

// Name returns the table label used in logs and errors.
func (t *Table) Name() string {
	return t.name
}

// Schema returns the table schema.
func (t *Table) Schema() Schema {
	return t.schema
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return t.schema.Columns()
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th record.
func (t *Table) Row(i int) Record {
	return Record{schema: &t.schema, values: t.rows[i]}
}

// Each calls fn for every record in order.
func (t *Table) Each(fn func(i int, r Record)) {
	for i, row := range t.rows {
		fn(i, Record{schema: &t.schema, values: row})
	}
}

// IDColumn returns the identifier column name, or "" when none is set.
func (t *Table) IDColumn() string {
	return t.idCol
}

// WithID returns a table keyed by the named column.
func (t *Table) WithID(column string) (*Table, error) {
	if _, err := t.schema.Require(t.name, column); err != nil {
		return nil, err
	}
	out := t.derive(t.schema, t.rows)
	out.idCol = column
	return out, nil
}

// Renamed returns the same table under a new label.
func (t *Table) Renamed(name string) *Table {
	out := t.derive(t.schema, t.rows)
	out.name = name
	return out
}

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]Value, error) {
	idx, err := t.schema.Require(t.name, name)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx[0]]
	}
	return out, nil
}

// Filter returns the records for which keep returns true, in original order.
func (t *Table) Filter(keep func(r Record) bool) *Table {
	rows := make([][]Value, 0, len(t.rows))
	for _, row := range t.rows {
		if keep(Record{schema: &t.schema, values: row}) {
			rows = append(rows, row)
		}
	}
	return t.derive(t.schema, rows)
}

// DropColumns removes the named columns. Every named column must exist.
func (t *Table) DropColumns(names ...string) (*Table, error) {
	if _, err := t.schema.Require(t.name, names...); err != nil {
		return nil, err
	}
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
	}
	keep := make([]string, 0, t.schema.Len())
	for _, col := range t.schema.columns {
		if _, ok := drop[col]; !ok {
			keep = append(keep, col)
		}
	}
	return t.Project(keep...)
}

// Project keeps only the named columns, in the order given. Every named
// column must exist.
func (t *Table) Project(names ...string) (*Table, error) {
	idx, err := t.schema.Require(t.name, names...)
	if err != nil {
		return nil, err
	}
	schema, err := NewSchema(names)
	if err != nil {
		return nil, err
	}
	rows := make([][]Value, len(t.rows))
	for i, row := range t.rows {
		r := make([]Value, len(idx))
		for j, pos := range idx {
			r[j] = row[pos]
		}
		rows[i] = r
	}
	out := t.derive(schema, rows)
	if !schema.Has(out.idCol) {
		out.idCol = ""
	}
	return out, nil
}

// WithColumn appends a new column. values must have one entry per row.
func (t *Table) WithColumn(name string, values []Value) (*Table, error) {
	if t.schema.Has(name) {
		return nil, Wrap(ErrSchema, t.name, "add column", "column already exists "+ColumnDetail(name, "", 0), nil)
	}
	if len(values) != len(t.rows) {
		return nil, Wrap(ErrSchema, t.name, "add column",
			fmt.Sprintf("%d values for %d rows", len(values), len(t.rows)), nil)
	}
	schema, err := NewSchema(append(t.schema.Columns(), name))
	if err != nil {
		return nil, err
	}
	rows := make([][]Value, len(t.rows))
	for i, row := range t.rows {
		r := make([]Value, len(row)+1)
		copy(r, row)
		r[len(row)] = values[i]
		rows[i] = r
	}
	return t.derive(schema, rows), nil
}

// IDs returns the identifier value of every row. It fails when no identifier
// column is set.
func (t *Table) IDs() ([]Value, error) {
	if t.idCol == "" {
		return nil, Wrap(ErrSchema, t.name, "identifiers", "no identifier column set", nil)
	}
	return t.Column(t.idCol)
}

// DuplicateIDs returns identifier values that occur more than once, in first
// occurrence order, together with the number of rows they cover. Missing
// identifiers are ignored.
func (t *Table) DuplicateIDs() ([]string, int, error) {
	ids, err := t.IDs()
	if err != nil {
		return nil, 0, err
	}
	counts := make(map[string]int, len(ids))
	var order []string
	for _, id := range ids {
		if id.IsMissing() {
			continue
		}
		if counts[id.Text] == 0 {
			order = append(order, id.Text)
		}
		counts[id.Text]++
	}
	var dups []string
	rows := 0
	for _, id := range order {
		if counts[id] > 1 {
			dups = append(dups, id)
			rows += counts[id]
		}
	}
	return dups, rows, nil
}

func (t *Table) derive(schema Schema, rows [][]Value) *Table {
	return &Table{name: t.name, schema: schema, idCol: t.idCol, rows: rows}
}
