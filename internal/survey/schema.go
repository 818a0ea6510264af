package survey

import (
	"fmt"
	"strings"
)

// Schema is the ordered column set of a table.
type Schema struct {
	columns []string
	index   map[string]int
}

// NewSchema builds a schema from column names. Duplicate names are rejected.
func NewSchema(columns []string) (Schema, error) {
	s := Schema{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	copy(s.columns, columns)
	for i, name := range columns {
		if _, dup := s.index[name]; dup {
			return Schema{}, Wrap(ErrSchema, "schema", "build", "duplicate column "+ColumnDetail(name, "", 0), nil)
		}
		s.index[name] = i
	}
	return s, nil
}

// Columns returns a copy of the column names in order.
func (s Schema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Len returns the number of columns.
func (s Schema) Len() int {
	return len(s.columns)
}

// Has reports whether the schema contains the column.
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Index returns the position of the column.
func (s Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Require resolves every named column, failing with ErrSchema listing all
// absent columns. The stage name is used in the error message.
func (s Schema) Require(stage string, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	var missing []string
	for i, name := range names {
		pos, ok := s.index[name]
		if !ok {
			missing = append(missing, fmt.Sprintf("%q", name))
			continue
		}
		idx[i] = pos
	}
	if len(missing) > 0 {
		return nil, Wrap(ErrSchema, stage, "resolve columns", "missing "+strings.Join(missing, ", "), nil)
	}
	return idx, nil
}
