package survey

// Catalog maps raw column identifiers to the question text taken from the
// export's metadata row.
type Catalog struct {
	order   []string
	entries map[string]string
}

// NewCatalog pairs column identifiers with their descriptive texts. Missing
// texts are recorded as empty descriptions.
func NewCatalog(columns []string, texts []string) Catalog {
	c := Catalog{
		order:   make([]string, 0, len(columns)),
		entries: make(map[string]string, len(columns)),
	}
	for i, col := range columns {
		text := ""
		if i < len(texts) {
			text = texts[i]
		}
		if _, seen := c.entries[col]; !seen {
			c.order = append(c.order, col)
		}
		c.entries[col] = text
	}
	return c
}

// Describe returns the question text of a column.
func (c Catalog) Describe(column string) (string, bool) {
	text, ok := c.entries[column]
	return text, ok
}

// Columns returns the catalogued column identifiers in header order.
func (c Catalog) Columns() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of entries.
func (c Catalog) Len() int {
	return len(c.order)
}

// Restrict returns a catalog limited to the named columns, keeping header
// order. Unknown names are ignored.
func (c Catalog) Restrict(columns ...string) Catalog {
	want := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		want[col] = struct{}{}
	}
	out := Catalog{entries: make(map[string]string, len(columns))}
	for _, col := range c.order {
		if _, ok := want[col]; ok {
			out.order = append(out.order, col)
			out.entries[col] = c.entries[col]
		}
	}
	return out
}
