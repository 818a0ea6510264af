package survey

// Value is one cell of a record. A Value with Valid false was not answered.
type Value struct {
	Text  string
	Valid bool
}

// Missing is the not-answered value.
var Missing = Value{}

// Present wraps an answered value.
func Present(text string) Value {
	return Value{Text: text, Valid: true}
}

// IsMissing reports whether the value was not answered.
func (v Value) IsMissing() bool {
	return !v.Valid
}

// String returns the answer text, or the empty string when missing.
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return v.Text
}

// Values converts plain strings into present values.
func Values(texts ...string) []Value {
	out := make([]Value, len(texts))
	for i, text := range texts {
		out[i] = Present(text)
	}
	return out
}
