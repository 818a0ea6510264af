// Package survey defines the record model shared by every pipeline stage.
//
// A Table is an immutable, ordered set of rows sharing one Schema. Cells are
// explicit optional Values so "not answered" never collides with a real
// answer such as the empty string. Stages resolve the columns they need
// through Schema.Require before touching rows, which turns a renamed or
// missing column into an ErrSchema failure at stage start instead of a silent
// absence halfway through an aggregation.
//
// Derived tables (filtered, projected, extended) are always new values. Row
// storage may be shared between a table and the tables derived from it, which
// is safe because no exported API mutates a row after construction.
package survey
