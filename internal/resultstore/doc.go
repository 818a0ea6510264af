// Package resultstore persists the reports of a run to a SQLite database so
// several runs can be compared after the fact.
//
// Each run is written in a single transaction keyed by its run id. The
// database holds only derived aggregates: stage row counts, frequency
// tables, correlation results, and flow edges. No respondent rows are
// stored.
package resultstore
