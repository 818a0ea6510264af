// Package surveyio reads survey exports into survey tables and writes record
// tables back out as CSV.
//
// Exports carry one header row of opaque question identifiers followed by
// metadata rows. The first metadata row holds the question text and becomes
// the table's Catalog; any further metadata rows (the Qualtrics ImportId row,
// for example) are discarded. None of them ever reach a Table.
//
// Header cells follow the naming rules the analysis columns were written
// against: an empty header becomes "Unnamed: <index>" and repeated headers are
// suffixed ".1", ".2" in order of appearance, so a second blank column
// " " is addressed as " .1".
package surveyio
