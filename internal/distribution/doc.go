// Package distribution computes the categorical frequency summaries reported
// for the survey: per-column counts and proportions, blocks of Likert
// columns described through the question catalog, and the two-level
// breakdown of "select all that apply" columns.
//
// Missing values never enter a denominator or an output entry; they are
// counted separately so the totals can be checked against the source column.
package distribution
