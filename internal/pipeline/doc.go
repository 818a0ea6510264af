// Package pipeline runs the survey workflows end to end.
//
// Each workflow loads its exports, passes a fresh table through every stage,
// logs one summary line per stage, and returns an in-memory report. Files
// are only written once every stage has succeeded, so a failed run never
// leaves partial output behind. Runs that write under the output directory
// hold an advisory lock on it for their duration.
package pipeline
