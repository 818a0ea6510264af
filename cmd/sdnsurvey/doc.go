// Package main hosts the sdnsurvey CLI entrypoint and command graph.
//
// The Cobra-based command tree maps terminal invocations onto the pipeline
// workflows: merging the Prolific prescreen and main surveys, summarizing the
// Reddit cohort, and analyzing coded DNS knowledge. It also prints question
// catalogs, lists stored runs, and scaffolds configuration. Configuration
// resolution and logger setup live here so subcommands only choose a
// workflow and render its report.
//
// Keep this package lean: new analysis belongs in the internal packages and
// is surfaced here through a command or flag.
package main
