package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sdnsurvey/internal/pipeline"
)

func newPrepareCommand(ctx *commandContext) *cobra.Command {
	var prescreen, mainSurvey, outfile string

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Merge qualifying prescreen respondents with their main survey responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			for _, o := range []struct {
				target *string
				value  string
			}{
				{&cfg.Paths.PrescreenFile, prescreen},
				{&cfg.Paths.MainFile, mainSurvey},
				{&cfg.Paths.MergedFile, outfile},
			} {
				if err := overridePath(o.target, o.value); err != nil {
					return err
				}
			}
			runner, err := ctx.runner()
			if err != nil {
				return err
			}
			report, err := runner.Prepare(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, report)
			}
			printPrepareReport(newRenderer(cmd.OutOrStdout()), report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&prescreen, "prescreen", "p", "", "Prescreen survey export (overrides paths.prescreen_file)")
	cmd.Flags().StringVarP(&mainSurvey, "main", "m", "", "Main survey export (overrides paths.main_file)")
	cmd.Flags().StringVarP(&outfile, "output", "o", "", "Merged dataset destination (overrides paths.merged_file)")
	return cmd
}

func newRedditCommand(ctx *commandContext) *cobra.Command {
	var infile string

	cmd := &cobra.Command{
		Use:     "reddit",
		Aliases: []string{"summarize"},
		Short:   "Summarize the Reddit cohort export",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := overridePath(&cfg.Paths.RedditFile, infile); err != nil {
				return err
			}
			runner, err := ctx.runner()
			if err != nil {
				return err
			}
			report, err := runner.RedditSummary(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, report)
			}
			printRedditReport(newRenderer(cmd.OutOrStdout()), report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&infile, "file", "f", "", "Reddit survey export (overrides paths.reddit_file)")
	return cmd
}

func newKnowledgeCommand(ctx *commandContext) *cobra.Command {
	var dataset, codes string

	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Correlate coded DNS knowledge with self-reports and build flow graphs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := overridePath(&cfg.Paths.DatasetFile, dataset); err != nil {
				return err
			}
			if err := overridePath(&cfg.Paths.CodesFile, codes); err != nil {
				return err
			}
			runner, err := ctx.runner()
			if err != nil {
				return err
			}
			report, err := runner.Knowledge(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, report)
			}
			printKnowledgeReport(newRenderer(cmd.OutOrStdout()), report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataset, "file", "f", "", "Analysis dataset (overrides paths.dataset_file)")
	cmd.Flags().StringVarP(&codes, "codes", "d", "", "Open-coding sheet (overrides paths.codes_file)")
	return cmd
}

// allReports is the JSON shape of the run command.
type allReports struct {
	Prepare   pipeline.PrepareReport   `json:"prepare"`
	Reddit    pipeline.RedditReport    `json:"reddit"`
	Knowledge pipeline.KnowledgeReport `json:"knowledge"`
}

func newRunAllCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the prepare, reddit, and knowledge workflows in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner()
			if err != nil {
				return err
			}
			var all allReports
			if all.Prepare, err = runner.Prepare(cmd.Context()); err != nil {
				return fmt.Errorf("prepare: %w", err)
			}
			if all.Reddit, err = runner.RedditSummary(cmd.Context()); err != nil {
				return fmt.Errorf("reddit: %w", err)
			}
			if all.Knowledge, err = runner.Knowledge(cmd.Context()); err != nil {
				return fmt.Errorf("knowledge: %w", err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, all)
			}
			r := newRenderer(cmd.OutOrStdout())
			printPrepareReport(r, all.Prepare)
			printRedditReport(r, all.Reddit)
			printKnowledgeReport(r, all.Knowledge)
			return nil
		},
	}
}

func printRun(r *renderer, run pipeline.RunInfo) {
	rows := make([][]string, 0, len(run.Stages))
	for _, s := range run.Stages {
		rows = append(rows, []string{s.Stage, strconv.Itoa(s.RecordsIn), strconv.Itoa(s.RecordsOut)})
	}
	r.line("Run %s (%s)", run.ID, run.Workflow)
	r.table([]string{"Stage", "In", "Out"}, rows, []columnAlignment{alignLeft, alignRight, alignRight})
}

func printPrepareReport(r *renderer, report pipeline.PrepareReport) {
	r.section("Prepare")
	printRun(r, report.Run)

	rows := make([][]string, 0, len(report.Qualification.Outcomes)+1)
	for _, o := range report.Qualification.Outcomes {
		rows = append(rows, []string{o.Rule, o.Column, strconv.Itoa(o.Rejected), strconv.Itoa(o.Missing)})
	}
	if p := report.Provider; p != nil {
		for _, o := range p.Outcomes {
			rows = append(rows, []string{o.Rule, o.Column, strconv.Itoa(o.Rejected), strconv.Itoa(o.Missing)})
		}
	}
	r.table([]string{"Rule", "Column", "Rejected", "Missing"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight})

	r.line("Qualified %d of %d prescreen respondents; %d matched the main survey",
		report.Qualification.Kept, report.Qualification.Input, report.Reconciled)
	r.line("Wrote %d records (%d columns) to %s", report.Records, len(report.Columns), report.OutputFile)
	if report.ResultsDB != "" {
		r.line("Results saved to %s", report.ResultsDB)
	}
	r.line("")
}

func printRedditReport(r *renderer, report pipeline.RedditReport) {
	r.section("Reddit cohort")
	printRun(r, report.Run)
	r.line("%d respondents", report.Records)
	r.line("")

	for _, d := range report.Demographics {
		r.distribution("Demographics "+d.Column, d)
	}
	for _, d := range report.Offerings {
		r.distribution("Other offerings "+d.Column, d)
	}
	r.multiSelect("Offered services "+report.Offered.Column, report.Offered)
	r.multiSelect("Used services "+report.Used.Column, report.Used)
	r.multiSelect("Services used (SDNS users)", report.Usage.Using)
	r.multiSelect("Services considered (non-users)", report.Usage.Considering)
	if report.Usage.DefaultedMissing > 0 {
		r.line("%d respondents without a usage answer were counted as considering", report.Usage.DefaultedMissing)
		r.line("")
	}
	r.distribution("Security impression", report.Security)
	r.distribution("Privacy impression", report.Privacy)
	if report.ResultsDB != "" {
		r.line("Results saved to %s", report.ResultsDB)
		r.line("")
	}
}

func printKnowledgeReport(r *renderer, report pipeline.KnowledgeReport) {
	r.section("DNS knowledge")
	printRun(r, report.Run)
	r.line("%d coded responses matched the dataset (%d dataset rows, %d coded rows)",
		report.Reconciled, report.DatasetRows, report.CodeRows)
	r.line("")

	r.distribution("Coded knowledge", report.Knowledge)

	c := report.Correlation
	r.section("Spearman rank correlation")
	r.line("rho = %.4f, p = %.4g, n = %d", c.Rho, c.PValue, c.N)
	if report.MissingSelfReport > 0 {
		r.line("%d records without a self-report were excluded", report.MissingSelfReport)
	}
	r.line("")

	for _, fr := range report.Flows {
		g := fr.Graph
		r.section(g.Title)
		rows := make([][]string, 0, len(g.Edges))
		for _, e := range g.Edges {
			rows = append(rows, []string{
				g.Nodes[e.SourceNode].Label,
				g.Nodes[e.TargetNode].Label,
				strconv.Itoa(e.Weight),
				e.Color,
			})
		}
		r.table([]string{"Source", "Target", "Weight", "Color"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft})
		r.line("%d records, %d skipped with a missing answer", g.Total, g.Skipped)
		if fr.File != "" {
			r.line("Edges written to %s", fr.File)
		}
		r.line("")
	}
	if report.ResultsDB != "" {
		r.line("Results saved to %s", report.ResultsDB)
		r.line("")
	}
}
