package main

import (
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"sdnsurvey/internal/resultstore"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List runs stored in the results database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Export.SQLiteEnabled {
				return errors.New("results database is disabled; set export.sqlite_enabled = true")
			}
			store, err := resultstore.Open(cmd.Context(), cfg.Export.SQLitePath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Runs(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, runs)
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				stages, err := store.Stages(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					run.ID,
					run.Workflow,
					run.StartedAt.Local().Format(time.DateTime),
					strconv.Itoa(len(stages)),
					run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String(),
				})
			}
			r := newRenderer(cmd.OutOrStdout())
			r.section("Stored runs")
			r.table([]string{"Run", "Workflow", "Started", "Stages", "Duration"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight})
			r.line("%d runs in %s", len(runs), store.Path())
			return nil
		},
	}
}
