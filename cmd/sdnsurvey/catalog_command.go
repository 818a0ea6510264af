package main

import (
	"strings"

	"github.com/spf13/cobra"

	"sdnsurvey/internal/config"
	"sdnsurvey/internal/surveyio"
)

type catalogEntry struct {
	Column   string `json:"column"`
	Question string `json:"question"`
}

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var metadataRows int
	var filter string

	cmd := &cobra.Command{
		Use:   "catalog <export.csv>",
		Short: "Print the question text of every column in a survey export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rows := cfg.Schema.MetadataRows
			if cmd.Flags().Changed("metadata-rows") {
				rows = metadataRows
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			loaded, err := surveyio.Load(path, surveyio.LoadOptions{MetadataRows: rows})
			if err != nil {
				return err
			}

			entries := make([]catalogEntry, 0, loaded.Catalog.Len())
			for _, col := range loaded.Catalog.Columns() {
				text, _ := loaded.Catalog.Describe(col)
				if filter != "" && !strings.Contains(strings.ToLower(col+" "+text), strings.ToLower(filter)) {
					continue
				}
				entries = append(entries, catalogEntry{Column: col, Question: text})
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, entries)
			}

			r := newRenderer(cmd.OutOrStdout())
			r.section(path)
			tableRows := make([][]string, 0, len(entries))
			for _, e := range entries {
				tableRows = append(tableRows, []string{strconvQuote(e.Column), e.Question})
			}
			r.table([]string{"Column", "Question"}, tableRows, nil)
			r.line("%d columns, %d responses", len(entries), loaded.Table.Len())
			return nil
		},
	}

	cmd.Flags().IntVar(&metadataRows, "metadata-rows", 0, "Rows after the header that are not responses (default schema.metadata_rows)")
	cmd.Flags().StringVar(&filter, "grep", "", "Only show columns whose id or question contains this text")
	return cmd
}

// strconvQuote quotes column ids that are blank or padded so they stay visible.
func strconvQuote(column string) string {
	if strings.TrimSpace(column) != column || column == "" {
		return `"` + column + `"`
	}
	return column
}
