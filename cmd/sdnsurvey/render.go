package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"sdnsurvey/internal/distribution"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const (
	ansiReset = "\x1b[0m"
	ansiBlue  = "\x1b[34m"
)

// renderer writes report sections to one output. Terminals get rounded
// tables and colored headers; pipes and files get plain ASCII.
type renderer struct {
	out      io.Writer
	colorize bool
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{out: out, colorize: shouldColorize(out)}
}

func (r *renderer) section(title string) {
	for _, line := range renderSectionHeader(title, r.colorize) {
		fmt.Fprintln(r.out, line)
	}
}

func (r *renderer) line(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

func (r *renderer) table(headers []string, rows [][]string, aligns []columnAlignment) {
	style := table.StyleDefault
	if r.colorize {
		style = table.StyleRounded
	}
	if rendered := renderTable(headers, rows, aligns, style); rendered != "" {
		fmt.Fprintln(r.out, rendered)
	}
	fmt.Fprintln(r.out)
}

func (r *renderer) distribution(title string, d distribution.Distribution) {
	r.section(title)
	if d.Description != "" {
		r.line("%s", d.Description)
	}
	rows := make([][]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		rows = append(rows, []string{e.Value, strconv.Itoa(e.Count), formatProportion(e.Proportion)})
	}
	r.table([]string{"Value", "Count", "Share"}, rows, []columnAlignment{alignLeft, alignRight, alignRight})
	if d.Missing > 0 {
		r.line("%d missing answers excluded", d.Missing)
	}
}

func (r *renderer) multiSelect(title string, m distribution.MultiSelect) {
	r.section(title)
	if m.Description != "" {
		r.line("%s", m.Description)
	}
	rows := make([][]string, 0, len(m.SelectionCounts))
	for _, sc := range m.SelectionCounts {
		rows = append(rows, []string{strconv.Itoa(sc.K), strconv.Itoa(sc.Count), formatProportion(sc.Proportion)})
	}
	r.table([]string{"Selections", "Respondents", "Share"}, rows, []columnAlignment{alignRight, alignRight, alignRight})
	for _, g := range m.Groups {
		optionRows := make([][]string, 0, len(g.Options.Entries))
		for _, e := range g.Options.Entries {
			optionRows = append(optionRows, []string{e.Value, strconv.Itoa(e.Count), formatProportion(g.Prevalence(e.Value))})
		}
		r.line("Respondents with %d selection(s): %d", g.K, g.Respondents)
		r.table([]string{"Option", "Count", "Prevalence"}, optionRows, []columnAlignment{alignLeft, alignRight, alignRight})
	}
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment, style table.Style) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(style)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func formatProportion(p float64) string {
	return strconv.FormatFloat(p*100, 'f', 1, 64) + "%"
}
