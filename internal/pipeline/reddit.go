package pipeline

import (
	"context"
	"strconv"

	"sdnsurvey/internal/distribution"
	"sdnsurvey/internal/logging"
	"sdnsurvey/internal/resultstore"
	"sdnsurvey/internal/survey"
	"sdnsurvey/internal/surveyio"
)

// RedditReport holds the Reddit cohort summaries.
type RedditReport struct {
	Run          RunInfo                     `json:"run"`
	ResultsDB    string                      `json:"results_db,omitempty"`
	Records      int                         `json:"records"`
	Demographics []distribution.Distribution `json:"demographics"`
	Offerings    []distribution.Distribution `json:"offerings"`
	Offered      distribution.MultiSelect    `json:"offered"`
	Used         distribution.MultiSelect    `json:"used"`
	Usage        distribution.UsageSplit     `json:"usage"`
	Security     distribution.Distribution   `json:"security"`
	Privacy      distribution.Distribution   `json:"privacy"`
}

// RedditSummary computes the descriptive summaries of the Reddit export.
func (r *Runner) RedditSummary(ctx context.Context) (RedditReport, error) {
	lock, err := lockOutputDir(r.cfg.Paths.OutputDir)
	if err != nil {
		return RedditReport{}, err
	}
	defer func() { _ = lock.release() }()

	ctx, rn := r.begin(ctx, WorkflowReddit)
	report, err := r.redditSummary(ctx, rn)
	if err != nil {
		return RedditReport{}, rn.fail(err)
	}
	return report, nil
}

func (r *Runner) redditSummary(ctx context.Context, rn *run) (RedditReport, error) {
	cfg := r.cfg
	rc := cfg.Reddit

	loaded, err := surveyio.Load(cfg.Paths.RedditFile, surveyio.LoadOptions{MetadataRows: cfg.Schema.MetadataRows})
	if err != nil {
		return RedditReport{}, err
	}
	rn.stage("load", loaded.Table.Len(), loaded.Table.Len(), logging.Int("skipped_rows", loaded.SkippedRows))

	t, err := cleanTable(loaded.Table, cfg.Schema.PIIColumns, rc.DropColumns, nil)
	if err != nil {
		return RedditReport{}, err
	}
	rn.stage("scrub", loaded.Table.Len(), t.Len(), logging.Int("columns", len(t.Columns())))
	catalog := loaded.Catalog

	report := RedditReport{Records: t.Len()}
	if report.Demographics, err = distribution.Likert(t, catalog, rc.DemographicColumns...); err != nil {
		return RedditReport{}, err
	}
	if report.Offerings, err = distribution.Likert(t, catalog, rc.OfferingLikertColumns...); err != nil {
		return RedditReport{}, err
	}
	if report.Offered, err = describedMultiSelect(t, catalog, rc.OfferedColumn); err != nil {
		return RedditReport{}, err
	}
	if report.Used, err = describedMultiSelect(t, catalog, rc.UsedColumn); err != nil {
		return RedditReport{}, err
	}
	rn.stage("distributions", t.Len(), t.Len(),
		logging.Int("likert_columns", len(report.Demographics)+len(report.Offerings)),
	)

	if report.Usage, err = distribution.SplitByUsage(t, rc.SDNSUseColumn, rc.ServicesColumn); err != nil {
		return RedditReport{}, err
	}
	if report.Usage.DefaultedMissing > 0 {
		logging.WarnWithContext(rn.logger, "usage answer missing; counted as considering", "usage_defaulted",
			logging.String("column", rc.SDNSUseColumn),
			logging.Int("records", report.Usage.DefaultedMissing),
			logging.String(logging.FieldErrorHint, "review respondents without a Yes/No usage answer"),
			logging.String(logging.FieldImpact, "considering group includes respondents with no usage answer"),
		)
	}
	rn.stage("usage_split", t.Len(), report.Usage.Using.Respondents+report.Usage.Considering.Respondents,
		logging.Int("using", report.Usage.Using.Respondents),
		logging.Int("considering", report.Usage.Considering.Respondents),
	)

	if report.Security, err = describedColumn(t, catalog, rc.SecurityColumn); err != nil {
		return RedditReport{}, err
	}
	if report.Privacy, err = describedColumn(t, catalog, rc.PrivacyColumn); err != nil {
		return RedditReport{}, err
	}
	rn.stage("impressions", t.Len(), report.Security.Observed,
		logging.Int("privacy_observed", report.Privacy.Observed),
	)

	report.Run = rn.info(r.now())
	dbPath, err := r.saveResults(ctx, rn, resultstore.Results{
		Run:           report.Run.storeRun(),
		Stages:        report.Run.Stages,
		Distributions: report.distributions(),
	})
	if err != nil {
		return RedditReport{}, err
	}
	report.ResultsDB = dbPath
	return report, nil
}

func (rep RedditReport) distributions() []resultstore.NamedDistribution {
	var out []resultstore.NamedDistribution
	for _, d := range rep.Demographics {
		out = append(out, resultstore.NamedDistribution{Name: "demographics." + d.Column, Distribution: d})
	}
	for _, d := range rep.Offerings {
		out = append(out, resultstore.NamedDistribution{Name: "offerings." + d.Column, Distribution: d})
	}
	out = append(out, multiSelectDistributions("offered", rep.Offered)...)
	out = append(out, multiSelectDistributions("used", rep.Used)...)
	out = append(out, multiSelectDistributions("usage.using", rep.Usage.Using)...)
	out = append(out, multiSelectDistributions("usage.considering", rep.Usage.Considering)...)
	out = append(out,
		resultstore.NamedDistribution{Name: "impressions.security", Distribution: rep.Security},
		resultstore.NamedDistribution{Name: "impressions.privacy", Distribution: rep.Privacy},
	)
	return out
}

// multiSelectDistributions flattens a breakdown into the number-of-selections
// table plus one option table per selection count.
func multiSelectDistributions(prefix string, m distribution.MultiSelect) []resultstore.NamedDistribution {
	counts := make([]string, 0, m.Respondents)
	for _, sc := range m.SelectionCounts {
		for i := 0; i < sc.Count; i++ {
			counts = append(counts, strconv.Itoa(sc.K))
		}
	}
	selections := distribution.OfStrings(m.Column, counts)
	selections.Description = m.Description
	selections.Missing = m.Missing

	out := []resultstore.NamedDistribution{
		{Name: prefix + ".selections", Distribution: selections},
		{Name: prefix + ".options", Distribution: m.Overall},
	}
	for _, g := range m.Groups {
		out = append(out, resultstore.NamedDistribution{
			Name:         prefix + ".k" + strconv.Itoa(g.K),
			Distribution: g.Options,
		})
	}
	return out
}

func describedColumn(t *survey.Table, catalog survey.Catalog, column string) (distribution.Distribution, error) {
	d, err := distribution.Column(t, column)
	if err != nil {
		return distribution.Distribution{}, err
	}
	d.Description, _ = catalog.Describe(column)
	return d, nil
}

func describedMultiSelect(t *survey.Table, catalog survey.Catalog, column string) (distribution.MultiSelect, error) {
	m, err := distribution.MultiSelectColumn(t, column)
	if err != nil {
		return distribution.MultiSelect{}, err
	}
	m.Description, _ = catalog.Describe(column)
	return m, nil
}
