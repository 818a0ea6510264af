package pipeline

import (
	"context"
	"fmt"

	"sdnsurvey/internal/logging"
	"sdnsurvey/internal/qualify"
	"sdnsurvey/internal/reconcile"
	"sdnsurvey/internal/resultstore"
	"sdnsurvey/internal/scrub"
	"sdnsurvey/internal/survey"
	"sdnsurvey/internal/surveyio"
)

// PrepareReport summarizes the prescreen and main survey merge.
type PrepareReport struct {
	Run           RunInfo         `json:"run"`
	OutputFile    string          `json:"output_file"`
	ResultsDB     string          `json:"results_db,omitempty"`
	PrescreenRows int             `json:"prescreen_rows"`
	MainRows      int             `json:"main_rows"`
	Qualification qualify.Report  `json:"qualification"`
	Reconciled    int             `json:"reconciled"`
	Merged        int             `json:"merged"`
	Provider      *qualify.Report `json:"provider_filter,omitempty"`
	Records       int             `json:"records"`
	Columns       []string        `json:"columns"`

	// Catalog holds the question text of every output column.
	Catalog survey.Catalog `json:"-"`
}

// Prepare merges the qualifying prescreen respondents with their main survey
// responses and writes the de-identified result to paths.merged_file.
func (r *Runner) Prepare(ctx context.Context) (PrepareReport, error) {
	lock, err := lockOutputDir(r.cfg.Paths.OutputDir)
	if err != nil {
		return PrepareReport{}, err
	}
	defer func() { _ = lock.release() }()

	ctx, rn := r.begin(ctx, WorkflowPrepare)
	report, err := r.prepare(ctx, rn)
	if err != nil {
		return PrepareReport{}, rn.fail(err)
	}
	return report, nil
}

func (r *Runner) prepare(ctx context.Context, rn *run) (PrepareReport, error) {
	cfg := r.cfg
	schema := cfg.Schema
	opts := surveyio.LoadOptions{MetadataRows: schema.MetadataRows, IDColumn: schema.ParticipantID}

	prescreen, err := surveyio.Load(cfg.Paths.PrescreenFile, opts)
	if err != nil {
		return PrepareReport{}, err
	}
	mainExport, err := surveyio.Load(cfg.Paths.MainFile, opts)
	if err != nil {
		return PrepareReport{}, err
	}
	report := PrepareReport{PrescreenRows: prescreen.Table.Len(), MainRows: mainExport.Table.Len()}
	rn.stage("load", prescreen.Table.Len()+mainExport.Table.Len(), prescreen.Table.Len()+mainExport.Table.Len(),
		logging.Int("prescreen_rows", prescreen.Table.Len()),
		logging.Int("main_rows", mainExport.Table.Len()),
		logging.Int("skipped_rows", prescreen.SkippedRows+mainExport.SkippedRows),
	)

	pre, err := cleanTable(prescreen.Table, schema.PIIColumns, schema.PrescreenDrop, schema.PrescreenQualitative)
	if err != nil {
		return PrepareReport{}, err
	}
	mainTable, err := cleanTable(mainExport.Table, schema.PIIColumns, schema.MainDrop, schema.MainQualitative)
	if err != nil {
		return PrepareReport{}, err
	}
	if len(schema.PrescreenKeep) > 0 {
		pre, err = scrub.Keep("prescreen projection", pre, schema.PrescreenKeep...)
		if err != nil {
			return PrepareReport{}, err
		}
	}
	rn.stage("scrub", pre.Len()+mainTable.Len(), pre.Len()+mainTable.Len(),
		logging.Int("prescreen_columns", len(pre.Columns())),
		logging.Int("main_columns", len(mainTable.Columns())),
	)

	filter, err := qualify.New("qualify", cfg.QualificationRules()...)
	if err != nil {
		return PrepareReport{}, err
	}
	qualified, qreport, err := filter.Apply(pre)
	if err != nil {
		return PrepareReport{}, err
	}
	report.Qualification = qreport
	rn.stage("qualify", qreport.Input, qreport.Kept)

	rec, err := reconcile.Reconcile(qualified, schema.ParticipantID, mainTable, schema.ParticipantID)
	if err != nil {
		return PrepareReport{}, err
	}
	report.Reconciled = rec.Overlap
	rn.stage("reconcile", qualified.Len()+mainTable.Len(), rec.Overlap,
		logging.Int("dropped_prescreen", rec.DroppedLeft),
		logging.Int("dropped_main", rec.DroppedRight),
	)

	right := rec.Right
	if len(cfg.Merge.MainExclude) > 0 {
		right, err = scrub.Drop("merge", right, cfg.Merge.MainExclude...)
		if err != nil {
			return PrepareReport{}, err
		}
	}
	var rightColumns []string
	if len(cfg.Merge.MainColumns) > 0 {
		rightColumns = cfg.Merge.MainColumns
	}
	merged, err := reconcile.Merge(rec.Left, right, reconcile.MergeSpec{
		Key:          schema.ParticipantID,
		RightColumns: rightColumns,
	})
	if err != nil {
		return PrepareReport{}, err
	}
	report.Merged = merged.Len()
	rn.stage("merge", rec.Overlap, merged.Len())

	if rule, ok := cfg.ProviderRule(); ok {
		providers, err := qualify.New("provider filter", rule)
		if err != nil {
			return PrepareReport{}, err
		}
		kept, preport, err := providers.Apply(merged)
		if err != nil {
			return PrepareReport{}, err
		}
		report.Provider = &preport
		rn.stage("provider_filter", preport.Input, preport.Kept)
		merged = kept
	}

	out, err := scrub.Drop("deidentify", merged, schema.ParticipantID)
	if err != nil {
		return PrepareReport{}, err
	}
	report.Records = out.Len()
	report.Columns = out.Columns()
	report.Catalog = joinCatalogs(out.Columns(), prescreen.Catalog, mainExport.Catalog)

	if err := surveyio.SaveTable(cfg.Paths.MergedFile, out); err != nil {
		return PrepareReport{}, fmt.Errorf("write merged dataset: %w", err)
	}
	report.OutputFile = cfg.Paths.MergedFile
	rn.stage("write", out.Len(), out.Len(), logging.String("path", cfg.Paths.MergedFile))

	report.Run = rn.info(r.now())
	dbPath, err := r.saveResults(ctx, rn, resultstore.Results{Run: report.Run.storeRun(), Stages: report.Run.Stages})
	if err != nil {
		return PrepareReport{}, err
	}
	report.ResultsDB = dbPath
	return report, nil
}

// cleanTable removes identifying, administrative, and free-text columns.
func cleanTable(t *survey.Table, pii, noNeed, qualitative []string) (*survey.Table, error) {
	out, err := scrub.New(pii).Scrub(t)
	if err != nil {
		return nil, err
	}
	if out, err = scrub.Drop("drop administrative", out, noNeed...); err != nil {
		return nil, err
	}
	return scrub.Drop("drop qualitative", out, qualitative...)
}

// joinCatalogs describes columns from the first catalog that knows them.
func joinCatalogs(columns []string, catalogs ...survey.Catalog) survey.Catalog {
	texts := make([]string, len(columns))
	for i, col := range columns {
		for _, c := range catalogs {
			if text, ok := c.Describe(col); ok {
				texts[i] = text
				break
			}
		}
	}
	return survey.NewCatalog(columns, texts)
}
