package pipeline

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"sdnsurvey/internal/distribution"
	"sdnsurvey/internal/flow"
	"sdnsurvey/internal/logging"
	"sdnsurvey/internal/rankcorr"
	"sdnsurvey/internal/recode"
	"sdnsurvey/internal/reconcile"
	"sdnsurvey/internal/resultstore"
	"sdnsurvey/internal/scrub"
	"sdnsurvey/internal/surveyio"
)

// CorrelationName is the stored name of the self-report vs coded knowledge
// correlation.
const CorrelationName = "self_vs_coded_knowledge"

// FlowReport is one built flow graph together with its edge export.
type FlowReport struct {
	Name  string     `json:"name"`
	File  string     `json:"file,omitempty"`
	Graph flow.Graph `json:"graph"`
}

// KnowledgeReport holds the DNS knowledge analysis.
type KnowledgeReport struct {
	Run          RunInfo                   `json:"run"`
	ResultsDB    string                    `json:"results_db,omitempty"`
	DatasetRows  int                       `json:"dataset_rows"`
	CodeRows     int                       `json:"code_rows"`
	Reconciled   int                       `json:"reconciled"`
	Unclassified []recode.UnclassifiedCode `json:"unclassified,omitempty"`
	Knowledge    distribution.Distribution `json:"knowledge"`

	// MissingSelfReport counts merged records without a self-reported
	// knowledge answer; they are left out of the correlation.
	MissingSelfReport int             `json:"missing_self_report"`
	Correlation       rankcorr.Result `json:"correlation"`
	Flows             []FlowReport    `json:"flows"`
}

type flowSpec struct {
	name   string
	layout flow.Layout
	column string
}

// Knowledge recodes the open-coded DNS explanations, correlates them with
// the self-reported knowledge, and builds the attitude flow graphs.
func (r *Runner) Knowledge(ctx context.Context) (KnowledgeReport, error) {
	lock, err := lockOutputDir(r.cfg.Paths.OutputDir)
	if err != nil {
		return KnowledgeReport{}, err
	}
	defer func() { _ = lock.release() }()

	ctx, rn := r.begin(ctx, WorkflowKnowledge)
	report, err := r.knowledge(ctx, rn)
	if err != nil {
		return KnowledgeReport{}, rn.fail(err)
	}
	return report, nil
}

func (r *Runner) knowledge(ctx context.Context, rn *run) (KnowledgeReport, error) {
	cfg := r.cfg
	k := cfg.Knowledge
	id := cfg.Schema.ResponseID

	data, err := surveyio.Load(cfg.Paths.DatasetFile, surveyio.LoadOptions{
		MetadataRows: cfg.Schema.DatasetMetadataRows,
		IDColumn:     id,
	})
	if err != nil {
		return KnowledgeReport{}, err
	}
	codes, err := surveyio.Load(cfg.Paths.CodesFile, surveyio.LoadOptions{
		MetadataRows: cfg.Schema.CodesMetadataRows,
		IDColumn:     id,
	})
	if err != nil {
		return KnowledgeReport{}, err
	}
	report := KnowledgeReport{DatasetRows: data.Table.Len(), CodeRows: codes.Table.Len()}
	rn.stage("load", data.Table.Len()+codes.Table.Len(), data.Table.Len()+codes.Table.Len(),
		logging.Int("dataset_rows", data.Table.Len()),
		logging.Int("code_rows", codes.Table.Len()),
	)

	codeTable, err := scrub.Drop("drop secondary codes", codes.Table, k.CodesDrop...)
	if err != nil {
		return KnowledgeReport{}, err
	}
	rec, err := reconcile.Reconcile(codeTable, id, data.Table, id)
	if err != nil {
		return KnowledgeReport{}, err
	}
	report.Reconciled = rec.Overlap
	rn.stage("reconcile", codeTable.Len()+data.Table.Len(), rec.Overlap,
		logging.Int("dropped_codes", rec.DroppedLeft),
		logging.Int("dropped_dataset", rec.DroppedRight),
	)

	merged, err := reconcile.Merge(rec.Left, rec.Right, reconcile.MergeSpec{
		Key:          id,
		LeftColumns:  []string{k.CodeColumn},
		RightColumns: k.DataColumns,
	})
	if err != nil {
		return KnowledgeReport{}, err
	}
	rn.stage("merge", rec.Overlap, merged.Len())

	classifier, err := cfg.Classifier()
	if err != nil {
		return KnowledgeReport{}, err
	}
	recoded, err := classifier.RecodeColumn(merged, k.CodeColumn, k.SimplifiedColumn)
	if err != nil {
		return KnowledgeReport{}, err
	}
	report.Unclassified = recoded.Unclassified
	for _, code := range recoded.Unclassified {
		logging.WarnWithContext(rn.logger, "open code not in classification table", "unclassified_code",
			logging.String("code", code.Code),
			logging.Int("records", code.Count),
			logging.String(logging.FieldErrorHint, "add the code to a [knowledge.buckets] list"),
			logging.String(logging.FieldImpact, "knowledge ranking will fail until the code is classified"),
		)
	}
	table := recoded.Table
	if report.Knowledge, err = distribution.Column(table, k.SimplifiedColumn); err != nil {
		return KnowledgeReport{}, err
	}
	rn.stage("recode", merged.Len(), table.Len(), logging.Int("unclassified_codes", len(recoded.Unclassified)))

	coded, _, err := recode.RankColumn(table, k.SimplifiedColumn, classifier.Scale())
	if err != nil {
		return KnowledgeReport{}, err
	}
	self, present, err := recode.RankColumn(table, k.SelfKnowledgeColumn, recode.SelfKnowledge)
	if err != nil {
		return KnowledgeReport{}, err
	}
	var xs, ys []int
	for i := range self {
		if !present[i] {
			report.MissingSelfReport++
			continue
		}
		xs = append(xs, self[i])
		ys = append(ys, coded[i])
	}
	if report.Correlation, err = rankcorr.SpearmanInts(xs, ys); err != nil {
		return KnowledgeReport{}, err
	}
	rn.stage("correlate", table.Len(), report.Correlation.N,
		logging.Float64("rho", report.Correlation.Rho),
		logging.Float64("p_value", report.Correlation.PValue),
	)

	specs := []flowSpec{
		{name: "trust", layout: flow.TrustLayout(), column: k.TrustColumn},
		{name: "security", layout: flow.SecurityLayout(), column: k.SecurityColumn},
		{name: "privacy", layout: flow.PrivacyLayout(), column: k.PrivacyColumn},
	}
	graphs := make([]flow.Graph, 0, len(specs))
	for _, spec := range specs {
		g, err := flow.BuildFromTable(spec.layout, table, spec.column, k.SimplifiedColumn)
		if err != nil {
			return KnowledgeReport{}, fmt.Errorf("build %s flow: %w", spec.name, err)
		}
		graphs = append(graphs, g)
		report.Flows = append(report.Flows, FlowReport{Name: spec.name, Graph: g})
		rn.stage("flow_"+spec.name, table.Len(), g.Total,
			logging.Int("edges", len(g.Edges)),
			logging.Int("skipped", g.Skipped),
		)
	}

	if cfg.Export.EdgeCSV {
		for i := range report.Flows {
			fr := &report.Flows[i]
			path := cfg.OutputPath("flow_" + fr.Name + ".csv")
			if err := writeEdges(path, fr.Graph); err != nil {
				return KnowledgeReport{}, fmt.Errorf("write %s edges: %w", fr.Name, err)
			}
			fr.File = path
		}
	}

	report.Run = rn.info(r.now())
	dbPath, err := r.saveResults(ctx, rn, resultstore.Results{
		Run:    report.Run.storeRun(),
		Stages: report.Run.Stages,
		Distributions: []resultstore.NamedDistribution{
			{Name: "knowledge." + k.SimplifiedColumn, Distribution: report.Knowledge},
		},
		Correlations: []resultstore.NamedCorrelation{{Name: CorrelationName, Result: report.Correlation}},
		Flows:        graphs,
	})
	if err != nil {
		return KnowledgeReport{}, err
	}
	report.ResultsDB = dbPath
	return report, nil
}

// writeEdges exports a graph as one CSV row per edge with resolved labels.
func writeEdges(path string, g flow.Graph) error {
	header := []string{"source_rank", "target_rank", "source", "target", "weight", "color"}
	rows := make([][]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		rows = append(rows, []string{
			strconv.Itoa(e.SourceRank),
			strconv.Itoa(e.TargetRank),
			g.Nodes[e.SourceNode].Label,
			g.Nodes[e.TargetNode].Label,
			strconv.Itoa(e.Weight),
			e.Color,
		})
	}
	return surveyio.WriteFile(path, func(w io.Writer) error {
		return surveyio.WriteRows(w, header, rows)
	})
}
