package testsupport

import (
	"testing"

	"sdnsurvey/internal/config"
)

// NeverUsed is the exclusive "no account" answer of the prescreen.
const NeverUsed = "I have never had nor used a SmartDNS account"

// Respondent fixtures, keyed by the ids used in the fixture exports.
//
// Prescreen P1..P7: P1 and P7 qualify and appear in the main survey, P4
// qualifies but names an excluded provider, P6 qualifies but never took the
// main survey, P2 and P3 fail a rule, P5 has no usage answer. Main survey
// P8 never took the prescreen.
//
// Knowledge R1..R4 and R6 are coded and in the dataset; R6 has no code and
// no self-report. R5 is only in the dataset, R9 only in the codes.
var (
	MergedParticipants = []string{"P1", "P7"}
	// MergedRandomIDs are the random_id values of MergedParticipants, the
	// only respondent key left in the merged output.
	MergedRandomIDs    = []string{"rand-P1", "rand-P7"}
	KnowledgeResponses = []string{"R1", "R2", "R3", "R4", "R6"}
)

// WriteStudyFixtures writes small exports for every input path of cfg. Column
// layouts follow cfg so default configs load them unchanged.
func WriteStudyFixtures(t testing.TB, cfg *config.Config) {
	t.Helper()

	WritePrescreen(t, cfg)
	WriteMain(t, cfg)
	WriteDataset(t, cfg)
	WriteCodes(t, cfg)
	WriteReddit(t, cfg)
}

// export lays out a raw survey export: named columns get per-row values,
// every other column is filler.
type export struct {
	columns []string
	fixed   map[string]int
}

func newExport(groups ...[]string) *export {
	e := &export{fixed: map[string]int{}}
	for _, group := range groups {
		for _, col := range group {
			if _, dup := e.fixed[col]; dup {
				continue
			}
			e.fixed[col] = len(e.columns)
			e.columns = append(e.columns, col)
		}
	}
	return e
}

func (e *export) row(values map[string]string) []string {
	out := make([]string, len(e.columns))
	for i := range out {
		out[i] = "x"
	}
	for col, v := range values {
		if i, ok := e.fixed[col]; ok {
			out[i] = v
		}
	}
	return out
}

// metadata returns the question text row and, for two metadata rows, the
// ImportId row.
func (e *export) metadata(rows int) [][]string {
	var out [][]string
	for r := 0; r < rows; r++ {
		row := make([]string, len(e.columns))
		for i, col := range e.columns {
			if r == 0 {
				row[i] = "Question " + col
			} else {
				row[i] = `{"ImportId":"` + col + `"}`
			}
		}
		out = append(out, row)
	}
	return out
}

func (e *export) write(t testing.TB, path string, metadataRows int, rows ...map[string]string) {
	t.Helper()

	records := e.metadata(metadataRows)
	for _, r := range rows {
		records = append(records, e.row(r))
	}
	WriteCSV(t, path, e.columns, records...)
}

// WritePrescreen writes the prescreen export.
func WritePrescreen(t testing.TB, cfg *config.Config) {
	t.Helper()

	s := cfg.Schema
	e := newExport(s.PIIColumns, s.PrescreenDrop, s.PrescreenQualitative, s.PrescreenKeep)
	base := func(pid, uses, account, provider string) map[string]string {
		return map[string]string{
			s.ParticipantID: pid,
			"random_id":     "rand-" + pid,
			"Q2.3":          uses,
			"Q2.6":          account,
			"Q9_15_TEXT":    provider,
			"Q3.2":          "I somewhat know",
			"Q13.1":         "25 - 34",
		}
	}
	e.write(t, cfg.Paths.PrescreenFile, s.MetadataRows,
		base("P1", "Yes", "Personal account", ""),
		base("P2", "No", "Personal account", ""),
		base("P3", "Yes", NeverUsed, ""),
		base("P4", "Yes", "Personal account", "Mullvad"),
		base("P5", "", "Personal account", ""),
		base("P6", "Yes", "Shared account", ""),
		base("P7", "Yes", "Shared account", "NordVPN"),
	)
}

// WriteMain writes the main survey export.
func WriteMain(t testing.TB, cfg *config.Config) {
	t.Helper()

	s := cfg.Schema
	answers := []string{s.ParticipantID, " ", " .1", "Q4.5", "Q9.1", "Q29_2"}
	e := newExport(s.PIIColumns, s.MainDrop, s.MainQualitative, answers)
	row := func(pid, trust string) map[string]string {
		return map[string]string{
			s.ParticipantID: pid,
			" ":             "Agree",
			" .1":           "Somewhat agree",
			"Q4.5":          "Yes",
			"Q9.1":          trust,
			"Q29_2":         "3",
		}
	}
	e.write(t, cfg.Paths.MainFile, s.MetadataRows,
		row("P1", "Very trustworthy"),
		row("P2", "Slightly trustworthy"),
		row("P4", "Very untrustworthy"),
		row("P7", "Slightly untrustworthy"),
		row("P8", "Very trustworthy"),
	)
}

// WriteDataset writes the knowledge analysis dataset. Its first column is an
// unnamed row index.
func WriteDataset(t testing.TB, cfg *config.Config) {
	t.Helper()

	k := cfg.Knowledge
	columns := append([]string{"", cfg.Schema.ResponseID}, k.DataColumns...)
	e := newExport(columns)
	row := func(idx, id, self, trust, security, privacy string) map[string]string {
		return map[string]string{
			"":                    idx,
			cfg.Schema.ResponseID: id,
			k.SelfKnowledgeColumn: self,
			k.TrustColumn:         trust,
			k.SecurityColumn:      security,
			k.PrivacyColumn:       privacy,
		}
	}
	e.write(t, cfg.Paths.DatasetFile, cfg.Schema.DatasetMetadataRows,
		row("0", "R1", "I definitely know", "Very trustworthy", "Strongly agree", "Agree"),
		row("1", "R2", "I definitely do not know", "Slightly untrustworthy", "Disagree", "Strongly disagree"),
		row("2", "R3", "I somewhat know", "Very trustworthy", "Strongly agree", ""),
		row("3", "R4", "I'm not sure I know", "Slightly trustworthy", "Somewhat agree", "Agree"),
		row("4", "R5", "I definitely know", "Very trustworthy", "Agree", "Agree"),
		row("5", "R6", "", "Neither trustworthy nor untrustworthy", "Agree", ""),
	)
}

// WriteCodes writes the open-coding sheet.
func WriteCodes(t testing.TB, cfg *config.Config) {
	t.Helper()

	k := cfg.Knowledge
	id := cfg.Schema.ResponseID
	columns := []string{id, "Q3.3", k.CodeColumn, "Code 2", "Code 3", ""}
	e := newExport(columns)
	row := func(rid, code string) map[string]string {
		return map[string]string{id: rid, "Q3.3": "free text", k.CodeColumn: code, "Code 2": "", "Code 3": "", "": ""}
	}
	e.write(t, cfg.Paths.CodesFile, cfg.Schema.CodesMetadataRows,
		row("R1", "maps_domain_to_ip"),
		row("R2", "don't_know"),
		row("R3", "maps_website_to_ip"),
		row("R4", "navigation_to_website"),
		row("R6", ""),
		row("R9", "query_dns_server"),
	)
}

// WriteReddit writes the Reddit cohort export.
func WriteReddit(t testing.TB, cfg *config.Config) {
	t.Helper()

	rc := cfg.Reddit
	answers := append(append([]string{cfg.Schema.ResponseID}, rc.DemographicColumns...), rc.OfferingLikertColumns...)
	answers = append(answers, rc.OfferedColumn, rc.UsedColumn, rc.SDNSUseColumn, rc.ServicesColumn, rc.SecurityColumn, rc.PrivacyColumn)
	e := newExport(cfg.Schema.PIIColumns, rc.DropColumns, answers)
	row := func(id, age, offered, used, uses, services, security string) map[string]string {
		return map[string]string{
			cfg.Schema.ResponseID: id,
			"Q13.1":               age,
			"Q7.1":                "Yes",
			"Q7.2":                "No",
			rc.OfferedColumn:      offered,
			rc.UsedColumn:         used,
			rc.SDNSUseColumn:      uses,
			rc.ServicesColumn:     services,
			rc.SecurityColumn:     security,
			rc.PrivacyColumn:      "Agree",
		}
	}
	e.write(t, cfg.Paths.RedditFile, cfg.Schema.MetadataRows,
		row("U1", "18 - 24", "VPN,Proxy", "VPN", "Yes", "NordVPN,Unlocator", "Agree"),
		row("U2", "25 - 34", "VPN", "", "No", "Unlocator", "Disagree"),
		row("U3", "18 - 24", "VPN,Proxy,Ad blocking", "VPN,Proxy", "", "NordVPN", "Agree"),
	)
}
