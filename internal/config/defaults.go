package config

import "sdnsurvey/internal/recode"

const (
	defaultConfigPath          = "~/.config/sdnsurvey/config.toml"
	defaultPrescreenFile       = "data/SDNS-ProlificPrescreen_12July21.csv"
	defaultMainFile            = "data/SDNS-ProlificMain_12July21.csv"
	defaultMergedFile          = "prolific_datafile.csv"
	defaultDatasetFile         = "data/fullDataset_post_drops.csv"
	defaultCodesFile           = "data/Response_Coding-deidentified - Q3.3-Primary.csv"
	defaultRedditFile          = "data/SDNS_RedditData_raw.csv"
	defaultOutputDir           = "out"
	defaultMetadataRows        = 2
	defaultDatasetMetadataRows = 0
	defaultCodesMetadataRows   = 1
	defaultParticipantID       = "PROLIFIC_PID"
	defaultResponseID          = "ResponseId"
	defaultProviderColumn      = "Q9_15_TEXT"
	defaultCodeColumn          = "Code 1"
	defaultSimplifiedColumn    = "simplified_code"
	defaultSelfKnowledgeColumn = "Q3.2"
	defaultTrustColumn         = "Q9.1"
	defaultSecurityColumn      = " "
	defaultPrivacyColumn       = " .1"
	defaultSQLiteFile          = "results.db"
	defaultLogFormat           = "auto"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with the study's column layout.
func Default() Config {
	return Config{
		Paths: Paths{
			PrescreenFile: defaultPrescreenFile,
			MainFile:      defaultMainFile,
			MergedFile:    defaultMergedFile,
			DatasetFile:   defaultDatasetFile,
			CodesFile:     defaultCodesFile,
			RedditFile:    defaultRedditFile,
			OutputDir:     defaultOutputDir,
		},
		Schema: Schema{
			MetadataRows:        defaultMetadataRows,
			DatasetMetadataRows: defaultDatasetMetadataRows,
			CodesMetadataRows:   defaultCodesMetadataRows,
			ParticipantID:       defaultParticipantID,
			ResponseID:          defaultResponseID,
			PIIColumns: []string{
				"IPAddress", "RecipientLastName", "RecipientFirstName", "RecipientEmail",
				"LocationLatitude", "LocationLongitude", "Status",
			},
			PrescreenDrop: []string{
				"StartDate", "EndDate", "Progress", "UserLanguage", "Duration (in seconds)",
				"Finished", "DistributionChannel", "urlPart", "idURL", "Q1.3", "Q1.4", "Q1.5",
				"Rejected", "RecordedDate", "ExternalReference", "SESSION_ID", "STUDY_ID",
			},
			MainDrop: []string{
				"StartDate", "EndDate", "Progress", "UserLanguage", "Duration (in seconds)",
				"Finished", "DistributionChannel", "urlPart", "idURL", "Q114", "Q113", "Q112",
				"Low_quality", "RecordedDate", "ResponseId", "ExternalReference", "STUDY_ID", "SESSION_ID",
			},
			PrescreenQualitative: []string{"Q2.2", "Q3.3"},
			MainQualitative:      []string{"Q4.6", "Q6.2", "Q6.4", "Q9.2", "Q10.3", "Q11.3", "Q11.5"},
			PrescreenKeep: []string{
				"PROLIFIC_PID", "random_id", "Q2.1", "Q2.3", "Q2.4", "Q2.6", "Q9", "Q9_15_TEXT",
				"Q3.1", "Q3.2", "Q13.1", "Q13.2", "Q13.3", "Q13.4", "Q13.5", "Q13.5_4_TEXT", "Q13.6",
			},
		},
		Qualify: Qualify{
			Rules: []Rule{
				{Name: "uses_sdns", Column: "Q2.3", Op: "equals", Values: []string{"Yes"}},
				{Name: "has_sdns_account", Column: "Q2.6", Op: "not_equals", Values: []string{"I have never had nor used a SmartDNS account"}},
			},
		},
		Merge: Merge{
			ProviderColumn:    defaultProviderColumn,
			ExcludedProviders: []string{"KutoVpn", "OperaVPN", "protonvpn", "Mullvad"},
		},
		Knowledge: Knowledge{
			CodeColumn:          defaultCodeColumn,
			CodesDrop:           []string{"Q3.3", "Code 2", "Code 3", "Unnamed: 5"},
			DataColumns:         []string{defaultSecurityColumn, defaultPrivacyColumn, "Q4.5", defaultTrustColumn, "Q29_2", defaultSelfKnowledgeColumn},
			SimplifiedColumn:    defaultSimplifiedColumn,
			SelfKnowledgeColumn: defaultSelfKnowledgeColumn,
			TrustColumn:         defaultTrustColumn,
			SecurityColumn:      defaultSecurityColumn,
			PrivacyColumn:       defaultPrivacyColumn,
			MissingBucket:       recode.Low,
			Buckets:             copyBuckets(recode.DefaultCodeBuckets),
		},
		Reddit: Reddit{
			DropColumns:           []string{"Progress", "UserLanguage", "DistributionChannel", "urlPart", "idURL", "Q1.3", "Q1.4", "Q1.5"},
			DemographicColumns:    []string{"Q13.1", "Q13.2", "Q13.3", "Q13.4", "Q13.5", "Q13.5_4_TEXT", "Q13.6"},
			OfferingLikertColumns: []string{"Q7.1", "Q7.2"},
			OfferedColumn:         "Q7.3",
			UsedColumn:            "Q7.4",
			SDNSUseColumn:         "Q2.3",
			ServicesColumn:        "Q9",
			SecurityColumn:        defaultSecurityColumn,
			PrivacyColumn:         defaultPrivacyColumn,
		},
		Export: Export{
			EdgeCSV:    true,
			SQLitePath: defaultSQLiteFile,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func copyBuckets(src map[string][]string) map[string][]string {
	out := make(map[string][]string, len(src))
	for label, codes := range src {
		out[label] = append([]string(nil), codes...)
	}
	return out
}
