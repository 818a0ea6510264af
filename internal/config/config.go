package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains input and output locations.
type Paths struct {
	PrescreenFile string `toml:"prescreen_file"`
	MainFile      string `toml:"main_file"`
	MergedFile    string `toml:"merged_file"`
	DatasetFile   string `toml:"dataset_file"`
	CodesFile     string `toml:"codes_file"`
	RedditFile    string `toml:"reddit_file"`
	OutputDir     string `toml:"output_dir"`
}

// Schema names the columns and row layout of the raw survey exports.
type Schema struct {
	// MetadataRows counts the rows after the header in raw Qualtrics
	// exports. The first holds question text, the second the import ids.
	MetadataRows int `toml:"metadata_rows"`
	// DatasetMetadataRows applies to the analysis dataset, which was
	// written after metadata rows were already removed.
	DatasetMetadataRows int `toml:"dataset_metadata_rows"`
	// CodesMetadataRows applies to the open-coding spreadsheet export.
	CodesMetadataRows    int      `toml:"codes_metadata_rows"`
	ParticipantID        string   `toml:"participant_id"`
	ResponseID           string   `toml:"response_id"`
	PIIColumns           []string `toml:"pii_columns"`
	PrescreenDrop        []string `toml:"prescreen_drop"`
	MainDrop             []string `toml:"main_drop"`
	PrescreenQualitative []string `toml:"prescreen_qualitative"`
	MainQualitative      []string `toml:"main_qualitative"`
	PrescreenKeep        []string `toml:"prescreen_keep"`
}

// Rule is one qualification predicate as written in the config file.
type Rule struct {
	Name         string   `toml:"name"`
	Column       string   `toml:"column"`
	Op           string   `toml:"op"`
	Values       []string `toml:"values"`
	AllowMissing bool     `toml:"allow_missing"`
}

// Qualify contains the prescreen eligibility rules. Every rule must hold.
type Qualify struct {
	Rules []Rule `toml:"rules"`
}

// Merge controls the prescreen and main survey join.
type Merge struct {
	// MainColumns lists the main survey columns kept in the merge. Empty
	// keeps every remaining column.
	MainColumns []string `toml:"main_columns"`
	// MainExclude lists main survey columns removed before the merge, for
	// fields that also appear in the prescreen projection.
	MainExclude       []string `toml:"main_exclude"`
	ProviderColumn    string   `toml:"provider_column"`
	ExcludedProviders []string `toml:"excluded_providers"`
}

// Knowledge configures the DNS knowledge analysis.
type Knowledge struct {
	CodeColumn          string              `toml:"code_column"`
	CodesDrop           []string            `toml:"codes_drop"`
	DataColumns         []string            `toml:"data_columns"`
	SimplifiedColumn    string              `toml:"simplified_column"`
	SelfKnowledgeColumn string              `toml:"self_knowledge_column"`
	TrustColumn         string              `toml:"trust_column"`
	SecurityColumn      string              `toml:"security_column"`
	PrivacyColumn       string              `toml:"privacy_column"`
	MissingBucket       string              `toml:"missing_bucket"`
	Buckets             map[string][]string `toml:"buckets"`
}

// Reddit configures the Reddit cohort summary.
type Reddit struct {
	DropColumns           []string `toml:"drop_columns"`
	DemographicColumns    []string `toml:"demographic_columns"`
	OfferingLikertColumns []string `toml:"offering_likert_columns"`
	OfferedColumn         string   `toml:"offered_column"`
	UsedColumn            string   `toml:"used_column"`
	SDNSUseColumn         string   `toml:"sdns_use_column"`
	ServicesColumn        string   `toml:"services_column"`
	SecurityColumn        string   `toml:"security_column"`
	PrivacyColumn         string   `toml:"privacy_column"`
}

// Export toggles the optional outputs written under paths.output_dir.
type Export struct {
	EdgeCSV       bool   `toml:"edge_csv"`
	SQLiteEnabled bool   `toml:"sqlite_enabled"`
	SQLitePath    string `toml:"sqlite_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for sdnsurvey.
//
// Configuration sections by workflow:
//   - Paths: input exports and the output directory
//   - Schema: raw export layout and the column lists removed from each table
//   - Qualify: prescreen eligibility rules
//   - Merge: prescreen/main join and provider exclusion
//   - Knowledge: open-code classification and the knowledge analysis columns
//   - Reddit: Reddit cohort summary columns
//   - Export: optional CSV and SQLite outputs
//   - Logging: log format, level, and destination
type Config struct {
	Paths     Paths     `toml:"paths"`
	Schema    Schema    `toml:"schema"`
	Qualify   Qualify   `toml:"qualify"`
	Merge     Merge     `toml:"merge"`
	Knowledge Knowledge `toml:"knowledge"`
	Reddit    Reddit    `toml:"reddit"`
	Export    Export    `toml:"export"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("sdnsurvey.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// OutputPath joins name onto the output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.Paths.OutputDir, name)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
// An existing file is left untouched and reported as an error.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("config already exists at %s", path)
		}
		return fmt.Errorf("write sample config: %w", err)
	}
	if _, err := file.WriteString(sampleConfig); err != nil {
		_ = file.Close()
		return fmt.Errorf("write sample config: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
