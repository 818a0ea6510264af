package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSchema()
	c.normalizeQualify()
	c.normalizeMerge()
	c.normalizeKnowledge()
	c.normalizeReddit()
	if err := c.normalizeExport(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		name  string
		value *string
	}{
		{"paths.prescreen_file", &c.Paths.PrescreenFile},
		{"paths.main_file", &c.Paths.MainFile},
		{"paths.dataset_file", &c.Paths.DatasetFile},
		{"paths.codes_file", &c.Paths.CodesFile},
		{"paths.reddit_file", &c.Paths.RedditFile},
		{"paths.output_dir", &c.Paths.OutputDir},
	}
	for _, field := range fields {
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}
	// A bare merged_file name lands in the output directory.
	merged := strings.TrimSpace(c.Paths.MergedFile)
	if merged != "" && !strings.HasPrefix(merged, "~") && filepath.Base(merged) == merged {
		merged = filepath.Join(c.Paths.OutputDir, merged)
	}
	expanded, err := expandPath(merged)
	if err != nil {
		return fmt.Errorf("paths.merged_file: %w", err)
	}
	c.Paths.MergedFile = expanded
	return nil
}

// Column names are kept verbatim apart from identifiers: the security and
// privacy impressions are literally named " " and " .1".
func (c *Config) normalizeSchema() {
	c.Schema.ParticipantID = strings.TrimSpace(c.Schema.ParticipantID)
	c.Schema.ResponseID = strings.TrimSpace(c.Schema.ResponseID)
}

func (c *Config) normalizeQualify() {
	for i := range c.Qualify.Rules {
		rule := &c.Qualify.Rules[i]
		rule.Name = strings.TrimSpace(rule.Name)
		rule.Op = strings.ToLower(strings.TrimSpace(rule.Op))
		if rule.Name == "" {
			rule.Name = fmt.Sprintf("rule_%d", i+1)
		}
	}
}

func (c *Config) normalizeMerge() {
	c.Merge.ProviderColumn = strings.TrimSpace(c.Merge.ProviderColumn)
}

func (c *Config) normalizeKnowledge() {
	c.Knowledge.CodeColumn = strings.TrimSpace(c.Knowledge.CodeColumn)
	c.Knowledge.SimplifiedColumn = strings.TrimSpace(c.Knowledge.SimplifiedColumn)
	c.Knowledge.MissingBucket = strings.TrimSpace(c.Knowledge.MissingBucket)
}

func (c *Config) normalizeReddit() {
	c.Reddit.SDNSUseColumn = strings.TrimSpace(c.Reddit.SDNSUseColumn)
	c.Reddit.ServicesColumn = strings.TrimSpace(c.Reddit.ServicesColumn)
}

func (c *Config) normalizeExport() error {
	if !c.Export.SQLiteEnabled {
		return nil
	}
	path := strings.TrimSpace(c.Export.SQLitePath)
	if path == "" {
		path = defaultSQLiteFile
	}
	if !strings.HasPrefix(path, "~") && !filepath.IsAbs(path) {
		path = filepath.Join(c.Paths.OutputDir, path)
	}
	expanded, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("export.sqlite_path: %w", err)
	}
	c.Export.SQLitePath = expanded
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.File != "" {
		expanded, err := expandPath(strings.TrimSpace(c.Logging.File))
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
