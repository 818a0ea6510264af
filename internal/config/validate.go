package config

import (
	"errors"
	"fmt"

	"sdnsurvey/internal/qualify"
	"sdnsurvey/internal/recode"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSchema(); err != nil {
		return err
	}
	if err := c.validateQualify(); err != nil {
		return err
	}
	if err := c.validateMerge(); err != nil {
		return err
	}
	if err := c.validateKnowledge(); err != nil {
		return err
	}
	if err := c.validateReddit(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.MergedFile == "" {
		return errors.New("paths.merged_file must be set")
	}
	return nil
}

func (c *Config) validateSchema() error {
	if c.Schema.MetadataRows < 1 {
		return errors.New("schema.metadata_rows must be at least 1; the first row after the header holds the question text")
	}
	if c.Schema.DatasetMetadataRows < 0 {
		return errors.New("schema.dataset_metadata_rows must not be negative")
	}
	if c.Schema.CodesMetadataRows < 0 {
		return errors.New("schema.codes_metadata_rows must not be negative")
	}
	if c.Schema.ParticipantID == "" {
		return errors.New("schema.participant_id must be set")
	}
	if c.Schema.ResponseID == "" {
		return errors.New("schema.response_id must be set")
	}
	if keep := c.Schema.PrescreenKeep; len(keep) > 0 && !contains(keep, c.Schema.ParticipantID) {
		return fmt.Errorf("schema.prescreen_keep must include the participant id column %q", c.Schema.ParticipantID)
	}
	if contains(c.Schema.PrescreenDrop, c.Schema.ParticipantID) || contains(c.Schema.MainDrop, c.Schema.ParticipantID) {
		return fmt.Errorf("schema drop lists must not remove the participant id column %q", c.Schema.ParticipantID)
	}
	return nil
}

func (c *Config) validateQualify() error {
	for _, rule := range c.Qualify.Rules {
		if err := rule.Qualification().Validate(); err != nil {
			return fmt.Errorf("qualify.rules: %w", err)
		}
	}
	return nil
}

func (c *Config) validateMerge() error {
	if len(c.Merge.ExcludedProviders) > 0 && c.Merge.ProviderColumn == "" {
		return errors.New("merge.provider_column must be set when merge.excluded_providers is not empty")
	}
	return nil
}

func (c *Config) validateKnowledge() error {
	k := c.Knowledge
	for name, value := range map[string]string{
		"knowledge.code_column":           k.CodeColumn,
		"knowledge.simplified_column":     k.SimplifiedColumn,
		"knowledge.self_knowledge_column": k.SelfKnowledgeColumn,
		"knowledge.trust_column":          k.TrustColumn,
		"knowledge.security_column":       k.SecurityColumn,
		"knowledge.privacy_column":        k.PrivacyColumn,
	} {
		if value == "" {
			return fmt.Errorf("%s must be set", name)
		}
	}
	for _, col := range []string{k.SelfKnowledgeColumn, k.TrustColumn, k.SecurityColumn, k.PrivacyColumn} {
		if !contains(k.DataColumns, col) {
			return fmt.Errorf("knowledge.data_columns must include %q", col)
		}
	}
	if _, err := c.Classifier(); err != nil {
		return fmt.Errorf("knowledge.buckets: %w", err)
	}
	return nil
}

func (c *Config) validateReddit() error {
	if c.Reddit.SDNSUseColumn == "" || c.Reddit.ServicesColumn == "" {
		return errors.New("reddit.sdns_use_column and reddit.services_column must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json", "auto":
	default:
		return fmt.Errorf("logging.format %q is not supported (console, json, auto)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	return nil
}

// Qualification converts the rule into a qualify.Rule.
func (r Rule) Qualification() qualify.Rule {
	return qualify.Rule{
		Name:         r.Name,
		Column:       r.Column,
		Op:           qualify.Op(r.Op),
		Values:       append([]string(nil), r.Values...),
		AllowMissing: r.AllowMissing,
	}
}

// QualificationRules returns every configured eligibility rule.
func (c *Config) QualificationRules() []qualify.Rule {
	rules := make([]qualify.Rule, len(c.Qualify.Rules))
	for i, rule := range c.Qualify.Rules {
		rules[i] = rule.Qualification()
	}
	return rules
}

// ProviderRule returns the rule excluding non-SDNS providers, or false when
// no providers are excluded. A missing provider answer is kept.
func (c *Config) ProviderRule() (qualify.Rule, bool) {
	if len(c.Merge.ExcludedProviders) == 0 {
		return qualify.Rule{}, false
	}
	return qualify.Rule{
		Name:         "offers_sdns",
		Column:       c.Merge.ProviderColumn,
		Op:           qualify.OpNotIn,
		Values:       append([]string(nil), c.Merge.ExcludedProviders...),
		AllowMissing: true,
	}, true
}

// Classifier builds the open-code classifier from the configured buckets.
func (c *Config) Classifier() (*recode.Classifier, error) {
	return recode.NewClassifier(recode.Knowledge, c.Knowledge.MissingBucket, c.Knowledge.Buckets)
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
