package testsupport

import (
	"path/filepath"
	"testing"

	"sdnsurvey/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose inputs and outputs live under a unique
// temp directory per test. Input files are not written; use WithFixtures or
// the Write helpers for that.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.PrescreenFile = filepath.Join(base, "data", "prescreen.csv")
	cfgVal.Paths.MainFile = filepath.Join(base, "data", "main.csv")
	cfgVal.Paths.DatasetFile = filepath.Join(base, "data", "dataset.csv")
	cfgVal.Paths.CodesFile = filepath.Join(base, "data", "codes.csv")
	cfgVal.Paths.RedditFile = filepath.Join(base, "data", "reddit.csv")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.MergedFile = filepath.Join(base, "out", "prolific_datafile.csv")
	cfgVal.Export.SQLitePath = filepath.Join(base, "out", "results.db")
	cfgVal.Logging.Format = "json"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSQLite enables the results database export.
func WithSQLite() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.SQLiteEnabled = true
	}
}

// WithoutEdgeCSV disables the flow edge CSV export.
func WithoutEdgeCSV() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.EdgeCSV = false
	}
}

// WithFixtures writes the standard study fixtures for every input path.
func WithFixtures() ConfigOption {
	return func(b *configBuilder) {
		WriteStudyFixtures(b.t, b.cfg)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
