package testsupport

import (
	"path/filepath"
	"testing"

	"binmerge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Settle delays are zeroed so watcher tests run immediately.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Watch.SettleSeconds = 0

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

// WithOutputDir sends every combined image to dir.
func WithOutputDir(dir string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Dir = dir
	}
}

// WithStrictIDs makes out-of-range ids fatal.
func WithStrictIDs() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cue.StrictIDs = true
	}
}

// WithOverwrite allows replacing existing combined images.
func WithOverwrite() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Overwrite = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
