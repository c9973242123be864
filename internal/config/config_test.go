package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"binmerge/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "binmerge", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "binmerge")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.HistoryPath() != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}
	if cfg.Output.DirName != "combined" || cfg.Output.FileType != "BINARY" || cfg.Output.Dir != "" {
		t.Fatalf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.Cue.Encoding != config.EncodingAuto || cfg.Cue.StrictIDs {
		t.Fatalf("unexpected cue defaults: %+v", cfg.Cue)
	}
	if cfg.CopyBufferSize() != 4096 {
		t.Fatalf("unexpected copy buffer: %d", cfg.CopyBufferSize())
	}
	if cfg.SettleDelay().Seconds() != 3 {
		t.Fatalf("unexpected settle delay: %s", cfg.SettleDelay())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Chdir(t.TempDir())
	configPath := filepath.Join(t.TempDir(), "binmerge.toml")

	type payload struct {
		Output struct {
			DirName  string `toml:"dir_name"`
			FileType string `toml:"file_type"`
		} `toml:"output"`
		Cue struct {
			Encoding  string `toml:"encoding"`
			StrictIDs bool   `toml:"strict_ids"`
		} `toml:"cue"`
		Copy struct {
			BufferKiB int `toml:"buffer_kib"`
		} `toml:"copy"`
	}
	custom := payload{}
	custom.Output.DirName = "merged"
	custom.Output.FileType = "binary"
	custom.Cue.Encoding = "SJIS"
	custom.Cue.StrictIDs = true
	custom.Copy.BufferKiB = 64
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Output.DirName != "merged" {
		t.Fatalf("expected dir_name from file, got %q", cfg.Output.DirName)
	}
	if cfg.Output.FileType != "BINARY" {
		t.Fatalf("expected upper-cased file type, got %q", cfg.Output.FileType)
	}
	if cfg.Cue.Encoding != config.EncodingShiftJIS {
		t.Fatalf("expected shift-jis alias to normalize, got %q", cfg.Cue.Encoding)
	}
	if !cfg.Cue.StrictIDs {
		t.Fatal("expected strict_ids from file")
	}
	if cfg.CopyBufferSize() != 64*1024 {
		t.Fatalf("unexpected copy buffer: %d", cfg.CopyBufferSize())
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Chdir(t.TempDir())
	configPath := filepath.Join(t.TempDir(), "binmerge.toml")
	if err := os.WriteFile(configPath, []byte("[output]\nbogus = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to fail")
	}
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	configPath := filepath.Join(t.TempDir(), "binmerge.toml")
	contents := "[output]\ndir = \"/srv/images\"\n[cue]\nencoding = \"utf-8\"\n[logging]\nlevel = \"warn\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	outDir := t.TempDir()
	t.Setenv(config.EnvOutputDir, outDir)
	t.Setenv(config.EnvLogLevel, "DEBUG")
	t.Setenv(config.EnvCueEncoding, "gbk")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Output.Dir != outDir {
		t.Errorf("expected output dir from env, got %q", cfg.Output.Dir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level from env, got %q", cfg.Logging.Level)
	}
	if cfg.Cue.Encoding != config.EncodingGBK {
		t.Errorf("expected encoding from env, got %q", cfg.Cue.Encoding)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)
	t.Setenv("HOME", t.TempDir())
	// Register the variable with t.Setenv so it is restored, then clear it so
	// only the .env file can supply it.
	t.Setenv(config.EnvCueEncoding, "")
	os.Unsetenv(config.EnvCueEncoding)

	if err := os.WriteFile(filepath.Join(workDir, ".env"), []byte(config.EnvCueEncoding+"=shift-jis\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Cue.Encoding != config.EncodingShiftJIS {
		t.Fatalf("expected encoding from .env, got %q", cfg.Cue.Encoding)
	}
}

func TestLoadEnvFileMissingIsNotAnError(t *testing.T) {
	if err := config.LoadEnvFile(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("LoadEnvFile returned error: %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "dir_name = \"combined\"") {
		t.Fatalf("sample config missing output section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.StateDir, "binmerge") {
		t.Fatalf("expected state dir to contain binmerge, got %q", cfg.Paths.StateDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config does not validate: %v", err)
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	cfg := config.Default()
	cfg.Cue.StrictIDs = true
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal encoded config: %v", err)
	}
	if decoded != cfg {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, cfg)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"nested dir name", func(c *config.Config) { c.Output.DirName = "a/b" }},
		{"parent dir name", func(c *config.Config) { c.Output.DirName = ".." }},
		{"file type", func(c *config.Config) { c.Output.FileType = "ISO" }},
		{"encoding", func(c *config.Config) { c.Cue.Encoding = "latin-1" }},
		{"zero buffer", func(c *config.Config) { c.Copy.BufferKiB = 0 }},
		{"huge buffer", func(c *config.Config) { c.Copy.BufferKiB = 1 << 20 }},
		{"negative settle", func(c *config.Config) { c.Watch.SettleSeconds = -1 }},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
