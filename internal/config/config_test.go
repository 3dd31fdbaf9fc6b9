package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/photo-ocr-exif/internal/description"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvPolicy, "")
	t.Setenv(EnvTessdataPrefix, "")
	return home
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	home := isolateEnv(t)

	cfg, path, exists, err := Load(filepath.Join(home, "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatalf("expected missing config to report exists=false")
	}
	if !strings.HasSuffix(path, "nope.toml") {
		t.Errorf("resolved path = %q", path)
	}
	if cfg.Policy() != description.PolicySkip {
		t.Errorf("default policy = %v, want skip", cfg.Policy())
	}
	if !cfg.Walk.Recurse {
		t.Error("recursion should default to on")
	}
	if got := strings.Join(cfg.OCR.Languages, "+"); got != "lav+eng" {
		t.Errorf("languages = %q", got)
	}
	if want := filepath.Join(home, ".local", "state", "ocr-exif"); cfg.Paths.StateDir != want {
		t.Errorf("state dir = %q, want %q", cfg.Paths.StateDir, want)
	}
	if !cfg.Journal.Enabled {
		t.Error("journal should default to enabled")
	}
}

func TestLoadFile(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, `
[metadata]
existing_ocr_policy = "UPDATE"
log_replaced_old_ocr = true

[walk]
recurse = false
extensions = [".JPG", "png", " "]

[logging]
level = "Debug"
format = "json"
`)

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved=%q exists=%v", resolved, exists)
	}
	if cfg.Policy() != description.PolicyUpdate {
		t.Errorf("policy = %v, want update", cfg.Policy())
	}
	if !cfg.Metadata.LogReplacedOldOCR {
		t.Error("log_replaced_old_ocr not applied")
	}
	opts := cfg.WalkOptions()
	if opts.Recurse {
		t.Error("recurse should be false")
	}
	if got := strings.Join(opts.Extensions, ","); got != "jpg,png" {
		t.Errorf("extensions = %q, want jpg,png", got)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	// untouched sections keep defaults
	if cfg.OCR.MinShortSide != defaultMinShortSide {
		t.Errorf("min_short_side = %d", cfg.OCR.MinShortSide)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, `
[metadata]
existing_ocr_polcy = "update"
`)
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, `
[walk]
extensions = []

[ocr]
languages = ["Latvian!"]
min_short_side = -1

[logging]
format = "xml"
`)
	_, _, _, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{
		"walk.extensions",
		"ocr.languages",
		"ocr.min_short_side",
		"logging.format",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, `
[metadata]
existing_ocr_policy = "sometimes"
`)
	_, _, _, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown policy")
	}
	for _, want := range []string{path, `"sometimes"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadRejectsUnknownPolicyFromEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv(EnvPolicy, "always")
	_, _, _, err := Load(writeConfig(t, ""))
	if err == nil || !strings.Contains(err.Error(), EnvPolicy) {
		t.Fatalf("err = %v, want %s error", err, EnvPolicy)
	}
}

func TestValidateRejectsOutOfRangePolicy(t *testing.T) {
	cfg := Default()
	cfg.Metadata.ExistingOCRPolicy = description.Policy(7)
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "metadata.existing_ocr_policy") {
		t.Fatalf("err = %v, want policy error", err)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, `
[metadata]
existing_ocr_policy = "skip"

[logging]
level = "info"
`)
	t.Setenv(EnvPolicy, "update")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvTessdataPrefix, "/opt/tessdata")

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Policy() != description.PolicyUpdate {
		t.Errorf("policy = %v, want update from env", cfg.Policy())
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.OCR.TessdataPrefix != "/opt/tessdata" {
		t.Errorf("tessdata prefix = %q", cfg.OCR.TessdataPrefix)
	}
}

func TestConfigPathFromEnvironment(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, "[walk]\nrecurse = false\n")
	t.Setenv(EnvConfigPath, path)

	cfg, resolved, exists, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved=%q exists=%v, want %q", resolved, exists, path)
	}
	if cfg.Walk.Recurse {
		t.Error("expected recurse=false from env-selected file")
	}
}

func TestCaseSensitiveExtensionsKeepCase(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, "[walk]\ncase_sensitive = true\nextensions = [\"JPG\"]\n")
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Walk.Extensions[0] != "JPG" {
		t.Errorf("extension = %q, want JPG", cfg.Walk.Extensions[0])
	}
	if !cfg.WalkOptions().Matches("a.JPG") || cfg.WalkOptions().Matches("a.jpg") {
		t.Error("case-sensitive matching not honoured")
	}
}

func TestSampleConfigLoads(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("sample file not found after CreateSample")
	}
	def := Default()
	if cfg.Metadata.ExistingOCRPolicy != def.Metadata.ExistingOCRPolicy || cfg.OCR.MinShortSide != def.OCR.MinShortSide {
		t.Errorf("sample config drifted from defaults: %+v", cfg)
	}
}

func TestLockPathStable(t *testing.T) {
	cfg := Default()
	cfg.Paths.StateDir = t.TempDir()
	dir := t.TempDir()

	a := cfg.LockPath(dir)
	b := cfg.LockPath(dir + string(filepath.Separator) + ".")
	if a != b {
		t.Errorf("lock path differs for equivalent dirs: %q vs %q", a, b)
	}
	if cfg.LockPath(t.TempDir()) == a {
		t.Error("distinct directories share a lock path")
	}
	if filepath.Dir(a) != filepath.Join(cfg.Paths.StateDir, "locks") {
		t.Errorf("lock path %q outside locks dir", a)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	isolateEnv(t)
	cfg := Default()
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := writeConfig(t, string(data))
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("marshalled config does not load: %v", err)
	}
}
