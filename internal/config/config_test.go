package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetConfigValue(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")

	// Flag value wins.
	if got := getConfigValue("from-flag", "TEST_CONFIG_KEY", "default"); got != "from-flag" {
		t.Errorf("expected flag value, got %q", got)
	}

	// Env value next.
	if got := getConfigValue("", "TEST_CONFIG_KEY", "default"); got != "from-env" {
		t.Errorf("expected env value, got %q", got)
	}

	// Default last.
	if got := getConfigValue("", "TEST_CONFIG_MISSING", "default"); got != "default" {
		t.Errorf("expected default value, got %q", got)
	}
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("TEST_INT_KEY", "42")

	if got := getIntConfigValue("", "TEST_INT_KEY", 7); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := getIntConfigValue("", "TEST_INT_MISSING", 7); got != 7 {
		t.Errorf("expected default 7, got %d", got)
	}

	// Garbage falls back to default.
	t.Setenv("TEST_INT_BAD", "not-a-number")
	if got := getIntConfigValue("", "TEST_INT_BAD", 7); got != 7 {
		t.Errorf("expected default 7 for garbage, got %d", got)
	}
}

func TestGetFloatConfigValue(t *testing.T) {
	t.Setenv("TEST_FLOAT_KEY", "0.85")

	if got := getFloatConfigValue("", "TEST_FLOAT_KEY", 0.5); got != 0.85 {
		t.Errorf("expected 0.85, got %v", got)
	}
	if got := getFloatConfigValue("", "TEST_FLOAT_MISSING", 0.5); got != 0.5 {
		t.Errorf("expected default 0.5, got %v", got)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" example.com, tracker.io ,,localhost ")
	want := []string{"example.com", "tracker.io", "localhost"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %q, want %q", i, got[i], want[i])
		}
	}

	if got := splitList(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{BasePath: "/tmp/bookmeup"},
		Health:  HealthConfig{MaxRedirects: 5, Workers: 5},
		Dedup:   DedupConfig{TitleThreshold: 0.8},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	bad := *valid
	bad.App.Environment = "sandbox"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for invalid environment")
	}

	bad = *valid
	bad.Logger.Level = "verbose"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for invalid log level")
	}

	bad = *valid
	bad.Dedup.TitleThreshold = 1.5
	if err := bad.Validate(); err == nil {
		t.Error("expected error for out-of-range threshold")
	}

	bad = *valid
	bad.Health.Workers = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero workers")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nTEST_ENVFILE_KEY=hello\nTEST_ENVFILE_QUOTED=\"world\"\nbroken-line\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("TEST_ENVFILE_KEY", "")
	t.Setenv("TEST_ENVFILE_QUOTED", "")
	os.Unsetenv("TEST_ENVFILE_KEY")
	os.Unsetenv("TEST_ENVFILE_QUOTED")

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}

	if got := os.Getenv("TEST_ENVFILE_KEY"); got != "hello" {
		t.Errorf("TEST_ENVFILE_KEY: got %q, want %q", got, "hello")
	}
	if got := os.Getenv("TEST_ENVFILE_QUOTED"); got != "world" {
		t.Errorf("TEST_ENVFILE_QUOTED: got %q, want %q", got, "world")
	}
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default/path")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != "/default/path" {
		t.Errorf("expected default path, got %q", got)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got, err = expandPath("~/data", "")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != filepath.Join(home, "data") {
		t.Errorf("expected %q, got %q", filepath.Join(home, "data"), got)
	}
}

func TestDurationDefaults(t *testing.T) {
	// Sanity-check the default backoff durations parse.
	for _, raw := range []string{"168h", "72h", "24h", "720h", "15s", "10s"} {
		if _, err := time.ParseDuration(raw); err != nil {
			t.Errorf("default duration %q does not parse: %v", raw, err)
		}
	}
}
