package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
server:
  url: "http://localhost:8080"
  timeout_seconds: 10
state:
  dir: "/tmp/fitlog-test"
log:
  level: "debug"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.URL != "http://localhost:8080" {
		t.Errorf("server.url = %q, want %q", cfg.Server.URL, "http://localhost:8080")
	}
	if cfg.Server.TimeoutSeconds != 10 {
		t.Errorf("server.timeout_seconds = %d, want 10", cfg.Server.TimeoutSeconds)
	}
	if cfg.State.Dir != "/tmp/fitlog-test" {
		t.Errorf("state.dir = %q, want %q", cfg.State.Dir, "/tmp/fitlog-test")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
}

// TestEnvOverride verifies that FITLOG_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("FITLOG_SERVER_URL", "http://override:9999")
	t.Setenv("FITLOG_SERVER_TIMEOUT_SECONDS", "5")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.URL != "http://override:9999" {
		t.Errorf("server.url = %q, want %q", cfg.Server.URL, "http://override:9999")
	}
	if cfg.Server.TimeoutSeconds != 5 {
		t.Errorf("server.timeout_seconds = %d, want 5", cfg.Server.TimeoutSeconds)
	}
	// Unchanged fields should keep YAML values
	if cfg.State.Dir != "/tmp/fitlog-test" {
		t.Errorf("state.dir = %q, want %q", cfg.State.Dir, "/tmp/fitlog-test")
	}
}

// TestValidationMissingURL verifies that a config without a server URL is rejected.
func TestValidationMissingURL(t *testing.T) {
	_, err := Load(writeTemp(t, `log: {level: "info"}`))
	if err == nil {
		t.Fatal("expected validation error for missing server.url")
	}
}

// TestLoadMissingFileWithEnv verifies that the CLI works without a config
// file as long as FITLOG_SERVER_URL is set.
func TestLoadMissingFileWithEnv(t *testing.T) {
	t.Setenv("FITLOG_SERVER_URL", "http://env-only:8080")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.URL != "http://env-only:8080" {
		t.Errorf("server.url = %q, want %q", cfg.Server.URL, "http://env-only:8080")
	}
}

// TestLoadMissingFileNoEnv verifies that a missing file with no env
// fallback fails validation rather than producing an unusable config.
func TestLoadMissingFileNoEnv(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file without env override")
	}
}

// TestTimeoutDefault verifies the fallback request timeout.
func TestTimeoutDefault(t *testing.T) {
	s := ServerConfig{}
	if got := s.Timeout(); got != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", got)
	}
	s.TimeoutSeconds = 7
	if got := s.Timeout(); got != 7*time.Second {
		t.Errorf("Timeout() = %v, want 7s", got)
	}
}
