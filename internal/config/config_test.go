package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.LLM.InterCallDelay != 500*time.Millisecond || cfg.LLM.RateLimitRecovery != 2*time.Second {
		t.Errorf("pacing = %v/%v", cfg.LLM.InterCallDelay, cfg.LLM.RateLimitRecovery)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vibedocs.yaml")
	content := `
server:
  addr: ":9000"
llm:
  api_key: from-file
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VIBEDOCS_API_KEY", "AIzaFromEnv")
	t.Setenv("VIBEDOCS_DATA_DIR", "/tmp/vd-test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	// Env beats file.
	if cfg.LLM.APIKey != "AIzaFromEnv" {
		t.Errorf("api key = %q", cfg.LLM.APIKey)
	}
	if cfg.Store.DataDir != "/tmp/vd-test" {
		t.Errorf("data dir = %q", cfg.Store.DataDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vibedocs.yaml")
	os.WriteFile(path, []byte(":\tnot yaml"), 0644)
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
