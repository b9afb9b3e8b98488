package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.TimeoutSeconds)
	}
	if cfg.BatchDelayMs != 500 {
		t.Errorf("BatchDelayMs = %d, want 500", cfg.BatchDelayMs)
	}
	if cfg.EnableMirrors {
		t.Error("mirrors enabled by default")
	}
	if cfg.CacheDir == "" {
		t.Error("CacheDir empty")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `cache_dir: /tmp/litcheck-test
contact_email: curator@example.org
enable_mirrors: true
mirror_hosts:
  - mirror.example.se
  - mirror.example.st
timeout_seconds: 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ContactEmail != "curator@example.org" {
		t.Errorf("ContactEmail = %q", cfg.ContactEmail)
	}
	if !cfg.EnableMirrors || len(cfg.MirrorHosts) != 2 {
		t.Errorf("mirrors = %v/%v", cfg.EnableMirrors, cfg.MirrorHosts)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LITCHECK_CONTACT_EMAIL", "env@example.org")
	t.Setenv("LITCHECK_MIRROR_HOSTS", "m1.example.org, m2.example.org,")
	t.Setenv("NCBI_API_KEY", "abc123")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ContactEmail != "env@example.org" {
		t.Errorf("ContactEmail = %q", cfg.ContactEmail)
	}
	if len(cfg.MirrorHosts) != 2 || cfg.MirrorHosts[1] != "m2.example.org" {
		t.Errorf("MirrorHosts = %v", cfg.MirrorHosts)
	}
	if !cfg.EnableMirrors {
		t.Error("mirror hosts in env should enable mirrors")
	}
	if cfg.NCBIAPIKey != "abc123" {
		t.Errorf("NCBIAPIKey = %q", cfg.NCBIAPIKey)
	}
}

func TestMirrorsWithoutHostsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("enable_mirrors: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("enable_mirrors without hosts should fail")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yml")

	cfg := Default()
	cfg.ContactEmail = "saved@example.org"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ContactEmail != "saved@example.org" {
		t.Errorf("ContactEmail = %q", got.ContactEmail)
	}
}
