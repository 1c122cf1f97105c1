package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	body := "include: src/**\nkeep_going: true\ntimeout: 5m\nremote:\n  list_workers: 4\n  api_url: https://ghe.example.com/api/v3\n"
	p := writeTemp(t, dir, "gitpatrol.yaml", body)
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Include == nil || *cfg.Include != "src/**" {
		t.Fatalf("expected include=src/**, got %#v", cfg.Include)
	}
	if cfg.KeepGoing == nil || *cfg.KeepGoing != true {
		t.Fatalf("expected keep_going=true")
	}
	if cfg.Timeout == nil || *cfg.Timeout != "5m" {
		t.Fatalf("expected timeout=5m, got %#v", cfg.Timeout)
	}
	r := cfg.GetRemote()
	if r.ListWorkers == nil || *r.ListWorkers != 4 {
		t.Fatalf("expected list_workers=4, got %#v", r.ListWorkers)
	}
	if r.APIURL == nil || *r.APIURL != "https://ghe.example.com/api/v3" {
		t.Fatalf("unexpected api_url %#v", r.APIURL)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	p := writeTemp(t, t.TempDir(), "bad.yml", "include: [unclosed\n")
	if _, err := LoadFile(p); err == nil {
		t.Fatal("expected YAML error")
	}
}

func TestGetRemote_Nil(t *testing.T) {
	var fc FileConfig
	if r := fc.GetRemote(); r.Strict != nil || r.TokenEnv != nil {
		t.Fatalf("expected zero remote config, got %#v", r)
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	// place both, expect the dotfile to be picked first by search order
	writeTemp(t, dir, "gitpatrol.yaml", "format: json\n")
	writeTemp(t, dir, ".gitpatrol.yaml", "format: sarif\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.Format == nil || *cfg.Format != "sarif" {
		t.Fatalf("expected format=sarif from .gitpatrol.yaml, got %#v", cfg.Format)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLocal(dir); err == nil {
		t.Fatal("expected error when no local config exists")
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "gitpatrol")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	p := filepath.Join(cfgDir, "config.yml")
	if err := os.WriteFile(p, []byte("log_level: debug\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.LogLevel == nil || *cfg.LogLevel != "debug" {
		t.Fatalf("expected log_level=debug from global config, got %#v", cfg.LogLevel)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	// Simulate no HOME as well by clearing HOME; LoadGlobal should error
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}
