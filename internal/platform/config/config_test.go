package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProfile_missing_file_uses_defaults(t *testing.T) {
	p, err := LoadProfile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	def := DefaultProfile()
	if p.Project.Code != def.Project.Code || p.Output.Dir != def.Output.Dir || p.Capture.FPS != def.Capture.FPS {
		t.Errorf("expected defaults, got %+v", p)
	}
}

func TestLoadProfile_reads_toml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stagehand.toml")
	body := "[project]\ncode = \"AOB\"\ntitle = \"Atlas Office Block\"\n\n[output]\ndir = \"deliverables\"\n\n[capture]\nfps = 30\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.Project.Code != "AOB" {
		t.Errorf("expected project code AOB, got %q", p.Project.Code)
	}
	if p.Project.Title != "Atlas Office Block" {
		t.Errorf("expected title, got %q", p.Project.Title)
	}
	if p.Output.Dir != "deliverables" {
		t.Errorf("expected output dir deliverables, got %q", p.Output.Dir)
	}
	if p.Capture.FPS != 30 {
		t.Errorf("expected fps 30, got %d", p.Capture.FPS)
	}
}

func TestLoadProfile_partial_file_keeps_defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stagehand.toml")
	if err := os.WriteFile(path, []byte("[project]\ncode = \"AOB\"\n"), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.Project.Code != "AOB" {
		t.Errorf("expected AOB, got %q", p.Project.Code)
	}
	if p.Output.Dir != "out" || p.Capture.FPS != 60 {
		t.Errorf("expected default output/capture, got %+v", p)
	}
}

func TestLoadProfile_malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[project\ncode="), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	if _, err := LoadProfile(path); err == nil {
		t.Error("expected error for malformed profile")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("STAGEHAND_TEST_KEY", "value")
	if got := GetEnv("STAGEHAND_TEST_KEY", "fallback"); got != "value" {
		t.Errorf("expected value, got %q", got)
	}
	if got := GetEnv("STAGEHAND_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestGetEnvInt_invalid_falls_back(t *testing.T) {
	t.Setenv("STAGEHAND_TEST_INT", "not-a-number")
	if got := GetEnvInt("STAGEHAND_TEST_INT", 42); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}
