package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeFile(t, "config.json", `{"dsn": "test.db", "driver": "sqlite", "api_key": "k", "api_region": "r"}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Driver != "sqlite" {
		t.Errorf("expected driver sqlite, got %q", cfg.Driver)
	}
	if cfg.Provider != "microsoft" {
		t.Errorf("expected default provider microsoft, got %q", cfg.Provider)
	}
	if cfg.TargetLang != "de" {
		t.Errorf("expected default target_lang de, got %q", cfg.TargetLang)
	}
	if cfg.PageSize != 10 {
		t.Errorf("expected default page_size 10, got %d", cfg.PageSize)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("expected default max_retries 3, got %d", cfg.MaxRetries)
	}
	if !cfg.OverwriteSource {
		t.Error("expected overwrite_source to default to true")
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeFile(t, "config.json",
		`{"dsn": "x", "target_lang": "fr", "page_size": 25, "overwrite_source": false}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TargetLang != "fr" {
		t.Errorf("expected fr, got %q", cfg.TargetLang)
	}
	if cfg.PageSize != 25 {
		t.Errorf("expected 25, got %d", cfg.PageSize)
	}
	if cfg.OverwriteSource {
		t.Error("expected overwrite_source false")
	}
}

func TestLoad_MissingDSN(t *testing.T) {
	path := writeFile(t, "config.json", `{"api_key": "k"}`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for missing dsn")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestSelections_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selections.json")

	want := Selections{"doc": {"title", "body"}, "page": {"heading"}}
	if err := SaveSelections(path, want); err != nil {
		t.Fatalf("SaveSelections failed: %v", err)
	}

	got, found, err := LoadSelections(path)
	if err != nil {
		t.Fatalf("LoadSelections failed: %v", err)
	}
	if !found {
		t.Fatal("expected selections to be found")
	}
	if len(got) != 2 || len(got["doc"]) != 2 || got["doc"][0] != "title" {
		t.Errorf("unexpected selections: %v", got)
	}
}

func TestLoadSelections_Missing(t *testing.T) {
	_, found, err := LoadSelections(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected found == false for missing file")
	}
}

func TestLoadSelections_Malformed(t *testing.T) {
	path := writeFile(t, "selections.json", `{not json`)

	_, _, err := LoadSelections(path)
	if err == nil {
		t.Error("expected error for malformed selections")
	}
}
