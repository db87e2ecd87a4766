package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Backend != "memory" {
		t.Fatalf("expected default backend memory, got %q", cfg.Backend)
	}
	if cfg.CORSAllowed != "*" {
		t.Fatalf("expected permissive default CORS, got %q", cfg.CORSAllowed)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BACKEND", "sheets")
	t.Setenv("SHEETS_SPREADSHEET_ID", "sheet-1")
	t.Setenv("ADMIN_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" || cfg.Backend != "sheets" {
		t.Fatalf("environment not applied: %+v", cfg)
	}
	if cfg.SpreadsheetID != "sheet-1" || cfg.AdminKey != "secret" {
		t.Fatalf("environment not applied: %+v", cfg)
	}
}
