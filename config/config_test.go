package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mfaizanshaikh/ondevice-speech-to-text/hotkey"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "base" {
		t.Errorf("Model = %q, want base", cfg.Model)
	}
	if cfg.Language != "auto" {
		t.Errorf("Language = %q, want auto", cfg.Language)
	}
	if cfg.Binding() != hotkey.Default() {
		t.Errorf("Binding = %+v, want default", cfg.Binding())
	}
	if !cfg.DirectInsert || !cfg.Sounds {
		t.Error("DirectInsert and Sounds should default on")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	want := Default()
	want.Model = "small"
	want.Language = "sv"
	want.HotkeyMods = hotkey.ModCtrl | hotkey.ModSuper
	want.Onboarded = true

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("model = \"medium\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "medium" {
		t.Errorf("Model = %q, want medium", cfg.Model)
	}
	if cfg.Language != "auto" {
		t.Errorf("Language = %q, want auto default", cfg.Language)
	}
	if cfg.HotkeyKey == 0 {
		t.Error("HotkeyKey not backfilled from default binding")
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("model = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted malformed TOML")
	}
}
