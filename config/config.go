// Package config persists user preferences as a TOML file under the
// platform config directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mfaizanshaikh/ondevice-speech-to-text/hotkey"
)

const appDir = "stt"

// Config holds the persisted preferences. Zero values are filled from
// Default on load so older config files keep working as fields appear.
type Config struct {
	Model        string `toml:"model"`
	Language     string `toml:"language"`
	HotkeyKey    uint32 `toml:"hotkey_key"`
	HotkeyMods   uint32 `toml:"hotkey_modifiers"`
	DirectInsert bool   `toml:"direct_insert"`
	Sounds       bool   `toml:"sounds"`
	Onboarded    bool   `toml:"onboarded"`
	SkipDownload bool   `toml:"skip_download"`
}

func Default() Config {
	b := hotkey.Default()
	return Config{
		Model:        "base",
		Language:     "auto",
		HotkeyKey:    b.Key,
		HotkeyMods:   b.Mods,
		DirectInsert: true,
		Sounds:       true,
	}
}

// Path returns the config file location, creating the parent directory.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	dir := filepath.Join(base, appDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config at path. A missing file is not an error; the
// defaults come back instead.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Model == "" {
		cfg.Model = "base"
	}
	if cfg.Language == "" {
		cfg.Language = "auto"
	}
	if cfg.HotkeyKey == 0 {
		b := hotkey.Default()
		cfg.HotkeyKey = b.Key
		cfg.HotkeyMods = b.Mods
	}
	return cfg, nil
}

// Save writes cfg to path atomically.
func Save(path string, cfg Config) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "config-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Binding returns the configured hotkey combination.
func (c Config) Binding() hotkey.Binding {
	return hotkey.Binding{Key: c.HotkeyKey, Mods: c.HotkeyMods}
}
