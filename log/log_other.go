//go:build !windows

package log

import (
	"os"
	"path/filepath"
	"runtime"
)

// getDefaultDir picks the conventional per-user log location: ~/Library/Logs
// on macOS, the XDG config tree elsewhere.
func getDefaultDir() (string, error) {
	if runtime.GOOS == "darwin" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Logs", "stt"), nil
	}
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "stt", "logs"), nil
}
