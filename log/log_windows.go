//go:build windows

package log

import (
	"os"
	"path/filepath"
)

// getDefaultDir resolves to %LocalAppData%\stt\logs.
func getDefaultDir() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cache, "stt", "logs"), nil
}
