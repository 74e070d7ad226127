//go:build darwin

package insert

import (
	"os/exec"
	"strings"
)

type osaFocus struct{}

func newFocus() Focus { return osaFocus{} }

func (osaFocus) FrontAppName() (string, error) {
	out, err := exec.Command("osascript", "-e",
		`tell application "System Events" to get name of first process whose frontmost is true`).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
