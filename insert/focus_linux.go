//go:build linux

package insert

import (
	"os/exec"
	"strings"
)

type xdoFocus struct{}

func newFocus() Focus { return xdoFocus{} }

func (xdoFocus) FrontAppName() (string, error) {
	out, err := exec.Command("xdotool", "getactivewindow", "getwindowclassname").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
