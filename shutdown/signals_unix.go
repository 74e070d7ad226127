//go:build !windows

package shutdown

import (
	"os"
	"syscall"
)

var termSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
