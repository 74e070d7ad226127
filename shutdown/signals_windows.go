//go:build windows

package shutdown

import "os"

// SIGTERM cannot be delivered on Windows; Ctrl+C and Ctrl+Break both arrive
// as os.Interrupt.
var termSignals = []os.Signal{os.Interrupt}
