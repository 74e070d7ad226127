// Package shutdown delivers the OS termination signals relevant on each
// platform to a single channel.
package shutdown

import (
	"os"
	"os/signal"
)

// Notify relays interrupt and terminate signals to ch.
func Notify(ch chan os.Signal) {
	signal.Notify(ch, termSignals...)
}
