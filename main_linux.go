//go:build linux

package main

// The Linux hotkey backend reads evdev and has no main-thread
// requirement.
func main() {
	run()
}
