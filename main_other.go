//go:build !linux

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

// x/hotkey handles its key events on the process main thread on macOS
// and Windows; mainthread.Init keeps that thread available while run
// executes on another goroutine.
func main() {
	mainthread.Init(run)
}
