//go:build !linux

package hotkey

import (
	xhk "golang.design/x/hotkey"
)

const spaceKeyCode = uint32(xhk.KeySpace)

type xHotkey struct {
	hk      *xhk.Hotkey
	keydown chan struct{}
	keyup   chan struct{}
}

// New returns a global hotkey backed by golang.design/x/hotkey. The
// library needs the process main thread; main wraps the event loop in
// mainthread.Init on these platforms.
func New(b Binding) Hotkey {
	return &xHotkey{
		hk:      xhk.New(xmods(b.Mods), xhk.Key(b.Key)),
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}
}

func (h *xHotkey) Register() error {
	if err := h.hk.Register(); err != nil {
		return err
	}
	go func() {
		for {
			<-h.hk.Keydown()
			h.keydown <- struct{}{}
		}
	}()
	go func() {
		for {
			<-h.hk.Keyup()
			h.keyup <- struct{}{}
		}
	}()
	return nil
}

func (h *xHotkey) Unregister() {
	h.hk.Unregister()
}

func (h *xHotkey) Keydown() <-chan struct{} {
	return h.keydown
}

func (h *xHotkey) Keyup() <-chan struct{} {
	return h.keyup
}
