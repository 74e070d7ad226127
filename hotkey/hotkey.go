package hotkey

import (
	"fmt"
	"strings"
)

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}

// Modifier bitmask used by Binding. Kept as plain numbers so a binding
// can round-trip through the config file unchanged across platforms.
const (
	ModCtrl uint32 = 1 << iota
	ModShift
	ModAlt
	ModSuper
)

// Binding is a global key combination: a platform key code plus a
// modifier bitmask. On Linux the key code is an evdev code; elsewhere it
// is the virtual key code golang.design/x/hotkey uses.
type Binding struct {
	Key  uint32
	Mods uint32
}

// Default is Ctrl+Shift+Space, chosen to stay clear of common
// application shortcuts.
func Default() Binding {
	return Binding{Key: spaceKeyCode, Mods: ModCtrl | ModShift}
}

// String renders the binding for help text, e.g. "ctrl+shift+space".
func (b Binding) String() string {
	var parts []string
	for _, m := range []struct {
		bit  uint32
		name string
	}{
		{ModCtrl, "ctrl"},
		{ModShift, "shift"},
		{ModAlt, "alt"},
		{ModSuper, "super"},
	} {
		if b.Mods&m.bit != 0 {
			parts = append(parts, m.name)
		}
	}
	parts = append(parts, keyName(b.Key))
	return strings.Join(parts, "+")
}

func keyName(k uint32) string {
	if k == spaceKeyCode {
		return "space"
	}
	// Key codes are platform key codes, not characters; show the raw code
	// for anything without a friendly name.
	return fmt.Sprintf("key(0x%x)", k)
}
