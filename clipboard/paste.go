package clipboard

import (
	"runtime"
	"sync"
	"time"

	"github.com/micmonay/keybd_event"
)

var (
	kb     keybd_event.KeyBonding
	kbOnce sync.Once
	kbErr  error
)

// InitPaste prepares the virtual-keyboard device. On Linux the uinput
// device needs a short settle time before the first event is accepted,
// so call this once at startup rather than lazily before a paste.
func InitPaste() error {
	kbOnce.Do(func() {
		kb, kbErr = keybd_event.NewKeyBonding()
		if kbErr == nil && runtime.GOOS == "linux" {
			time.Sleep(2 * time.Second)
		}
	})
	return kbErr
}

// Paste sends the platform paste chord (Cmd+V / Ctrl+V) to the focused
// application.
func Paste() error {
	if err := InitPaste(); err != nil {
		return err
	}
	kb.Clear()
	if runtime.GOOS == "darwin" {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}
	kb.SetKeys(keybd_event.VK_V)
	return kb.Launching()
}
