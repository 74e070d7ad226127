//go:build linux

// Global hotkeys on Linux read evdev directly rather than going through
// X11: an X grab would leave Wayland and headless sessions without a
// hotkey at all. Needs read access to /dev/input (the "input" group).

package hotkey

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	evKey      = 1
	keyRelease = 0
	keyPress   = 1

	inputEventSize = 24
)

// evdev KEY_SPACE
const spaceKeyCode uint32 = 57

// Left and right evdev codes for each modifier bit.
var modCodes = map[uint32][2]uint16{
	ModCtrl:  {29, 97},
	ModShift: {42, 54},
	ModAlt:   {56, 100},
	ModSuper: {125, 126},
}

type evdevHotkey struct {
	binding Binding
	keydown chan struct{}
	keyup   chan struct{}
	files   []*os.File
	stop    chan struct{}
	once    sync.Once
}

func New(b Binding) Hotkey {
	return &evdevHotkey{
		binding: b,
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}
}

func (h *evdevHotkey) Register() error {
	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	h.stop = make(chan struct{})
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		h.files = append(h.files, f)
		go h.readEvents(f)
	}
	if len(h.files) == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}
	return nil
}

// readEvents tracks modifier and trigger-key state per device; a
// combination is normally typed on a single keyboard.
func (h *evdevHotkey) readEvents(f *os.File) {
	buf := make([]byte, inputEventSize*16)
	held := make(map[uint16]bool)
	active := false

	for {
		select {
		case <-h.stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))
			if evType != evKey {
				continue
			}

			// evValue 2 is auto-repeat; it changes nothing here.
			switch evValue {
			case keyPress:
				held[evCode] = true
			case keyRelease:
				delete(held, evCode)
			}

			if evCode != uint16(h.binding.Key) {
				continue
			}
			if evValue == keyPress && !active && h.modsHeld(held) {
				active = true
				select {
				case h.keydown <- struct{}{}:
				default:
				}
			} else if evValue == keyRelease && active {
				active = false
				select {
				case h.keyup <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (h *evdevHotkey) modsHeld(held map[uint16]bool) bool {
	for bit, codes := range modCodes {
		if h.binding.Mods&bit == 0 {
			continue
		}
		if !held[codes[0]] && !held[codes[1]] {
			return false
		}
	}
	return true
}

func (h *evdevHotkey) Unregister() {
	h.once.Do(func() {
		if h.stop != nil {
			close(h.stop)
		}
		for _, f := range h.files {
			f.Close()
		}
	})
}

func (h *evdevHotkey) Keydown() <-chan struct{} {
	return h.keydown
}

func (h *evdevHotkey) Keyup() <-chan struct{} {
	return h.keyup
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}
	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, filepath.Join("/dev/input", e.Name()))
		}
	}
	return keyboards, nil
}

// isKeyboard filters input devices by the breadth of their key
// capability bitmap; mice and buttons expose only a handful of codes.
func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(data))) > 10
}
