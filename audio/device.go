package audio

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

type pickerKey int

const (
	keyNone pickerKey = iota
	keyUp
	keyDown
	keyEnter
	keyInterrupt
)

// decodeKey maps a raw terminal read to a picker action. Arrow keys arrive
// as three-byte CSI sequences; j/k work as vim-style aliases.
func decodeKey(buf []byte, n int) pickerKey {
	if n == 1 {
		switch buf[0] {
		case 13:
			return keyEnter
		case 3:
			return keyInterrupt
		case 'j':
			return keyDown
		case 'k':
			return keyUp
		}
	}
	if n == 3 && buf[0] == 0x1b && buf[1] == '[' {
		switch buf[2] {
		case 'A':
			return keyUp
		case 'B':
			return keyDown
		}
	}
	return keyNone
}

// SelectDevice presents an interactive device picker and returns the selected
// device. With a single device it returns that device without prompting.
func SelectDevice(ctx Context) (*DeviceInfo, error) {
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	switch len(devices) {
	case 0:
		return nil, fmt.Errorf("no capture devices found")
	case 1:
		return &devices[0], nil
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	cursor := 0
	draw := func() {
		fmt.Print("\r\x1b[J")
		fmt.Print("Choose a microphone (↑/↓, Enter to confirm):\r\n\r\n")
		for i, d := range devices {
			label := d.Name
			if IsBluetooth(d.Name) {
				label += " \x1b[33m[⚠ Lower audio quality]\x1b[0m"
			}
			if i == cursor {
				fmt.Printf("  \x1b[1;36m▶ %s\x1b[0m\r\n", label)
			} else {
				fmt.Printf("    %s\r\n", label)
			}
		}
	}
	draw()

	buf := make([]byte, 3)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}

		switch decodeKey(buf, n) {
		case keyEnter:
			fmt.Print("\r\n")
			term.Restore(fd, oldState)
			return &devices[cursor], nil
		case keyInterrupt:
			fmt.Print("\r\n")
			term.Restore(fd, oldState)
			os.Exit(130)
		case keyUp:
			if cursor > 0 {
				cursor--
			}
		case keyDown:
			if cursor < len(devices)-1 {
				cursor++
			}
		}

		fmt.Printf("\x1b[%dA", len(devices)+2)
		draw()
	}
}
