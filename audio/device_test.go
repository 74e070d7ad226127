package audio

import "testing"

func TestDecodeKey(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want pickerKey
	}{
		{"enter", []byte{13}, keyEnter},
		{"ctrl-c", []byte{3}, keyInterrupt},
		{"vim down", []byte{'j'}, keyDown},
		{"vim up", []byte{'k'}, keyUp},
		{"arrow up", []byte{0x1b, '[', 'A'}, keyUp},
		{"arrow down", []byte{0x1b, '[', 'B'}, keyDown},
		{"unknown byte", []byte{'x'}, keyNone},
		{"partial escape", []byte{0x1b, '[', 'C'}, keyNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeKey(tt.buf, len(tt.buf)); got != tt.want {
				t.Errorf("decodeKey(%v) = %v, want %v", tt.buf, got, tt.want)
			}
		})
	}
}
