// Package audio captures microphone input and converts it to the 16 kHz mono
// float stream the recognizer consumes.
package audio

import "strings"

// Target format fed to the recognizer: 16 kHz mono 32-bit float.
const (
	SampleRate = 16000
	Channels   = 1
)

const WAVHeaderSize = 44

// DataCallback receives raw S16LE interleaved frames on the audio thread.
type DataCallback func(data []byte, frameCount uint32)

type CaptureConfig struct {
	SampleRate uint32
	Channels   uint32
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

// Context owns the platform audio backend and creates capture streams on it.
type Context interface {
	Devices() ([]DeviceInfo, error)
	NewCapture(device *DeviceInfo, config CaptureConfig) (CaptureDevice, error)
	Close()
}

type CaptureDevice interface {
	Start() error
	Stop()
	Close()
	SetCallback(cb DataCallback)
	ClearCallback()
	// Format reports the S16LE stream format delivered to the callback.
	Format() (sampleRate, channels uint32)
	DeviceName() string
}

// IsBluetooth guesses whether a device name belongs to a Bluetooth headset,
// which typically records at reduced quality.
func IsBluetooth(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range btKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var btKeywords = []string{
	"bluetooth", " bt ", " bt)", " bt]",
	"airpods", "beats", "powerbeats",
	"sony wh-", "sony wf-", "wh-1000", "wf-1000",
	"bose", "jabra", "jbl ", "sennheiser momentum",
	"galaxy buds", "pixel buds",
	"plantronics", "tozo", "anker soundcore", "skullcandy",
}
