package audio

import (
	"os"
	"sync"
	"time"
)

const (
	fakeFrameSize     = 1024
	fakeBytesPerFrame = 2 // 16-bit mono
)

// FakeContext replays a WAV file through the CaptureDevice interface for the
// headless test mode and integration tests.
type FakeContext struct {
	pcm []byte
}

func NewFakeContext(wavPath string) (*FakeContext, error) {
	data, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, err
	}
	if len(data) > WAVHeaderSize {
		data = data[WAVHeaderSize:]
	}
	return &FakeContext{pcm: data}, nil
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) { return nil, nil }
func (f *FakeContext) Close()                         {}

func (f *FakeContext) NewCapture(_ *DeviceInfo, config CaptureConfig) (CaptureDevice, error) {
	return &FakeCapture{pcm: f.pcm, replay: true, config: config}, nil
}

// FakeCapture in replay mode feeds its PCM once on Start, then silence until
// stopped. Unit tests construct it without replay and drive it with Emit.
type FakeCapture struct {
	pcm    []byte
	replay bool
	config CaptureConfig

	mu       sync.Mutex
	cb       DataCallback
	stopCh   chan struct{}
	feedDone chan struct{}

	startErr error
}

// NewFakeCapture returns an Emit-driven capture for unit tests.
func NewFakeCapture(sampleRate, channels uint32) *FakeCapture {
	return &FakeCapture{config: CaptureConfig{SampleRate: sampleRate, Channels: channels}}
}

// SetStartError makes the next Start fail, for error-path tests.
func (f *FakeCapture) SetStartError(err error) { f.startErr = err }

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

// HasCallback reports whether a data callback is installed.
func (f *FakeCapture) HasCallback() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cb != nil
}

// Emit pushes one chunk through the installed callback, as the audio thread
// would.
func (f *FakeCapture) Emit(data []byte) {
	f.mu.Lock()
	cb := f.cb
	f.mu.Unlock()
	if cb != nil {
		cb(data, uint32(len(data)/fakeBytesPerFrame/int(f.config.Channels)))
	}
}

func (f *FakeCapture) Format() (uint32, uint32) {
	return f.config.SampleRate, f.config.Channels
}

func (f *FakeCapture) DeviceName() string { return "fake" }

func (f *FakeCapture) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	if !f.replay {
		return nil
	}
	f.stopCh = make(chan struct{})
	f.feedDone = make(chan struct{})

	chunkBytes := fakeFrameSize * fakeBytesPerFrame
	for pos := 0; pos < len(f.pcm); pos += chunkBytes {
		end := min(pos+chunkBytes, len(f.pcm))
		chunk := make([]byte, end-pos)
		copy(chunk, f.pcm[pos:end])
		f.Emit(chunk)
	}

	go func() {
		defer close(f.feedDone)
		silence := make([]byte, chunkBytes)
		for {
			select {
			case <-f.stopCh:
				return
			case <-time.After(time.Millisecond):
			}
			f.Emit(silence)
		}
	}()
	return nil
}

func (f *FakeCapture) Stop() {
	if f.stopCh == nil {
		return
	}
	select {
	case <-f.stopCh:
	default:
		close(f.stopCh)
	}
	<-f.feedDone
}

func (f *FakeCapture) Close() {}
