//go:build !linux

package beep

import (
	"math"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
)

var (
	ctxOnce sync.Once
	ctx     *malgo.AllocatedContext
	playMu  sync.Mutex
)

func playbackContext() *malgo.AllocatedContext {
	ctxOnce.Do(func() {
		ctx, _ = malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	})
	return ctx
}

func play(samples []float32) {
	mctx := playbackContext()
	if mctx == nil || len(samples) == 0 {
		return
	}

	// One cue at a time; cues are tens of milliseconds long.
	playMu.Lock()
	defer playMu.Unlock()

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatF32
	cfg.Playback.Channels = 1
	cfg.SampleRate = playbackRate

	pos := 0
	done := make(chan struct{})
	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, frameCount uint32) {
			for i := uint32(0); i < frameCount; i++ {
				var s float32
				if pos < len(samples) {
					s = samples[pos]
					pos++
				}
				putFloat32(out[i*4:], s)
			}
			if pos >= len(samples) {
				select {
				case done <- struct{}{}:
				default:
				}
			}
		},
	}

	dev, err := malgo.InitDevice(mctx.Context, cfg, callbacks)
	if err != nil {
		return
	}
	defer dev.Uninit()

	if err := dev.Start(); err != nil {
		return
	}
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	dev.Stop()
}

func putFloat32(b []byte, f float32) {
	bits := math.Float32bits(f)
	b[0] = byte(bits)
	b[1] = byte(bits >> 8)
	b[2] = byte(bits >> 16)
	b[3] = byte(bits >> 24)
}
