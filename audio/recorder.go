package audio

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// drainGrace lets an in-flight data callback finish converting before the
// buffer snapshot is taken.
const drainGrace = 30 * time.Millisecond

// LevelFunc receives the scaled RMS level of each captured chunk, in [0,1].
type LevelFunc func(level float64)

// Recorder accumulates converted microphone samples between Start and
// Stop/Cancel. The data callback runs on the audio system's thread; the
// sample buffer is the only state it shares with the caller, guarded by mu.
type Recorder struct {
	device CaptureDevice

	mu     sync.Mutex
	buf    []float32
	active bool

	levelCh chan float64
}

// NewRecorder wraps a capture device. If level is non-nil it is invoked on a
// dedicated goroutine so the audio thread never blocks on UI dispatch.
func NewRecorder(device CaptureDevice, level LevelFunc) *Recorder {
	r := &Recorder{
		device:  device,
		levelCh: make(chan float64, 8),
	}
	if level != nil {
		go func() {
			for lv := range r.levelCh {
				level(lv)
			}
		}()
	}
	return r
}

// Start validates the hardware format, installs the data callback, and
// starts the capture engine. On any failure no callback is left installed.
func (r *Recorder) Start() error {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return fmt.Errorf("capture already active")
	}
	r.buf = nil
	r.active = true
	r.mu.Unlock()

	rate, channels := r.device.Format()
	conv, err := NewConverter(rate, channels)
	if err != nil {
		r.setInactive()
		return err
	}

	r.device.SetCallback(func(data []byte, _ uint32) {
		samples := conv.Convert(data)
		if len(samples) == 0 {
			return
		}

		r.mu.Lock()
		if !r.active {
			r.mu.Unlock()
			return
		}
		r.buf = append(r.buf, samples...)
		r.mu.Unlock()

		level := math.Min(rms(samples)*10, 1.0)
		select {
		case r.levelCh <- level:
		default:
		}
	})

	if err := r.device.Start(); err != nil {
		r.device.ClearCallback()
		r.setInactive()
		return fmt.Errorf("capture start: %w", err)
	}
	return nil
}

// Stop tears down the capture and returns the buffered samples. Callbacks
// already in flight when Stop is called still land in the buffer: the
// snapshot is taken only after the drain grace period. Calling Stop without
// a prior Start returns an empty slice.
func (r *Recorder) Stop() []float32 {
	return r.teardown()
}

// Cancel is Stop without the result: the buffer is discarded.
func (r *Recorder) Cancel() {
	r.teardown()
}

// Active reports whether a capture is in progress.
func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *Recorder) teardown() []float32 {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	r.device.Stop()
	r.device.ClearCallback()
	time.Sleep(drainGrace)

	r.mu.Lock()
	r.active = false
	out := r.buf
	r.buf = nil
	r.mu.Unlock()
	return out
}

func (r *Recorder) setInactive() {
	r.mu.Lock()
	r.active = false
	r.mu.Unlock()
}

// RMS returns the root-mean-square energy of samples, 0 for an empty slice.
func RMS(samples []float32) float64 {
	return rms(samples)
}

func rms(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sumSquares float64
	for _, s := range samples {
		sumSquares += float64(s) * float64(s)
	}
	return math.Sqrt(sumSquares / float64(len(samples)))
}
