// Package beep plays short audio cues marking recording transitions:
// one when capture starts, one when it stops, and a low double-tone on
// failure.
package beep

import (
	"math"
	"sync/atomic"
)

const playbackRate = 44100

var disabled atomic.Bool

// Disable silences all cues for the rest of the process lifetime.
func Disable() { disabled.Store(true) }

type cue struct {
	freq   float64
	length float64 // seconds
	gain   float64
	decay  float64
	double bool
}

var (
	recordCue = cue{freq: 1100, length: 0.05, gain: 0.4, decay: 50}
	doneCue   = cue{freq: 800, length: 0.06, gain: 0.4, decay: 35}
	failCue   = cue{freq: 320, length: 0.08, gain: 0.55, decay: 25, double: true}
)

// synth renders a cue as mono float32 PCM with an exponential decay
// envelope.
func synth(c cue) []float32 {
	n := int(playbackRate * c.length)
	tone := make([]float32, n)
	for i := range tone {
		t := float64(i) / playbackRate
		env := math.Exp(-t * c.decay)
		tone[i] = float32(math.Sin(2*math.Pi*c.freq*t) * c.gain * env)
	}
	if !c.double {
		return tone
	}
	gap := make([]float32, playbackRate/20)
	out := make([]float32, 0, 2*len(tone)+len(gap))
	out = append(out, tone...)
	out = append(out, gap...)
	out = append(out, tone...)
	return out
}

func Record() {
	if !disabled.Load() {
		go play(synth(recordCue))
	}
}

func Done() {
	if !disabled.Load() {
		go play(synth(doneCue))
	}
}

func Fail() {
	if !disabled.Load() {
		go play(synth(failCue))
	}
}
