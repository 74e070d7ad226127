package controller

import "time"

const (
	monitorTick   = 100 * time.Millisecond
	warnAfter     = 8 * time.Second
	autoStopAfter = 30 * time.Second

	// Normalized level above which a tick counts as speech.
	speechLevel = 0.05

	minSpeechFrac = 0.10
	// Higher threshold to clear a warning, for hysteresis.
	clearSpeechFrac = 0.25
)

type silenceEvent int

const (
	silenceNone silenceEvent = iota
	silenceWarn
	silenceClear
	silenceAutoStop
)

// speechWatch flags recordings where the microphone picks up no voice:
// a warning once the last 8s are near-silent, and an auto-stop signal
// when a full 30s window is.
type speechWatch struct {
	window []bool
	next   int
	filled int
	warned bool
}

func newSpeechWatch() *speechWatch {
	return &speechWatch{window: make([]bool, int(autoStopAfter/monitorTick))}
}

// observe records one tick's input level and reports any transition.
func (w *speechWatch) observe(level float64) silenceEvent {
	w.window[w.next] = level >= speechLevel
	w.next = (w.next + 1) % len(w.window)
	if w.filled < len(w.window) {
		w.filled++
	}

	warnTicks := int(warnAfter / monitorTick)
	recent := w.fraction(warnTicks)

	switch {
	case w.filled >= len(w.window) && w.fraction(w.filled) < minSpeechFrac:
		return silenceAutoStop
	case !w.warned && w.filled >= warnTicks && recent < minSpeechFrac:
		w.warned = true
		return silenceWarn
	case w.warned && recent >= clearSpeechFrac:
		w.warned = false
		return silenceClear
	}
	return silenceNone
}

// fraction reports the share of the last n ticks that carried speech.
func (w *speechWatch) fraction(n int) float64 {
	if n > w.filled {
		n = w.filled
	}
	if n == 0 {
		return 1
	}
	count := 0
	for i := 1; i <= n; i++ {
		if w.window[(w.next-i+len(w.window))%len(w.window)] {
			count++
		}
	}
	return float64(count) / float64(n)
}
