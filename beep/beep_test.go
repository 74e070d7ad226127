package beep

import (
	"math"
	"testing"
)

func TestSynthLength(t *testing.T) {
	got := synth(recordCue)
	want := int(playbackRate * recordCue.length)
	if len(got) != want {
		t.Errorf("len = %d, want %d", len(got), want)
	}
}

func TestSynthEnvelopeDecays(t *testing.T) {
	samples := synth(doneCue)
	peak := func(from, to int) float64 {
		p := 0.0
		for _, s := range samples[from:to] {
			if v := math.Abs(float64(s)); v > p {
				p = v
			}
		}
		return p
	}
	head := peak(0, len(samples)/4)
	tail := peak(3*len(samples)/4, len(samples))
	if tail >= head {
		t.Errorf("envelope not decaying: head peak %f, tail peak %f", head, tail)
	}
}

func TestDoubleCueHasGap(t *testing.T) {
	samples := synth(failCue)
	single := int(playbackRate * failCue.length)
	gap := playbackRate / 20
	if len(samples) != 2*single+gap {
		t.Fatalf("len = %d, want %d", len(samples), 2*single+gap)
	}
	for i := single; i < single+gap; i++ {
		if samples[i] != 0 {
			t.Fatalf("gap sample %d = %f, want 0", i, samples[i])
		}
	}
}

func TestSynthStaysInRange(t *testing.T) {
	for _, c := range []cue{recordCue, doneCue, failCue} {
		for i, s := range synth(c) {
			if s < -1 || s > 1 {
				t.Fatalf("sample %d = %f out of [-1,1]", i, s)
			}
		}
	}
}
