// Package engine turns finite sample buffers into text using an on-device
// recognition model.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/mfaizanshaikh/ondevice-speech-to-text/audio"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/log"
)

const (
	// Clips below minDuration are rejected before touching the model.
	minDuration = 500 * time.Millisecond

	// Results shorter than this are flagged TooShort for the UI, even when
	// they transcribed fine.
	uxShortDuration = 2 * time.Second

	// RMS below this (~-60 dBFS) is treated as silence. Near-silent input
	// makes the model hallucinate filler words; rejecting it locally is
	// cheaper and more reliable than filtering model output.
	silenceRMS = 0.001
)

// Segment is one timed piece of model output.
type Segment struct {
	Text  string
	Start time.Duration
	End   time.Duration
}

// Model is a loaded recognition model. Each Transcribe call is independent:
// no decoding state is reused between calls.
type Model interface {
	Transcribe(ctx context.Context, samples []float32, language string) ([]Segment, error)
	Close() error
}

// Engine applies the short-clip and silence rejection policy before invoking
// the model. The model is read through source so the acquisition layer can
// swap it without the engine holding a stale reference.
type Engine struct {
	source func() Model
}

func New(source func() Model) *Engine {
	return &Engine{source: source}
}

// Transcribe runs one non-streaming recognition pass. language is an ISO
// code or "auto". Model failures yield an empty result with
// ReasonEngineFailure rather than an error: absence of text is the failure
// signal at this layer.
func (e *Engine) Transcribe(ctx context.Context, samples []float32, language string) Result {
	duration := time.Duration(float64(len(samples)) / audio.SampleRate * float64(time.Second))
	res := newResult(duration)

	if duration < minDuration {
		res.Reason = ReasonTooShort
		return res
	}
	if audio.RMS(samples) < silenceRMS {
		res.Reason = ReasonSilent
		return res
	}

	mdl := e.source()
	if mdl == nil {
		res.Reason = ReasonEngineFailure
		return res
	}

	if language == "auto" {
		language = ""
	}
	start := time.Now()
	segments, err := mdl.Transcribe(ctx, samples, language)
	if err != nil {
		log.Errorf("model invocation: %v", err)
		res.Reason = ReasonEngineFailure
		return res
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if t := strings.TrimSpace(seg.Text); t != "" {
			parts = append(parts, t)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		res.Reason = ReasonNoSpeech
		return res
	}

	res.Text = text
	res.Language = language
	res.IsFinal = true
	log.Transcription("", duration.Seconds(), float64(time.Since(start).Milliseconds()), len(text), "")
	return res
}
