package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmptyReason explains why a result carries no text. Keeping the reasons
// distinct lets the UI tell a failed model call apart from genuine silence.
type EmptyReason int

const (
	ReasonNone EmptyReason = iota
	ReasonTooShort
	ReasonSilent
	ReasonNoSpeech
	ReasonEngineFailure
)

func (r EmptyReason) String() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonTooShort:
		return "too_short"
	case ReasonSilent:
		return "silent"
	case ReasonNoSpeech:
		return "no_speech"
	case ReasonEngineFailure:
		return "engine_failure"
	}
	return "unknown"
}

// Result is the immutable outcome of one stop-recording cycle.
type Result struct {
	ID         string
	Text       string
	Language   string // detected or hinted language, empty if unknown
	Confidence float64
	Timestamp  time.Time
	Duration   time.Duration
	IsFinal    bool
	TooShort   bool
	Reason     EmptyReason
}

func newResult(duration time.Duration) Result {
	return Result{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Duration:  duration,
		TooShort:  duration < uxShortDuration,
	}
}

// TrimmedText is Text with surrounding whitespace stripped.
func (r Result) TrimmedText() string {
	return strings.TrimSpace(r.Text)
}

// IsEmpty reports whether the result carries no usable text.
func (r Result) IsEmpty() bool {
	return r.TrimmedText() == ""
}
