package model

import "time"

// Phase is the model lifecycle phase. Exactly one is active at a time;
// transitions are driven solely by the Manager.
type Phase int

const (
	NotLoaded Phase = iota
	Downloading
	LoadingFromCache
	Loading
	Ready
	Errored
)

func (p Phase) String() string {
	switch p {
	case NotLoaded:
		return "not_loaded"
	case Downloading:
		return "downloading"
	case LoadingFromCache:
		return "loading_from_cache"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Errored:
		return "error"
	}
	return "unknown"
}

// State is a snapshot of the model lifecycle. Progress is meaningful only
// while Downloading; Err and RetryIn only while Errored. RetryIn is zero for
// terminal errors and holds the backoff delay while a retry is pending.
type State struct {
	Phase    Phase
	Progress float64
	Err      string
	RetryIn  time.Duration
}

// Busy reports whether an acquisition or load is in flight.
func (p Phase) Busy() bool {
	return p == Downloading || p == LoadingFromCache || p == Loading
}

// Terminal reports whether the state requires user action to leave.
func (s State) Terminal() bool {
	return s.Phase == Errored && s.RetryIn == 0
}
