package engine

import (
	"context"
	"sync"
)

// FakeModel returns canned segments and counts invocations.
type FakeModel struct {
	mu        sync.Mutex
	segments  []Segment
	err       error
	calls     int
	lastLang  string
	closed    bool
}

func NewFakeModel(texts []string, err error) *FakeModel {
	segs := make([]Segment, len(texts))
	for i, t := range texts {
		segs[i] = Segment{Text: t}
	}
	return &FakeModel{segments: segs, err: err}
}

func (f *FakeModel) Transcribe(_ context.Context, _ []float32, language string) ([]Segment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastLang = language
	if f.err != nil {
		return nil, f.err
	}
	return f.segments, nil
}

func (f *FakeModel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *FakeModel) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeModel) LastLanguage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastLang
}

func (f *FakeModel) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
