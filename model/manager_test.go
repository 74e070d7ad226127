package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mfaizanshaikh/ondevice-speech-to-text/engine"
)

type recorder struct {
	mu     sync.Mutex
	states []State
	ch     chan State
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan State, 128)}
}

func (r *recorder) notify(s State) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
	r.ch <- s
}

func (r *recorder) all() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

// waitPhase blocks until the given phase is observed.
func (r *recorder) waitPhase(t *testing.T, phase Phase) State {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case s := <-r.ch:
			if s.Phase == phase {
				return s
			}
		case <-deadline:
			t.Fatalf("timed out waiting for phase %v; saw %v", phase, r.all())
		}
	}
}

func okLoad(_ context.Context, _ string) (engine.Model, error) {
	return engine.NewFakeModel([]string{"ok"}, nil), nil
}

func seedCache(t *testing.T, dir, id, filename string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, id), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, id, filename), []byte("ggml"), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestManager(t *testing.T, cfg Config) (*Manager, *recorder) {
	t.Helper()
	rec := newRecorder()
	if cfg.Dir == "" {
		cfg.Dir = t.TempDir()
	}
	if cfg.Load == nil {
		cfg.Load = okLoad
	}
	cfg.Notify = rec.notify
	m := NewManager(cfg)
	m.sleep = func(_ context.Context, _ time.Duration) bool { return true }
	t.Cleanup(m.Close)
	return m, rec
}

func TestCachedModelLoadsWithoutNetwork(t *testing.T) {
	dir := t.TempDir()
	seedCache(t, dir, "base", "ggml-base.bin")

	m, rec := newTestManager(t, Config{
		Dir:    dir,
		Online: func() bool { return false },
	})
	m.fetch = func(context.Context, Option, string, func(float64)) error {
		t.Error("fetch called despite cache hit")
		return nil
	}

	m.Load("base")
	rec.waitPhase(t, Ready)

	for _, s := range rec.all() {
		if s.Phase == Errored || s.Phase == Downloading {
			t.Errorf("unexpected phase %v on cache-hit path", s.Phase)
		}
	}
	if m.Model() == nil {
		t.Error("no model after Ready")
	}
}

func TestNoCacheNoNetworkIsTerminal(t *testing.T) {
	m, rec := newTestManager(t, Config{
		Online: func() bool { return false },
	})
	fetched := false
	m.fetch = func(context.Context, Option, string, func(float64)) error {
		fetched = true
		return nil
	}

	m.Load("base")
	s := rec.waitPhase(t, Errored)

	if s.RetryIn != 0 {
		t.Error("offline error should be terminal, not retrying")
	}
	if !contains(s.Err, "connection") {
		t.Errorf("error %q should mention the missing connection", s.Err)
	}
	if fetched {
		t.Error("download attempted while offline")
	}
}

func TestNetworkFailuresRetryThenSucceed(t *testing.T) {
	m, rec := newTestManager(t, Config{
		Online: func() bool { return true },
	})

	var delays []time.Duration
	m.sleep = func(_ context.Context, d time.Duration) bool {
		delays = append(delays, d)
		return true
	}
	failures := 3
	m.fetch = func(context.Context, Option, string, func(float64)) error {
		if failures > 0 {
			failures--
			return errors.New("read tcp: connection reset by peer")
		}
		return nil
	}

	m.Load("base")
	rec.waitPhase(t, Ready)

	var retryStates []State
	for _, s := range rec.all() {
		if s.Phase == Errored {
			retryStates = append(retryStates, s)
		}
	}
	if len(retryStates) != 3 {
		t.Fatalf("got %d retry states, want 3: %v", len(retryStates), retryStates)
	}
	want := []time.Duration{5 * time.Second, 15 * time.Second, 30 * time.Second}
	for i, s := range retryStates {
		if s.RetryIn != want[i] {
			t.Errorf("retry %d: RetryIn = %v, want %v", i, s.RetryIn, want[i])
		}
	}
	if fmt.Sprint(delays) != fmt.Sprint(want) {
		t.Errorf("slept %v, want %v", delays, want)
	}
}

func TestNetworkFailuresExhaustRetries(t *testing.T) {
	m, rec := newTestManager(t, Config{
		Online: func() bool { return true },
	})
	attempts := 0
	m.fetch = func(context.Context, Option, string, func(float64)) error {
		attempts++
		return errors.New("dial tcp: i/o timeout")
	}

	m.Load("base")

	var terminal State
	deadline := time.After(5 * time.Second)
	for terminal.Phase != Errored || terminal.RetryIn != 0 {
		select {
		case terminal = <-rec.ch:
		case <-deadline:
			t.Fatal("no terminal error state")
		}
	}
	if attempts != maxRetries+1 {
		t.Errorf("made %d attempts, want %d", attempts, maxRetries+1)
	}
}

func TestLoadIdempotentWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var loads int
	m, rec := newTestManager(t, Config{
		Load: func(ctx context.Context, _ string) (engine.Model, error) {
			loads++
			close(started)
			<-release
			return engine.NewFakeModel(nil, nil), nil
		},
	})
	seedCache(t, m.dir, "base", "ggml-base.bin")

	m.Load("base")
	<-started
	m.Load("base") // no-op while in flight
	if !m.IsLoading() {
		t.Error("expected loading in flight")
	}
	close(release)
	rec.waitPhase(t, Ready)

	if loads != 1 {
		t.Errorf("model loaded %d times, want 1", loads)
	}
}

func TestCorruptCacheIsWipedAndRedownloaded(t *testing.T) {
	dir := t.TempDir()
	seedCache(t, dir, "base", "ggml-base.bin")

	calls := 0
	m, rec := newTestManager(t, Config{
		Dir: dir,
		Load: func(ctx context.Context, path string) (engine.Model, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("invalid magic in model file")
			}
			return engine.NewFakeModel(nil, nil), nil
		},
		Online: func() bool { return true },
	})
	fetched := false
	m.fetch = func(context.Context, Option, string, func(float64)) error {
		fetched = true
		return nil
	}

	m.Load("base")
	rec.waitPhase(t, Ready)

	if !fetched {
		t.Error("corrupt cache should trigger a re-download")
	}
	if m.ExistsOnDisk("base") {
		// fetch fake does not rewrite the file; the wiped dir must stay gone
		t.Error("corrupt cache not deleted")
	}
}

func TestMemoryErrorIsTerminal(t *testing.T) {
	dir := t.TempDir()
	seedCache(t, dir, "large-v3", "ggml-large-v3.bin")

	m, rec := newTestManager(t, Config{
		Dir: dir,
		Load: func(context.Context, string) (engine.Model, error) {
			return nil, ErrOutOfMemory
		},
	})
	m.fetch = func(context.Context, Option, string, func(float64)) error {
		t.Error("memory failure must not trigger a re-download")
		return nil
	}

	m.Load("large-v3")
	s := rec.waitPhase(t, Errored)

	if s.RetryIn != 0 {
		t.Error("memory error should be terminal")
	}
	if !contains(s.Err, "smaller") {
		t.Errorf("error %q should direct the user to a smaller model", s.Err)
	}
}

func TestCancelDuringRetryWaitResets(t *testing.T) {
	m, rec := newTestManager(t, Config{
		Online: func() bool { return true },
	})
	sleeping := make(chan struct{})
	m.sleep = func(ctx context.Context, _ time.Duration) bool {
		close(sleeping)
		<-ctx.Done()
		return false
	}
	m.fetch = func(context.Context, Option, string, func(float64)) error {
		return errors.New("connection refused")
	}

	m.Load("base")
	<-sleeping
	m.Cancel()
	rec.waitPhase(t, NotLoaded)

	if m.IsLoading() {
		t.Error("still loading after cancel")
	}
}

func TestUnknownModelID(t *testing.T) {
	m, rec := newTestManager(t, Config{})
	m.Load("nonexistent")
	s := rec.waitPhase(t, Errored)
	if !contains(s.Err, "unknown model") {
		t.Errorf("error %q should name the unknown model", s.Err)
	}
}

func TestExistsOnDisk(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(Config{Dir: dir, Load: okLoad})

	if m.ExistsOnDisk("base") {
		t.Error("missing dir reported as cache hit")
	}
	if err := os.MkdirAll(filepath.Join(dir, "base"), 0755); err != nil {
		t.Fatal(err)
	}
	if m.ExistsOnDisk("base") {
		t.Error("empty dir reported as cache hit")
	}
	seedCache(t, dir, "base", "ggml-base.bin")
	if !m.ExistsOnDisk("base") {
		t.Error("non-empty dir not reported as cache hit")
	}
	if err := m.DeleteCache("base"); err != nil {
		t.Fatal(err)
	}
	if m.ExistsOnDisk("base") {
		t.Error("cache hit after DeleteCache")
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
