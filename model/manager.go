// Package model acquires the recognition model: cache detection, download
// with retry, and loading into memory. All lifecycle state lives in the
// Manager's State machine.
package model

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mfaizanshaikh/ondevice-speech-to-text/engine"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/log"
)

// maxRetries bounds automatic re-downloads after network errors: 6 attempts
// total.
const maxRetries = 5

// retrySchedule holds the delay before each retry; the last value repeats if
// attempts outrun the schedule.
var retrySchedule = []time.Duration{
	5 * time.Second,
	15 * time.Second,
	30 * time.Second,
	60 * time.Second,
	120 * time.Second,
}

// ErrOutOfMemory marks a load failure caused by memory pressure. It is
// terminal: the user has to pick a smaller model.
var ErrOutOfMemory = errors.New("not enough memory to load model")

// LoadFunc loads a model file from disk into memory.
type LoadFunc func(ctx context.Context, path string) (engine.Model, error)

// Config wires the Manager's collaborators. Load is required; the rest
// default to sensible implementations.
type Config struct {
	// Dir is the models root; each model occupies one subdirectory.
	Dir string
	// Load brings a downloaded model file into memory.
	Load LoadFunc
	// Online reports current connectivity (NetMonitor.Online).
	Online func() bool
	// Notify observes every state transition. Called outside the Manager's
	// lock, in transition order.
	Notify func(State)
}

type Manager struct {
	dir    string
	loadFn LoadFunc
	online func() bool
	notify func(State)
	fetch  func(ctx context.Context, opt Option, destDir string, progress func(float64)) error
	sleep  func(ctx context.Context, d time.Duration) bool

	mu      sync.Mutex
	state   State
	loading bool
	cancel  context.CancelFunc
	model   engine.Model
}

func NewManager(cfg Config) *Manager {
	m := &Manager{
		dir:    cfg.Dir,
		loadFn: cfg.Load,
		online: cfg.Online,
		notify: cfg.Notify,
		fetch:  fetch,
		sleep:  sleepCtx,
	}
	if m.online == nil {
		m.online = func() bool { return true }
	}
	if m.notify == nil {
		m.notify = func(State) {}
	}
	return m
}

// DefaultDir returns the per-user model storage root.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "stt", "models"), nil
}

// State returns the current lifecycle snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsLoading reports whether a load attempt is in flight.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Model returns the loaded model, or nil before Ready.
func (m *Manager) Model() engine.Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model
}

// ExistsOnDisk reports a cache hit: the model's subdirectory exists and is
// non-empty. That is the sole cache signal.
func (m *Manager) ExistsOnDisk(id string) bool {
	entries, err := os.ReadDir(filepath.Join(m.dir, id))
	return err == nil && len(entries) > 0
}

// DeleteCache removes the model's on-disk files.
func (m *Manager) DeleteCache(id string) error {
	return os.RemoveAll(filepath.Join(m.dir, id))
}

// modelPath is only valid for catalog IDs.
func (m *Manager) modelPath(opt Option) string {
	return filepath.Join(m.dir, opt.ID, opt.FileName)
}

// Load starts acquiring the model asynchronously. A call while a load is
// already in flight is a no-op, so concurrent callers cannot double-start
// the state machine.
func (m *Manager) Load(id string) {
	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return
	}
	m.loading = true
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mu.Unlock()

	go m.run(ctx, id)
}

// Cancel interrupts an in-flight load at the next checkpoint and resets the
// state to NotLoaded. A no-op when nothing is loading.
func (m *Manager) Cancel() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Close cancels any load and releases the loaded model.
func (m *Manager) Close() {
	m.Cancel()
	m.mu.Lock()
	mdl := m.model
	m.model = nil
	m.mu.Unlock()
	if mdl != nil {
		mdl.Close()
	}
}

func (m *Manager) run(ctx context.Context, id string) {
	opt, ok := Lookup(id)
	if !ok {
		m.finishError(fmt.Sprintf("unknown model %q", id))
		return
	}

	retries := 0
	cacheWiped := false
	for {
		if ctx.Err() != nil {
			m.finishReset()
			return
		}

		if m.ExistsOnDisk(id) {
			m.setState(State{Phase: LoadingFromCache})
			mdl, err := m.loadFn(ctx, m.modelPath(opt))
			if err == nil {
				m.finishReady(mdl)
				return
			}
			if ctx.Err() != nil {
				m.finishReset()
				return
			}
			if classify(err) == errClassMemory {
				m.finishError("not enough memory to load this model; choose a smaller one")
				return
			}
			if !cacheWiped {
				// A cached model that fails to load is most likely corrupt:
				// wipe it once and fall through to the download path.
				log.Warnf("cached model %s failed to load, wiping cache: %v", id, err)
				cacheWiped = true
				if rmErr := m.DeleteCache(id); rmErr != nil {
					m.finishError(fmt.Sprintf("failed to remove corrupt model cache: %v", rmErr))
					return
				}
				continue
			}
			m.finishError(fmt.Sprintf("failed to load model: %v", err))
			return
		}

		if !m.online() {
			m.finishError("no internet connection; connect and try again")
			return
		}

		m.setState(State{Phase: Downloading})
		lastProgress := 0.0
		err := m.fetch(ctx, opt, filepath.Join(m.dir, id), func(frac float64) {
			// Throttle: a multi-GB download reports progress very often.
			if frac-lastProgress >= 0.01 || frac >= 1.0 {
				lastProgress = frac
				m.setState(State{Phase: Downloading, Progress: frac})
			}
		})
		if err == nil {
			m.setState(State{Phase: Loading})
			mdl, loadErr := m.loadFn(ctx, m.modelPath(opt))
			if loadErr == nil {
				m.finishReady(mdl)
				return
			}
			if ctx.Err() != nil {
				m.finishReset()
				return
			}
			if classify(loadErr) == errClassMemory {
				m.finishError("not enough memory to load this model; choose a smaller one")
				return
			}
			m.finishError(fmt.Sprintf("failed to load model: %v", loadErr))
			return
		}
		if ctx.Err() != nil {
			m.finishReset()
			return
		}

		switch classify(err) {
		case errClassNetwork:
			if retries >= maxRetries {
				m.finishError(fmt.Sprintf("download failed after %d attempts: %v", retries+1, err))
				return
			}
			delay := retrySchedule[min(retries, len(retrySchedule)-1)]
			retries++
			log.DownloadRetry(retries, delay, err.Error())
			m.setState(State{
				Phase:   Errored,
				Err:     fmt.Sprintf("connection lost; retrying in %ds", int(delay.Seconds())),
				RetryIn: delay,
			})
			if !m.sleep(ctx, delay) {
				m.finishReset()
				return
			}
		case errClassMemory:
			m.finishError("not enough memory to load this model; choose a smaller one")
			return
		default:
			m.finishError(fmt.Sprintf("download failed: %v", err))
			return
		}
	}
}

// sleepCtx waits for d or until ctx is cancelled; false means cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	notify := m.notify
	m.mu.Unlock()
	log.ModelState(s.Phase.String(), s.Progress, s.Err)
	notify(s)
}

func (m *Manager) finishReady(mdl engine.Model) {
	m.mu.Lock()
	m.model = mdl
	m.loading = false
	m.cancel = nil
	m.mu.Unlock()
	m.setState(State{Phase: Ready})
}

func (m *Manager) finishError(msg string) {
	m.mu.Lock()
	m.loading = false
	m.cancel = nil
	m.mu.Unlock()
	m.setState(State{Phase: Errored, Err: msg})
}

func (m *Manager) finishReset() {
	m.mu.Lock()
	m.loading = false
	m.cancel = nil
	m.mu.Unlock()
	m.setState(State{Phase: NotLoaded})
}

type errClass int

const (
	errClassOther errClass = iota
	errClassNetwork
	errClassMemory
)

var networkSignals = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"network is unreachable",
	"timeout",
	"timed out",
	"broken pipe",
	"offline",
	"unexpected eof",
	"tls handshake",
	"temporary failure",
}

var memorySignals = []string{
	"out of memory",
	"cannot allocate memory",
	"memory pressure",
	"mmap",
}

// classify buckets an acquisition failure by inspecting error types and
// message text, the same signals the retry ladder keys on.
func classify(err error) errClass {
	if errors.Is(err, ErrOutOfMemory) {
		return errClassMemory
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return errClassNetwork
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range memorySignals {
		if strings.Contains(msg, sig) {
			return errClassMemory
		}
	}
	for _, sig := range networkSignals {
		if strings.Contains(msg, sig) {
			return errClassNetwork
		}
	}
	return errClassOther
}
