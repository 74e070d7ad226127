// Package controller owns the recording state machine. All transitions
// run on a single goroutine fed by a command channel, so hotkey events,
// silence auto-stop and shutdown can never race each other.
package controller

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/mfaizanshaikh/ondevice-speech-to-text/engine"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/log"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/model"
)

type State int32

const (
	Idle State = iota
	Recording
	Processing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Processing:
		return "processing"
	}
	return "unknown"
}

// EventSink receives presentation events from the controller loop. The
// TUI and the headless test harness both implement it. Methods are
// called from the controller goroutine and must not block.
type EventSink interface {
	StateChanged(s State)
	Level(v float64)
	Result(res engine.Result, inserted bool)
	CopiedToClipboard(text string)
	NoticeCleared()
	NoVoice()
	VoiceResumed()
	ModelNotReady(ms model.State)
	Error(msg string)
}

// Recorder is the capture surface the controller drives.
type Recorder interface {
	Start() error
	Stop() []float32
	Cancel()
}

// Transcriber converts a finished recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32, language string) engine.Result
}

// Inserter places text at the system cursor, reporting whether the
// delivery is trusted.
type Inserter interface {
	Insert(text string) bool
}

// Permissions gates microphone access. A nil Permissions means access
// is assumed.
type Permissions interface {
	MicGranted() bool
	RequestMic(func(granted bool))
}

type Config struct {
	Models   interface{ State() model.State }
	Recorder Recorder
	Engine   Transcriber
	Inserter Inserter
	Perms    Permissions
	Sink     EventSink

	// Language returns the current recognition language preference.
	Language func() string

	// Notice is how long the copied-to-clipboard indicator stays up
	// when a paste could not be trusted.
	Notice time.Duration

	// AutoStop ends a toggled recording after a long stretch of
	// silence.
	AutoStop bool
}

type command int

const (
	cmdToggle command = iota
	cmdStop
	cmdCancel
	cmdShutdown
)

type Controller struct {
	cfg   Config
	cmds  chan command
	state atomic.Int32
	level atomic.Uint64
	watch *speechWatch
	sleep func(time.Duration)
	done  chan struct{}
}

func New(cfg Config) *Controller {
	if cfg.Notice == 0 {
		cfg.Notice = 2 * time.Second
	}
	c := &Controller{
		cfg:   cfg,
		cmds:  make(chan command, 8),
		sleep: time.Sleep,
		done:  make(chan struct{}),
	}
	go c.run()
	return c
}

// Toggle starts a recording from idle or finishes the one in flight.
// A toggle arriving while a transcription is processing is queued
// behind it.
func (c *Controller) Toggle() { c.send(cmdToggle) }

// Stop finishes the current recording; no-op outside Recording.
func (c *Controller) Stop() { c.send(cmdStop) }

// Cancel discards the current recording without transcribing.
func (c *Controller) Cancel() { c.send(cmdCancel) }

// Shutdown cancels any recording in flight and stops the loop.
func (c *Controller) Shutdown() {
	c.send(cmdShutdown)
	<-c.done
}

func (c *Controller) State() State {
	return State(c.state.Load())
}

// NoteLevel feeds the normalized input level from the capture callback
// path. It also forwards the value to the sink for the level meter.
func (c *Controller) NoteLevel(v float64) {
	c.level.Store(math.Float64bits(v))
	c.cfg.Sink.Level(v)
}

func (c *Controller) send(cmd command) {
	select {
	case c.cmds <- cmd:
	default:
		// Queue full means the user is mashing the hotkey; excess
		// presses are dropped rather than replayed later.
	}
}

func (c *Controller) run() {
	tick := time.NewTicker(monitorTick)
	defer tick.Stop()

	for {
		select {
		case cmd := <-c.cmds:
			switch cmd {
			case cmdToggle:
				if c.State() == Recording {
					c.finish()
				} else {
					c.start()
				}
			case cmdStop:
				if c.State() == Recording {
					c.finish()
				}
			case cmdCancel:
				if c.State() == Recording {
					c.cfg.Recorder.Cancel()
					log.Info("recording cancelled, audio discarded")
					c.setState(Idle)
				}
			case cmdShutdown:
				if c.State() == Recording {
					c.cfg.Recorder.Cancel()
				}
				close(c.done)
				return
			}
		case <-tick.C:
			c.onTick()
		}
	}
}

func (c *Controller) start() {
	ms := c.cfg.Models.State()
	if ms.Phase.Busy() {
		// Acquisition is in flight and the UI already shows its
		// progress; swallow the press.
		return
	}
	if ms.Phase != model.Ready {
		c.cfg.Sink.ModelNotReady(ms)
		return
	}

	if c.cfg.Perms != nil && !c.cfg.Perms.MicGranted() {
		// Retry the toggle once the permission dialog resolves.
		c.cfg.Perms.RequestMic(func(granted bool) {
			if granted {
				c.Toggle()
			} else {
				c.cfg.Sink.Error("microphone access denied")
			}
		})
		return
	}

	if err := c.cfg.Recorder.Start(); err != nil {
		log.Errorf("starting capture: %v", err)
		c.cfg.Sink.Error("could not start recording: " + err.Error())
		return
	}
	c.watch = newSpeechWatch()
	c.setState(Recording)
}

func (c *Controller) finish() {
	c.setState(Processing)
	samples := c.cfg.Recorder.Stop()

	lang := "auto"
	if c.cfg.Language != nil {
		lang = c.cfg.Language()
	}
	res := c.cfg.Engine.Transcribe(context.Background(), samples, lang)

	if res.IsEmpty() {
		c.cfg.Sink.Result(res, false)
		c.setState(Idle)
		return
	}

	text := res.TrimmedText()
	inserted := c.cfg.Inserter.Insert(text)
	c.cfg.Sink.Result(res, inserted)
	if !inserted {
		// Insert left the text on the clipboard; show the manual-paste
		// notice briefly before clearing the UI.
		c.cfg.Sink.CopiedToClipboard(text)
		c.sleep(c.cfg.Notice)
		c.cfg.Sink.NoticeCleared()
	}
	c.setState(Idle)
}

func (c *Controller) onTick() {
	if c.State() != Recording || c.watch == nil {
		return
	}
	level := math.Float64frombits(c.level.Load())
	switch c.watch.observe(level) {
	case silenceWarn:
		c.cfg.Sink.NoVoice()
	case silenceClear:
		c.cfg.Sink.VoiceResumed()
	case silenceAutoStop:
		if c.cfg.AutoStop {
			log.Info("auto-stopping after prolonged silence")
			c.finish()
		}
	}
}

func (c *Controller) setState(s State) {
	c.state.Store(int32(s))
	c.cfg.Sink.StateChanged(s)
}
