package hotkey

import (
	"sync/atomic"
	"time"
)

// Mode describes how the shortcut was used for the current recording.
type Mode int32

const (
	// ModeToggle: a short tap armed the recording; another press stops it.
	ModeToggle Mode = iota
	// ModeHold: the key was held past the threshold; release stops it.
	ModeHold
)

// Presses turns raw keydown/keyup pairs from a Hotkey into start/stop
// recording signals, supporting both tap-to-toggle and hold-to-talk on
// the same key combination.
type Presses struct {
	start chan struct{}
	stop  chan struct{}
	mode  atomic.Int32
}

// Watch consumes hk's events forever. A press past holdAfter counts as
// hold-to-talk; a shorter tap toggles.
func Watch(hk Hotkey, holdAfter time.Duration) *Presses {
	p := &Presses{
		start: make(chan struct{}, 1),
		stop:  make(chan struct{}, 1),
	}
	go p.loop(hk, holdAfter)
	return p
}

func (p *Presses) Start() <-chan struct{} { return p.start }
func (p *Presses) Stop() <-chan struct{}  { return p.stop }

// Mode reports how the most recent recording was started. It settles
// once the press outlives the hold threshold.
func (p *Presses) Mode() Mode { return Mode(p.mode.Load()) }

func (p *Presses) loop(hk Hotkey, holdAfter time.Duration) {
	for {
		<-hk.Keydown()
		p.mode.Store(int32(ModeToggle))
		signal(p.start)

		hold := time.NewTimer(holdAfter)
		select {
		case <-hold.C:
			p.mode.Store(int32(ModeHold))
			<-hk.Keyup()
			signal(p.stop)
		case <-hk.Keyup():
			if !hold.Stop() {
				select {
				case <-hold.C:
				default:
				}
			}
			// Toggled on: the next complete press ends the recording.
			<-hk.Keydown()
			<-hk.Keyup()
			signal(p.stop)
		}
	}
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
