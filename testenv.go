package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mfaizanshaikh/ondevice-speech-to-text/audio"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/beep"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/config"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/controller"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/engine"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/hotkey"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/insert"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/log"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/model"
)

// printSink reports pipeline events as plain lines on stdout so a
// driving script can assert on them.
type printSink struct {
	idle chan struct{}
}

func newPrintSink() *printSink {
	return &printSink{idle: make(chan struct{}, 1)}
}

func (s *printSink) emit(line string) {
	fmt.Println(line)
}

func (s *printSink) StateChanged(st controller.State) {
	s.emit("STATE " + st.String())
	if st == controller.Idle {
		select {
		case s.idle <- struct{}{}:
		default:
		}
	}
}

func (s *printSink) ModelState(ms model.State) {
	s.emit("MODEL " + ms.Phase.String())
}

func (s *printSink) Level(v float64) {}

func (s *printSink) Result(res engine.Result, inserted bool) {
	if res.IsEmpty() {
		s.emit("EMPTY " + res.Reason.String())
		return
	}
	s.emit(fmt.Sprintf("RESULT inserted=%v %s", inserted, res.TrimmedText()))
}

func (s *printSink) CopiedToClipboard(text string) { s.emit("CLIPBOARD " + text) }
func (s *printSink) NoticeCleared()                {}
func (s *printSink) NoVoice()                      { s.emit("NOVOICE") }
func (s *printSink) VoiceResumed()                 {}
func (s *printSink) ModelNotReady(ms model.State)  { s.emit("MODEL_NOT_READY " + ms.Phase.String()) }
func (s *printSink) Error(msg string)              { s.emit("ERROR " + msg) }

// runTestMode replays a WAV file through the full pipeline, taking
// commands on stdin instead of global hotkey events. The model must
// already be in the cache; nothing is downloaded here.
func runTestMode(wavPath string, cfg config.Config) {
	beep.Disable()

	sink := newPrintSink()

	modelDir, err := model.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving model cache dir: %v\n", err)
		os.Exit(1)
	}
	mgr := model.NewManager(model.Config{
		Dir:    modelDir,
		Load:   engine.LoadWhisper,
		Online: func() bool { return false },
		Notify: sink.ModelState,
	})
	defer mgr.Close()
	mgr.Load(cfg.Model)

	fakeCtx, err := audio.NewFakeContext(wavPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading WAV: %v\n", err)
		os.Exit(1)
	}
	capture, err := fakeCtx.NewCapture(nil, audio.CaptureConfig{
		SampleRate: audio.SampleRate, Channels: audio.Channels,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating capture: %v\n", err)
		os.Exit(1)
	}
	defer capture.Close()

	var ctrl *controller.Controller
	rec := audio.NewRecorder(capture, func(v float64) {
		if ctrl != nil {
			ctrl.NoteLevel(v)
		}
	})
	ctrl = controller.New(controller.Config{
		Models:   mgr,
		Recorder: rec,
		Engine:   engine.New(mgr.Model),
		Inserter: insert.NewClipboardOnly(),
		Sink:     sink,
		Language: func() string { return cfg.Language },
	})
	defer ctrl.Shutdown()

	hk := hotkey.NewFake()
	presses := hotkey.Watch(hk, holdThreshold)
	go func() {
		for {
			select {
			case <-presses.Start():
				ctrl.Toggle()
			case <-presses.Stop():
				ctrl.Stop()
			}
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		switch {
		case cmd == "KEYDOWN":
			hk.SimKeydown()
		case cmd == "KEYUP":
			hk.SimKeyup()
		case cmd == "TOGGLE":
			ctrl.Toggle()
		case cmd == "CANCEL":
			ctrl.Cancel()
		case cmd == "WAIT":
			<-sink.idle
		case cmd == "QUIT":
			return
		case strings.HasPrefix(cmd, "SLEEP "):
			if ms, err := strconv.Atoi(strings.TrimPrefix(cmd, "SLEEP ")); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}
		default:
			log.Warnf("unknown test command %q", cmd)
		}
	}
}
