package main

import (
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/mfaizanshaikh/ondevice-speech-to-text/audio"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/beep"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/clipboard"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/config"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/controller"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/engine"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/hotkey"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/insert"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/log"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/model"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/shutdown"
)

var version = "dev"

// holdThreshold separates a tap (toggle dictation) from a hold
// (push-to-talk).
const holdThreshold = 250 * time.Millisecond

// hotkeyLabel is set from the configured binding before the UI starts.
var hotkeyLabel = hotkey.Default().String()

var shutdownOnce sync.Once

// run is the real entry point; the per-OS main wrappers deliver it a
// suitable thread (x/hotkey needs the process main thread off Linux).
func run() {
	modelFlag := flag.String("model", "", "model to use (tiny|base|small|medium|large-v3)")
	langFlag := flag.String("lang", "", "recognition language code, or auto")
	deviceFlag := flag.Bool("device", false, "choose an input device at startup")
	logFlag := flag.String("log", "", "log directory (default: platform data dir)")
	quietFlag := flag.Bool("quiet", false, "disable audio cues")
	redownloadFlag := flag.Bool("redownload", false, "delete the cached model and fetch it again")
	profileFlag := flag.String("profile", "", "serve pprof on the given address (e.g. localhost:6060)")
	testFlag := flag.String("test", "", "headless mode: replay the given WAV, driven over stdin")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println("stt", version)
		return
	}

	cfgPath, err := config.Path()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving config path: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		os.Exit(1)
	}
	changed := false
	if *modelFlag != "" && *modelFlag != cfg.Model {
		if _, ok := model.Lookup(*modelFlag); !ok {
			fmt.Fprintf(os.Stderr, "Unknown model %q\n", *modelFlag)
			os.Exit(1)
		}
		cfg.Model = *modelFlag
		changed = true
	}
	if *langFlag != "" && *langFlag != cfg.Language {
		cfg.Language = *langFlag
		changed = true
	}
	hotkeyLabel = cfg.Binding().String()
	if !cfg.Onboarded && *testFlag == "" {
		opt, _ := model.Lookup(cfg.Model)
		fmt.Printf("First run: the %s model (%s) downloads on start and is cached locally.\n",
			opt.Name, opt.SizeLabel)
		fmt.Printf("Press %s to dictate once the model is ready.\n\n", hotkeyLabel)
		cfg.Onboarded = true
		changed = true
	}
	if changed {
		if err := config.Save(cfgPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
		}
	}

	logDir, err := log.ResolveDir(*logFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving log dir: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logDir)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	crashPath := filepath.Join(logDir, "crash_log.txt")
	if crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n",
			time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("panic: %v\n%s", r, debug.Stack())
			panic(r)
		}
	}()

	if *profileFlag != "" {
		go func() {
			if err := http.ListenAndServe(*profileFlag, nil); err != nil {
				log.Errorf("pprof server: %v", err)
			}
		}()
	}

	if *quietFlag || !cfg.Sounds {
		beep.Disable()
	}

	if *testFlag != "" {
		runTestMode(*testFlag, cfg)
		return
	}

	runSession(cfg, *deviceFlag, *redownloadFlag)
}

func runSession(cfg config.Config, pickDevice, redownload bool) {
	log.SessionStart(cfg.Model, cfg.Language)

	netmon := model.NewNetMonitor()
	defer netmon.Close()

	modelDir, err := model.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving model cache dir: %v\n", err)
		os.Exit(1)
	}

	var sink tuiSink
	mgr := model.NewManager(model.Config{
		Dir:    modelDir,
		Load:   engine.LoadWhisper,
		Online: netmon.Online,
		Notify: sink.ModelState,
	})
	defer mgr.Close()

	if redownload {
		if err := mgr.DeleteCache(cfg.Model); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not delete cached model: %v\n", err)
		}
	}
	// SkipDownload defers fetching to an explicit retry (r in the TUI);
	// a cached model still loads.
	if !cfg.SkipDownload || mgr.ExistsOnDisk(cfg.Model) {
		mgr.Load(cfg.Model)
	}

	actx, err := audio.NewContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer actx.Close()

	var dev *audio.DeviceInfo
	if pickDevice {
		if dev, err = audio.SelectDevice(actx); err != nil {
			fmt.Fprintf(os.Stderr, "Error selecting device: %v\n", err)
			os.Exit(1)
		}
	}
	capture, err := actx.NewCapture(dev, audio.CaptureConfig{
		SampleRate: audio.SampleRate, Channels: audio.Channels,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening capture device: %v\n", err)
		os.Exit(1)
	}
	defer capture.Close()

	if name := capture.DeviceName(); audio.IsBluetooth(name) {
		log.Warnf("bluetooth input %q may capture at reduced quality", name)
	}

	if !clipboard.Supported() {
		log.Warn("no clipboard backend found; install xclip or xsel for text delivery")
	}
	if err := clipboard.InitPaste(); err != nil {
		log.Warnf("paste init failed, falling back to clipboard-only delivery: %v", err)
	}

	var ins controller.Inserter
	if cfg.DirectInsert {
		ins = insert.New()
	} else {
		ins = insert.NewClipboardOnly()
	}

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
		Inserter: ins,
		Sink:     &sink,
		Language: func() string { return cfg.Language },
		AutoStop: true,
	})

	hk := hotkey.New(cfg.Binding())
	if err := hk.Register(); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering hotkey: %v\n", err)
		os.Exit(1)
	}
	defer hk.Unregister()
	presses := hotkey.Watch(hk, holdThreshold)

	sig := make(chan os.Signal, 1)
	shutdown.Notify(sig)

	p := NewTUIProgram(ctrl.Cancel, func() { mgr.Load(cfg.Model) })
	sink.setProgram(p)

	go func() {
		for {
			select {
			case <-presses.Start():
				ctrl.Toggle()
			case <-presses.Stop():
				ctrl.Stop()
			case <-sig:
				p.Quit()
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		log.Errorf("tui: %v", err)
	}

	gracefulShutdown(ctrl, &sink)
}

func gracefulShutdown(ctrl *controller.Controller, sink *tuiSink) {
	shutdownOnce.Do(func() {
		ctrl.Shutdown()
		log.SessionEnd(int(sink.results.Load()))
		log.Close()
	})
}
