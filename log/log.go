package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog        zerolog.Logger
	diagFile       *os.File
	transcribeFile *os.File
	logMu          sync.Mutex
	logReady       bool
	pid            int
	dir            string
)

// abspath anchors a relative path at the working directory.
func abspath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

// ResolveDir picks the log directory: the -log flag wins, then the
// STT_LOG_PATH environment variable, then the platform default.
func ResolveDir(flagPath string) (string, error) {
	if flagPath != "" {
		return abspath(flagPath)
	}
	if envPath := os.Getenv("STT_LOG_PATH"); envPath != "" {
		return abspath(envPath)
	}
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func openAppend(name string) (*os.File, error) {
	return os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	pid = os.Getpid()

	var err error
	if diagFile, err = openAppend("diagnostics_log.txt"); err != nil {
		return err
	}
	if transcribeFile, err = openAppend("transcribe_log.txt"); err != nil {
		diagFile.Close()
		diagFile = nil
		return err
	}

	diagLog = zerolog.New(zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if transcribeFile != nil {
		transcribeFile.Close()
		transcribeFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// ModelState records every model state machine transition.
func ModelState(phase string, progress float64, errMsg string) {
	if !logReady {
		return
	}
	ev := diagLog.Info().Str("phase", phase)
	if progress > 0 {
		ev = ev.Float64("progress", progress)
	}
	if errMsg != "" {
		ev = ev.Str("error", errMsg)
	}
	ev.Msg("model_state")
}

// DownloadRetry records one step of the acquisition retry ladder.
func DownloadRetry(attempt int, delay time.Duration, cause string) {
	if !logReady {
		return
	}
	diagLog.Warn().
		Int("attempt", attempt).
		Dur("delay", delay).
		Str("cause", cause).
		Msg("download_retry")
}

// Transcription records timing and outcome of one recognition pass.
func Transcription(model string, audioS, totalMs float64, chars int, reason string) {
	if !logReady {
		return
	}
	ev := diagLog.Info().
		Str("model", model).
		Float64("audio_s", audioS).
		Float64("total_ms", totalMs).
		Int("chars", chars)
	if reason != "" {
		ev = ev.Str("empty_reason", reason)
	}
	ev.Msg("transcription")
}

// TranscriptionText appends the final text to the plain transcript log.
func TranscriptionText(text string) {
	if !logReady {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	line := fmt.Sprintf("%s\t[%d]\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, text)
	transcribeFile.WriteString(line)
}

func SessionStart(model, language string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("model", model).
		Str("language", language).
		Msg("session_start")
}

func SessionEnd(count int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("count", count).
		Msg("session_end")
}
