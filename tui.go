package main

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mfaizanshaikh/ondevice-speech-to-text/beep"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/controller"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/engine"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/model"
)

// TUI message types
type StateMsg struct{ State controller.State }
type ModelMsg struct{ State model.State }
type AudioLevelMsg struct{ Level float64 }
type TranscriptionMsg struct {
	Text     string
	Inserted bool
	Reason   engine.EmptyReason
	TooShort bool
}
type ClipboardNoticeMsg struct{ Text string }
type NoticeClearedMsg struct{}
type VoiceWarnMsg struct{ Warn bool }
type ErrorMsg struct{ Text string }
type tickMsg time.Time

var (
	recStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	procStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	textStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	strongStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	meterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

type tuiModel struct {
	state      controller.State
	modelState model.State
	frame      int
	started    time.Time
	level      float64
	lastText   string
	lastReason engine.EmptyReason
	tooShort   bool
	inserted   bool
	haveResult bool
	notice     string
	voiceWarn  bool
	errLine    string
	width      int

	onCancel func()
	onRetry  func()
}

func NewTUIProgram(onCancel, onRetry func()) *tea.Program {
	return tea.NewProgram(tuiModel{onCancel: onCancel, onRetry: onRetry}, tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.onCancel != nil {
				m.onCancel()
			}
		case "r":
			retryable := m.modelState.Terminal() || m.modelState.Phase == model.NotLoaded
			if retryable && m.onRetry != nil {
				m.onRetry()
			}
		}

	case tickMsg:
		m.frame++
		return m, tuiTick()

	case StateMsg:
		m.state = msg.State
		switch msg.State {
		case controller.Recording:
			m.started = time.Now()
			m.level = 0
			m.voiceWarn = false
			m.errLine = ""
			// A new dictation replaces the previous result line.
			m.haveResult = false
			m.lastText = ""
			m.lastReason = engine.ReasonNone
			m.tooShort = false
		case controller.Idle:
			m.level = 0
			m.voiceWarn = false
		}

	case ModelMsg:
		m.modelState = msg.State

	case AudioLevelMsg:
		if m.state == controller.Recording {
			m.level = m.level*0.6 + msg.Level*0.4
		}

	case TranscriptionMsg:
		m.haveResult = true
		m.lastText = msg.Text
		m.lastReason = msg.Reason
		m.tooShort = msg.TooShort
		m.inserted = msg.Inserted

	case ClipboardNoticeMsg:
		m.notice = msg.Text

	case NoticeClearedMsg:
		m.notice = ""

	case VoiceWarnMsg:
		m.voiceWarn = msg.Warn

	case ErrorMsg:
		m.errLine = msg.Text
	}
	return m, nil
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m tuiModel) modelLine() string {
	ms := m.modelState
	switch ms.Phase {
	case model.NotLoaded:
		return idleStyle.Render("model: not loaded") + dimStyle.Render("  (r to load)")
	case model.Downloading:
		return procStyle.Render(fmt.Sprintf("model: downloading %3.0f%% %s",
			ms.Progress*100, progressBar(ms.Progress, 24)))
	case model.LoadingFromCache:
		return procStyle.Render("model: loading from cache " + spinnerFrames[m.frame%len(spinnerFrames)])
	case model.Loading:
		return procStyle.Render("model: loading " + spinnerFrames[m.frame%len(spinnerFrames)])
	case model.Ready:
		return idleStyle.Render("model: ready")
	case model.Errored:
		if ms.RetryIn > 0 {
			return warnStyle.Render("model: " + ms.Err)
		}
		return errStyle.Render("model: "+ms.Err) + dimStyle.Render("  (r to retry)")
	}
	return ""
}

func (m tuiModel) statusLine() string {
	switch m.state {
	case controller.Recording:
		line := recStyle.Render(fmt.Sprintf("● REC %.1fs ", time.Since(m.started).Seconds()))
		line += meterStyle.Render(levelMeter(m.level, 20))
		if m.voiceWarn {
			line += warnStyle.Render("  ⚠ no voice detected")
		}
		return line
	case controller.Processing:
		return procStyle.Render("… transcribing " + spinnerFrames[m.frame%len(spinnerFrames)])
	}
	return idleStyle.Render("○ STANDBY")
}

func (m tuiModel) resultLine() string {
	if !m.haveResult {
		return ""
	}
	if m.lastText == "" {
		switch m.lastReason {
		case engine.ReasonTooShort:
			return dimStyle.Render("(recording too short)")
		case engine.ReasonSilent, engine.ReasonNoSpeech:
			return dimStyle.Render("(no speech detected)")
		case engine.ReasonEngineFailure:
			return errStyle.Render("(transcription failed)")
		}
		return ""
	}
	line := textStyle.Render(m.lastText)
	if m.tooShort {
		line += dimStyle.Render("  (short clip)")
	}
	return line
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + strongStyle.Render("stt") + dimStyle.Render(" "+version) + "\n\n")
	b.WriteString("  " + m.modelLine() + "\n")
	b.WriteString("  " + m.statusLine() + "\n\n")

	if line := m.resultLine(); line != "" {
		b.WriteString("  " + line + "\n")
	}
	if m.notice != "" {
		b.WriteString("  " + warnStyle.Render("copied to clipboard, paste manually") + "\n")
	}
	if m.errLine != "" {
		b.WriteString("  " + errStyle.Render(m.errLine) + "\n")
	}

	b.WriteString("\n  " + strongStyle.Render(hotkeyLabel) + dimStyle.Render(" to dictate") +
		dimStyle.Render("  ·  esc cancels  ·  q quits") + "\n")
	return b.String()
}

func progressBar(frac float64, width int) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func levelMeter(level float64, width int) string {
	filled := int(level * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("▮", filled) + strings.Repeat("▯", width-filled)
}

// tuiSink forwards controller and model events into the Bubble Tea
// program. Model loading can emit transitions before the program
// exists; those are dropped.
type tuiSink struct {
	p       atomic.Pointer[tea.Program]
	results atomic.Int32
}

func (s *tuiSink) setProgram(p *tea.Program) {
	s.p.Store(p)
}

func (s *tuiSink) send(msg tea.Msg) {
	if p := s.p.Load(); p != nil {
		p.Send(msg)
	}
}

func (s *tuiSink) StateChanged(st controller.State) {
	switch st {
	case controller.Recording:
		beep.Record()
	case controller.Processing:
		beep.Done()
	}
	s.send(StateMsg{State: st})
}

func (s *tuiSink) ModelState(ms model.State) {
	s.send(ModelMsg{State: ms})
}

func (s *tuiSink) Level(v float64) {
	s.send(AudioLevelMsg{Level: v})
}

func (s *tuiSink) Result(res engine.Result, inserted bool) {
	if !res.IsEmpty() {
		s.results.Add(1)
	}
	s.send(TranscriptionMsg{
		Text:     res.TrimmedText(),
		Inserted: inserted,
		Reason:   res.Reason,
		TooShort: res.TooShort,
	})
}

func (s *tuiSink) CopiedToClipboard(text string) {
	s.send(ClipboardNoticeMsg{Text: text})
}

func (s *tuiSink) NoticeCleared() {
	s.send(NoticeClearedMsg{})
}

func (s *tuiSink) NoVoice() {
	s.send(VoiceWarnMsg{Warn: true})
}

func (s *tuiSink) VoiceResumed() {
	s.send(VoiceWarnMsg{Warn: false})
}

func (s *tuiSink) ModelNotReady(ms model.State) {
	beep.Fail()
	s.send(ModelMsg{State: ms})
	if ms.Terminal() {
		s.send(ErrorMsg{Text: "model unavailable: " + ms.Err})
	} else {
		s.send(ErrorMsg{Text: "model not ready yet"})
	}
}

func (s *tuiSink) Error(msg string) {
	beep.Fail()
	s.send(ErrorMsg{Text: msg})
}
