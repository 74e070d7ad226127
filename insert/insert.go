package insert

import (
	"time"

	"github.com/mfaizanshaikh/ondevice-speech-to-text/clipboard"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/log"
)

// Accessibility injects text directly into the focused UI element.
// Implementations exist only where the desktop exposes such an API;
// a nil Accessibility makes the Inserter go straight to the clipboard.
type Accessibility interface {
	InsertAtCursor(text string) error
}

// Focus reports the name of the frontmost application.
type Focus interface {
	FrontAppName() (string, error)
}

// Clipboard is the subset of clipboard operations Insert needs.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

// Paster synthesizes the platform paste keystroke.
type Paster interface {
	Paste() error
}

// bypassApps are applications known to mishandle direct accessibility
// injection (mostly Electron shells). For these the clipboard path is
// used immediately.
var bypassApps = map[string]bool{
	"Slack":              true,
	"Discord":            true,
	"Visual Studio Code": true,
	"Code":               true,
	"Notion":             true,
	"Figma":              true,
	"Microsoft Teams":    true,
	"WhatsApp":           true,
	"Telegram":           true,
	"Obsidian":           true,
}

const pasteSettle = 100 * time.Millisecond

// Inserter places transcribed text at the system cursor position. It
// tries direct accessibility injection first and falls back to a
// clipboard round-trip with a synthesized paste.
type Inserter struct {
	ax     Accessibility
	focus  Focus
	clip   Clipboard
	paste  Paster
	settle time.Duration
}

// New returns an Inserter wired to the platform clipboard and virtual
// keyboard. Direct injection is available only where newAccessibility
// returns non-nil.
func New() *Inserter {
	return &Inserter{
		ax:     newAccessibility(),
		focus:  newFocus(),
		clip:   systemClipboard{},
		paste:  systemPaster{},
		settle: pasteSettle,
	}
}

// NewClipboardOnly returns an Inserter that always uses the clipboard
// round-trip, for users who prefer paste-only delivery.
func NewClipboardOnly() *Inserter {
	return &Inserter{
		clip:   systemClipboard{},
		paste:  systemPaster{},
		settle: pasteSettle,
	}
}

// NewWithDeps is the dependency-injected constructor used by tests.
func NewWithDeps(ax Accessibility, focus Focus, clip Clipboard, paste Paster) *Inserter {
	return &Inserter{ax: ax, focus: focus, clip: clip, paste: paste}
}

// Insert places text at the cursor. It returns true when the text was
// either injected directly or delivered via a paste we trust to have
// landed. On false the text is left on the clipboard so the user can
// paste it manually, and the caller should say so.
func (ins *Inserter) Insert(text string) bool {
	if text == "" {
		return false
	}

	app := ""
	if ins.focus != nil {
		if name, err := ins.focus.FrontAppName(); err == nil {
			app = name
		}
	}

	if ins.ax != nil && !bypassApps[app] {
		err := ins.ax.InsertAtCursor(text)
		if err == nil {
			log.Info("text inserted via accessibility")
			return true
		}
		log.Warnf("accessibility insert failed, falling back to clipboard: %v", err)
	}

	return ins.clipboardPaste(text)
}

func (ins *Inserter) clipboardPaste(text string) bool {
	prev, prevErr := ins.clip.Read()

	if err := ins.clip.Write(text); err != nil {
		log.Errorf("clipboard write failed: %v", err)
		return false
	}

	if ins.paste == nil {
		return false
	}
	if err := ins.paste.Paste(); err != nil {
		// Leave the text on the clipboard for a manual paste.
		log.Warnf("paste keystroke failed: %v", err)
		return false
	}

	// Give the target application a moment to consume the clipboard
	// before the original contents come back.
	if ins.settle > 0 {
		time.Sleep(ins.settle)
	}
	if prevErr == nil && prev != "" {
		if err := ins.clip.Write(prev); err != nil {
			log.Warnf("clipboard restore failed: %v", err)
		}
	}
	return true
}

type systemClipboard struct{}

func (systemClipboard) Read() (string, error) { return clipboard.Read() }
func (systemClipboard) Write(s string) error  { return clipboard.Copy(s) }

type systemPaster struct{}

func (systemPaster) Paste() error { return clipboard.Paste() }
