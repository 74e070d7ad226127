// Package clipboard wraps the system clipboard and the synthetic paste
// keystroke used by the insertion fallback.
package clipboard

import cb "github.com/atotto/clipboard"

// Supported reports whether a clipboard backend is available. On Linux this
// requires xclip or xsel on PATH.
func Supported() bool {
	return !cb.Unsupported
}

// Read returns the current clipboard contents.
func Read() (string, error) {
	return cb.ReadAll()
}

// Copy replaces the clipboard contents with text.
func Copy(text string) error {
	return cb.WriteAll(text)
}
