//go:build !darwin

package insert

// Only macOS exposes a usable accessibility-injection API; elsewhere
// Insert goes straight to the clipboard round-trip.
func newAccessibility() Accessibility { return nil }

// Trusted reports whether direct injection is permitted. Without an
// accessibility API there is nothing to trust, and the clipboard path
// needs no permission.
func Trusted() bool { return false }
