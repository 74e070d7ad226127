//go:build !darwin && !linux

package insert

func newFocus() Focus { return nil }
