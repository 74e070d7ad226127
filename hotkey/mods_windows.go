//go:build windows

package hotkey

import xhk "golang.design/x/hotkey"

func xmods(mask uint32) []xhk.Modifier {
	var mods []xhk.Modifier
	if mask&ModCtrl != 0 {
		mods = append(mods, xhk.ModCtrl)
	}
	if mask&ModShift != 0 {
		mods = append(mods, xhk.ModShift)
	}
	if mask&ModAlt != 0 {
		mods = append(mods, xhk.ModAlt)
	}
	if mask&ModSuper != 0 {
		mods = append(mods, xhk.ModWin)
	}
	return mods
}
