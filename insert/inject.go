package insert

import (
	"fmt"
	"unicode/utf16"
)

// textElement is a focused editable element as the platform accessibility
// tree exposes it. Selection offsets are UTF-16 code units.
type textElement interface {
	SetSelectedText(text string) error
	Value() (string, error)
	SelectedRange() (loc, length int, ok bool)
	SetValue(text string) error
}

// injectText writes text into an element at the cursor. It first replaces
// the selection directly; when the element does not accept that, it
// re-writes the whole value with the text spliced in at the selection
// (or appended when no selection is reported). Only after both attempts
// fail does the caller move on to the clipboard.
func injectText(el textElement, text string) error {
	selErr := el.SetSelectedText(text)
	if selErr == nil {
		return nil
	}

	value, err := el.Value()
	if err != nil {
		return fmt.Errorf("selected-text set failed (%v); value read failed: %w", selErr, err)
	}
	loc, length, ok := el.SelectedRange()
	if !ok {
		loc, length = -1, 0
	}
	if err := el.SetValue(spliceUTF16(value, loc, length, text)); err != nil {
		return fmt.Errorf("selected-text set failed (%v); value write failed: %w", selErr, err)
	}
	return nil
}

// spliceUTF16 replaces the [loc, loc+length) range of value with text,
// measuring offsets in UTF-16 code units. An out-of-range loc appends.
func spliceUTF16(value string, loc, length int, text string) string {
	u := utf16.Encode([]rune(value))
	if loc < 0 || loc > len(u) {
		return value + text
	}
	end := loc + length
	if end > len(u) {
		end = len(u)
	}
	ins := utf16.Encode([]rune(text))
	out := make([]uint16, 0, len(u)-(end-loc)+len(ins))
	out = append(out, u[:loc]...)
	out = append(out, ins...)
	out = append(out, u[end:]...)
	return string(utf16.Decode(out))
}
