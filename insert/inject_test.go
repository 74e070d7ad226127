package insert

import (
	"errors"
	"testing"
)

type fakeElement struct {
	selErr   error
	value    string
	valueErr error
	loc      int
	length   int
	hasRange bool
	setErr   error

	selectedSets []string
	valueSets    []string
}

func (f *fakeElement) SetSelectedText(text string) error {
	if f.selErr != nil {
		return f.selErr
	}
	f.selectedSets = append(f.selectedSets, text)
	return nil
}

func (f *fakeElement) Value() (string, error) { return f.value, f.valueErr }

func (f *fakeElement) SelectedRange() (int, int, bool) { return f.loc, f.length, f.hasRange }

func (f *fakeElement) SetValue(text string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.valueSets = append(f.valueSets, text)
	return nil
}

func TestInjectReplacesSelectionDirectly(t *testing.T) {
	el := &fakeElement{value: "untouched"}
	if err := injectText(el, "hello"); err != nil {
		t.Fatal(err)
	}
	if len(el.selectedSets) != 1 || el.selectedSets[0] != "hello" {
		t.Errorf("selected-text sets = %v", el.selectedSets)
	}
	if len(el.valueSets) != 0 {
		t.Errorf("value rewritten despite selection path succeeding: %v", el.valueSets)
	}
}

func TestInjectSplicesValueWhenSelectionRejected(t *testing.T) {
	el := &fakeElement{
		selErr:   errors.New("AXSelectedText not settable"),
		value:    "one  three",
		loc:      4,
		length:   0,
		hasRange: true,
	}
	if err := injectText(el, "two"); err != nil {
		t.Fatal(err)
	}
	if len(el.valueSets) != 1 || el.valueSets[0] != "one two three" {
		t.Errorf("value sets = %v, want [one two three]", el.valueSets)
	}
}

func TestInjectReplacesSelectedRange(t *testing.T) {
	el := &fakeElement{
		selErr:   errors.New("not settable"),
		value:    "say WRONG now",
		loc:      4,
		length:   5,
		hasRange: true,
	}
	if err := injectText(el, "right"); err != nil {
		t.Fatal(err)
	}
	if len(el.valueSets) != 1 || el.valueSets[0] != "say right now" {
		t.Errorf("value sets = %v, want [say right now]", el.valueSets)
	}
}

func TestInjectAppendsWithoutRange(t *testing.T) {
	el := &fakeElement{
		selErr: errors.New("not settable"),
		value:  "existing ",
	}
	if err := injectText(el, "tail"); err != nil {
		t.Fatal(err)
	}
	if len(el.valueSets) != 1 || el.valueSets[0] != "existing tail" {
		t.Errorf("value sets = %v, want [existing tail]", el.valueSets)
	}
}

func TestInjectErrsWhenBothStagesFail(t *testing.T) {
	el := &fakeElement{
		selErr:   errors.New("not settable"),
		value:    "text",
		hasRange: true,
		setErr:   errors.New("read only"),
	}
	if err := injectText(el, "x"); err == nil {
		t.Fatal("expected error when neither stage can write")
	}
	if len(el.selectedSets) != 0 || len(el.valueSets) != 0 {
		t.Error("writes recorded despite both stages failing")
	}
}

func TestSpliceUTF16(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		loc, length int
		text        string
		want        string
	}{
		{"caret mid-string", "ab", 1, 0, "X", "aXb"},
		{"replace range", "hello world", 6, 5, "there", "hello there"},
		{"at start", "tail", 0, 0, "head ", "head tail"},
		{"at end", "head", 4, 0, " tail", "head tail"},
		{"past end appends", "short", 99, 0, "X", "shortX"},
		{"negative appends", "short", -1, 0, "X", "shortX"},
		{"length clamped", "abc", 1, 99, "Z", "aZ"},
		// 😀 occupies two UTF-16 units, so the caret after it sits at 2.
		{"after surrogate pair", "\U0001F600b", 2, 0, "X", "\U0001F600Xb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := spliceUTF16(tt.value, tt.loc, tt.length, tt.text)
			if got != tt.want {
				t.Errorf("spliceUTF16(%q, %d, %d, %q) = %q, want %q",
					tt.value, tt.loc, tt.length, tt.text, got, tt.want)
			}
		})
	}
}
