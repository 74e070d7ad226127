package insert

import (
	"errors"
	"testing"
)

type fakeAX struct {
	calls int
	err   error
	text  string
}

func (f *fakeAX) InsertAtCursor(text string) error {
	f.calls++
	f.text = text
	return f.err
}

type fakeFocus struct{ name string }

func (f fakeFocus) FrontAppName() (string, error) { return f.name, nil }

type fakeClip struct {
	contents string
	readErr  error
	writeErr error
	writes   []string
}

func (f *fakeClip) Read() (string, error) { return f.contents, f.readErr }

func (f *fakeClip) Write(s string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.contents = s
	f.writes = append(f.writes, s)
	return nil
}

type fakePaste struct {
	calls int
	err   error
}

func (f *fakePaste) Paste() error {
	f.calls++
	return f.err
}

func TestEmptyTextNeverTouchesClipboard(t *testing.T) {
	ax := &fakeAX{}
	clip := &fakeClip{contents: "keep me"}
	paste := &fakePaste{}
	ins := NewWithDeps(ax, fakeFocus{name: "TextEdit"}, clip, paste)

	if ins.Insert("") {
		t.Fatal("Insert(\"\") returned true")
	}
	if ax.calls != 0 {
		t.Error("accessibility path attempted for empty text")
	}
	if len(clip.writes) != 0 {
		t.Errorf("clipboard mutated: %v", clip.writes)
	}
	if clip.contents != "keep me" {
		t.Errorf("clipboard contents changed to %q", clip.contents)
	}
}

func TestDirectInjectionPreferred(t *testing.T) {
	ax := &fakeAX{}
	clip := &fakeClip{contents: "previous"}
	paste := &fakePaste{}
	ins := NewWithDeps(ax, fakeFocus{name: "TextEdit"}, clip, paste)

	if !ins.Insert("hello world") {
		t.Fatal("Insert returned false")
	}
	if ax.calls != 1 || ax.text != "hello world" {
		t.Errorf("accessibility call = (%d, %q)", ax.calls, ax.text)
	}
	if len(clip.writes) != 0 {
		t.Error("clipboard touched despite successful direct injection")
	}
	if paste.calls != 0 {
		t.Error("paste synthesized despite successful direct injection")
	}
}

func TestBypassAppSkipsAccessibility(t *testing.T) {
	ax := &fakeAX{}
	clip := &fakeClip{contents: "previous"}
	paste := &fakePaste{}
	ins := NewWithDeps(ax, fakeFocus{name: "Slack"}, clip, paste)

	if !ins.Insert("hi there") {
		t.Fatal("Insert returned false")
	}
	if ax.calls != 0 {
		t.Error("accessibility path attempted for bypassed app")
	}
	if paste.calls != 1 {
		t.Errorf("paste calls = %d, want 1", paste.calls)
	}
}

func TestClipboardFallbackRestoresPreviousContents(t *testing.T) {
	ax := &fakeAX{err: errors.New("element not settable")}
	clip := &fakeClip{contents: "previous"}
	paste := &fakePaste{}
	ins := NewWithDeps(ax, fakeFocus{name: "TextEdit"}, clip, paste)

	if !ins.Insert("dictated text") {
		t.Fatal("Insert returned false")
	}
	want := []string{"dictated text", "previous"}
	if len(clip.writes) != 2 || clip.writes[0] != want[0] || clip.writes[1] != want[1] {
		t.Errorf("clipboard writes = %v, want %v", clip.writes, want)
	}
	if clip.contents != "previous" {
		t.Errorf("final clipboard = %q, want original restored", clip.contents)
	}
}

func TestFailedPasteLeavesTextOnClipboard(t *testing.T) {
	clip := &fakeClip{contents: "previous"}
	paste := &fakePaste{err: errors.New("no input permission")}
	ins := NewWithDeps(nil, fakeFocus{name: "TextEdit"}, clip, paste)

	if ins.Insert("dictated text") {
		t.Fatal("Insert returned true despite paste failure")
	}
	if clip.contents != "dictated text" {
		t.Errorf("clipboard = %q, want dictated text kept for manual paste", clip.contents)
	}
}

func TestClipboardWriteFailure(t *testing.T) {
	clip := &fakeClip{writeErr: errors.New("clipboard busy")}
	paste := &fakePaste{}
	ins := NewWithDeps(nil, nil, clip, paste)

	if ins.Insert("text") {
		t.Fatal("Insert returned true despite clipboard failure")
	}
	if paste.calls != 0 {
		t.Error("paste attempted after clipboard write failed")
	}
}
