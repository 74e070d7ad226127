//go:build darwin

package insert

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdlib.h>

static CFStringRef stt_cfstring(const char *s) {
	return CFStringCreateWithCString(kCFAllocatorDefault, s, kCFStringEncodingUTF8);
}

static AXError stt_copy_attr(AXUIElementRef el, CFStringRef attr, CFTypeRef *out) {
	return AXUIElementCopyAttributeValue(el, attr, out);
}

static AXError stt_set_string_attr(AXUIElementRef el, CFStringRef attr, CFStringRef value) {
	return AXUIElementSetAttributeValue(el, attr, (CFTypeRef)value);
}

// Reads AXSelectedTextRange. Returns 1 on success.
static int stt_copy_range(AXUIElementRef el, CFStringRef attr, CFRange *out) {
	CFTypeRef v = NULL;
	if (AXUIElementCopyAttributeValue(el, attr, &v) != kAXErrorSuccess || v == NULL) {
		return 0;
	}
	Boolean ok = AXValueGetValue((AXValueRef)v, kAXValueTypeCFRange, out);
	CFRelease(v);
	return ok ? 1 : 0;
}

// Copies a CFStringRef into a malloc'd UTF-8 buffer. Caller frees.
static char *stt_gostring(CFStringRef s) {
	if (s == NULL) {
		return NULL;
	}
	CFIndex length = CFStringGetLength(s);
	CFIndex max = CFStringGetMaximumSizeForEncoding(length, kCFStringEncodingUTF8) + 1;
	char *buf = malloc(max);
	if (buf == NULL) {
		return NULL;
	}
	if (!CFStringGetCString(s, buf, max, kCFStringEncodingUTF8)) {
		free(buf);
		return NULL;
	}
	return buf;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

// axInserter writes into the focused element through the macOS
// accessibility tree. Requires the process to be AX-trusted.
type axInserter struct {
	system C.AXUIElementRef
}

func newAccessibility() Accessibility {
	if C.AXIsProcessTrusted() == 0 {
		return nil
	}
	return &axInserter{system: C.AXUIElementCreateSystemWide()}
}

// Trusted reports whether the process has accessibility permission.
func Trusted() bool {
	return C.AXIsProcessTrusted() != 0
}

func cfstr(s string) C.CFStringRef {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	return C.stt_cfstring(cs)
}

func (a *axInserter) focusedElement() (C.AXUIElementRef, error) {
	attr := cfstr("AXFocusedUIElement")
	defer C.CFRelease(C.CFTypeRef(attr))

	var out C.CFTypeRef
	if err := C.stt_copy_attr(a.system, attr, &out); err != C.kAXErrorSuccess {
		return nil, fmt.Errorf("no focused element (AXError %d)", int(err))
	}
	return C.AXUIElementRef(out), nil
}

// InsertAtCursor delivers text into the focused element: replace the
// selection when the element allows it, otherwise splice into the whole
// value. With an empty selection both amount to inserting at the caret.
func (a *axInserter) InsertAtCursor(text string) error {
	el, err := a.focusedElement()
	if err != nil {
		return err
	}
	defer C.CFRelease(C.CFTypeRef(el))

	if !settable(el, "AXValue") {
		return errors.New("focused element is not a text element")
	}
	return injectText(axElement{el: el}, text)
}

// settable checks whether an attribute of the element accepts writes,
// filtering out buttons and static text before we try to type into them.
func settable(el C.AXUIElementRef, name string) bool {
	attr := cfstr(name)
	defer C.CFRelease(C.CFTypeRef(attr))

	var ok C.Boolean
	if err := C.AXUIElementIsAttributeSettable(el, attr, &ok); err != C.kAXErrorSuccess {
		return false
	}
	return ok != 0
}

// axElement adapts one focused AXUIElementRef to the textElement
// strategy. It does not own the reference.
type axElement struct {
	el C.AXUIElementRef
}

func (a axElement) SetSelectedText(text string) error {
	if !settable(a.el, "AXSelectedText") {
		return errors.New("AXSelectedText not settable")
	}
	return a.setString("AXSelectedText", text)
}

func (a axElement) Value() (string, error) {
	attr := cfstr("AXValue")
	defer C.CFRelease(C.CFTypeRef(attr))

	var out C.CFTypeRef
	if err := C.stt_copy_attr(a.el, attr, &out); err != C.kAXErrorSuccess {
		return "", fmt.Errorf("reading value failed (AXError %d)", int(err))
	}
	defer C.CFRelease(out)

	buf := C.stt_gostring(C.CFStringRef(out))
	if buf == nil {
		return "", errors.New("value is not a string")
	}
	defer C.free(unsafe.Pointer(buf))
	return C.GoString(buf), nil
}

func (a axElement) SelectedRange() (int, int, bool) {
	attr := cfstr("AXSelectedTextRange")
	defer C.CFRelease(C.CFTypeRef(attr))

	var r C.CFRange
	if C.stt_copy_range(a.el, attr, &r) == 0 {
		return 0, 0, false
	}
	return int(r.location), int(r.length), true
}

func (a axElement) SetValue(text string) error {
	return a.setString("AXValue", text)
}

func (a axElement) setString(name, text string) error {
	attr := cfstr(name)
	defer C.CFRelease(C.CFTypeRef(attr))

	value := cfstr(text)
	defer C.CFRelease(C.CFTypeRef(value))

	if err := C.stt_set_string_attr(a.el, attr, value); err != C.kAXErrorSuccess {
		return fmt.Errorf("setting %s failed (AXError %d)", name, int(err))
	}
	return nil
}
