package main

import (
	"strings"
	"testing"

	"github.com/mfaizanshaikh/ondevice-speech-to-text/controller"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/engine"
	"github.com/mfaizanshaikh/ondevice-speech-to-text/model"
)

func apply(t *testing.T, m tuiModel, msg interface{}) tuiModel {
	t.Helper()
	upd, _ := m.Update(msg)
	next, ok := upd.(tuiModel)
	if !ok {
		t.Fatalf("Update returned %T", upd)
	}
	return next
}

func TestRecordingClearsPreviousResult(t *testing.T) {
	m := tuiModel{modelState: model.State{Phase: model.Ready}}
	m = apply(t, m, TranscriptionMsg{Text: "first take", Inserted: true})

	if !m.haveResult || m.lastText != "first take" {
		t.Fatalf("result not recorded: haveResult=%v lastText=%q", m.haveResult, m.lastText)
	}

	m = apply(t, m, StateMsg{State: controller.Recording})

	if m.haveResult || m.lastText != "" {
		t.Errorf("previous result survived into recording: haveResult=%v lastText=%q",
			m.haveResult, m.lastText)
	}
	if strings.Contains(m.View(), "first take") {
		t.Error("previous transcription still rendered while recording")
	}
}

func TestRecordingClearsEmptyReason(t *testing.T) {
	m := tuiModel{modelState: model.State{Phase: model.Ready}}
	m = apply(t, m, TranscriptionMsg{Reason: engine.ReasonNoSpeech, TooShort: true})
	m = apply(t, m, StateMsg{State: controller.Recording})

	if m.lastReason != engine.ReasonNone || m.tooShort {
		t.Errorf("stale empty-result flags: reason=%v tooShort=%v", m.lastReason, m.tooShort)
	}
}
