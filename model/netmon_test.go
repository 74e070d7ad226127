package model

import "testing"

func TestNetMonitorInitialProbe(t *testing.T) {
	m := newNetMonitor(func() bool { return true })
	defer m.Close()
	if !m.Online() {
		t.Error("expected online after successful probe")
	}

	off := newNetMonitor(func() bool { return false })
	defer off.Close()
	if off.Online() {
		t.Error("expected offline after failed probe")
	}
}

func TestNetMonitorCloseIdempotent(t *testing.T) {
	m := newNetMonitor(func() bool { return true })
	m.Close()
	m.Close() // should not panic
}
