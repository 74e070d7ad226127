package model

import (
	"net"
	"sync"
	"sync/atomic"
	"time"
)

const (
	probeAddr     = "1.1.1.1:443"
	probeTimeout  = 2 * time.Second
	probeInterval = 5 * time.Second
)

// NetMonitor keeps a background connectivity probe running and publishes the
// result as a boolean. The Manager consults it synchronously before starting
// a download.
type NetMonitor struct {
	probe  func() bool
	online atomic.Bool

	stop      chan struct{}
	closeOnce sync.Once
}

func NewNetMonitor() *NetMonitor {
	return newNetMonitor(func() bool {
		conn, err := net.DialTimeout("tcp", probeAddr, probeTimeout)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	})
}

func newNetMonitor(probe func() bool) *NetMonitor {
	m := &NetMonitor{probe: probe, stop: make(chan struct{})}
	m.online.Store(probe())
	go m.run()
	return m
}

func (m *NetMonitor) run() {
	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.online.Store(m.probe())
		}
	}
}

// Online reports the most recent probe result.
func (m *NetMonitor) Online() bool {
	return m.online.Load()
}

func (m *NetMonitor) Close() {
	m.closeOnce.Do(func() { close(m.stop) })
}
