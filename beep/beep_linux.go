//go:build linux

package beep

import (
	"github.com/jfreymuth/pulse"
)

func play(samples []float32) {
	c, err := pulse.NewClient(pulse.ClientApplicationName("stt"))
	if err != nil {
		return
	}
	defer c.Close()

	pos := 0
	reader := pulse.Float32Reader(func(buf []float32) (int, error) {
		if pos >= len(samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, samples[pos:])
		pos += n
		return n, nil
	})
	stream, err := c.NewPlayback(reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(playbackRate),
		pulse.PlaybackLatency(0.1),
	)
	if err != nil {
		return
	}
	stream.Start()
	stream.Drain()
	stream.Close()
}
