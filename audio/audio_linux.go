//go:build linux

package audio

import (
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

type pulseBackend struct {
	client *pulse.Client
}

func NewContext() (Context, error) {
	c, err := pulse.NewClient(pulse.ClientApplicationName("stt"))
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	return &pulseBackend{client: c}, nil
}

func (p *pulseBackend) Devices() ([]DeviceInfo, error) {
	sources, err := p.client.ListSources()
	if err != nil {
		return nil, fmt.Errorf("pulse list sources: %w", err)
	}
	devices := make([]DeviceInfo, 0, len(sources))
	for _, s := range sources {
		devices = append(devices, DeviceInfo{ID: s.ID(), Name: s.Name()})
	}
	return devices, nil
}

func (p *pulseBackend) NewCapture(device *DeviceInfo, config CaptureConfig) (CaptureDevice, error) {
	return &pulseStream{client: p.client, device: device, config: config}, nil
}

func (p *pulseBackend) Close() {
	p.client.Close()
}

type pulseStream struct {
	client   *pulse.Client
	device   *DeviceInfo
	config   CaptureConfig
	callback atomic.Pointer[DataCallback]

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// s16leBytes packs int16 samples into little-endian bytes, the layout the
// converter expects.
func s16leBytes(buf []int16) []byte {
	data := make([]byte, len(buf)*2)
	for i, s := range buf {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return data
}

func (c *pulseStream) recordOptions() []pulse.RecordOption {
	opts := []pulse.RecordOption{
		pulse.RecordMono,
		pulse.RecordSampleRate(int(c.config.SampleRate)),
		pulse.RecordLatency(0.05),
		pulse.RecordRawOption(func(r *proto.CreateRecordStream) {
			// Boost the source volume; laptop mics tend to come in quiet.
			vol := uint32(proto.VolumeNorm) * 3
			r.ChannelVolumes = proto.ChannelVolumes{vol}
		}),
	}
	if c.device != nil {
		if source, err := c.client.SourceByID(c.device.ID); err == nil && source != nil {
			opts = append(opts, pulse.RecordSource(source))
		}
	}
	return opts
}

func (c *pulseStream) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	writer := pulse.Int16Writer(func(buf []int16) (int, error) {
		if cb := c.callback.Load(); cb != nil && len(buf) > 0 {
			(*cb)(s16leBytes(buf), uint32(len(buf)))
		}
		return len(buf), nil
	})

	stream, err := c.client.NewRecord(writer, c.recordOptions()...)
	if err != nil {
		return fmt.Errorf("pulse record: %w", err)
	}
	stream.Start()

	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go func(stop, done chan struct{}) {
		defer close(done)
		<-stop
		stream.Stop()
		stream.Close()
	}(c.stop, c.done)

	return nil
}

func (c *pulseStream) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == nil {
		return
	}
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	<-c.done
}

func (c *pulseStream) Close() {
	c.Stop()
}

func (c *pulseStream) SetCallback(cb DataCallback) {
	c.callback.Store(&cb)
}

func (c *pulseStream) ClearCallback() {
	c.callback.Store(nil)
}

// Format: the record stream is opened mono at the configured rate; pulse
// resamples from the hardware rate on the server side.
func (c *pulseStream) Format() (uint32, uint32) {
	return c.config.SampleRate, 1
}

func (c *pulseStream) DeviceName() string {
	if c.device != nil {
		return c.device.Name
	}
	return "system default"
}
