//go:build !linux

package audio

import (
	"encoding/hex"
	"fmt"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

type malgoBackend struct {
	ctx *malgo.AllocatedContext
}

func NewContext() (Context, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, err
	}
	return &malgoBackend{ctx: ctx}, nil
}

func (m *malgoBackend) Devices() ([]DeviceInfo, error) {
	infos, err := m.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("malgo devices: %w", err)
	}
	result := make([]DeviceInfo, 0, len(infos))
	for _, d := range infos {
		result = append(result, DeviceInfo{
			ID:   hex.EncodeToString(d.ID.Pointer()[:]),
			Name: d.Name(),
		})
	}
	return result, nil
}

// deviceConfig builds the miniaudio capture config; an S16 stream at the
// requested rate, pinned to the chosen device when one was picked.
func deviceConfig(device *DeviceInfo, config CaptureConfig) (malgo.DeviceConfig, error) {
	dc := malgo.DefaultDeviceConfig(malgo.Capture)
	dc.Capture.Format = malgo.FormatS16
	dc.Capture.Channels = config.Channels
	dc.SampleRate = config.SampleRate

	if device != nil {
		idBytes, err := hex.DecodeString(device.ID)
		if err != nil {
			return dc, fmt.Errorf("invalid device ID: %w", err)
		}
		var devID malgo.DeviceID
		copy(devID[:], idBytes)
		dc.Capture.DeviceID = devID.Pointer()
	}
	return dc, nil
}

func (m *malgoBackend) NewCapture(device *DeviceInfo, config CaptureConfig) (CaptureDevice, error) {
	c := &malgoStream{config: config}
	if device != nil {
		c.name = device.Name
	}

	dc, err := deviceConfig(device, config)
	if err != nil {
		return nil, err
	}

	dev, err := malgo.InitDevice(m.ctx.Context, dc, malgo.DeviceCallbacks{
		Data: func(_, data []byte, frameCount uint32) {
			if cb := c.callback.Load(); cb != nil {
				(*cb)(data, frameCount)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	c.device = dev
	return c, nil
}

func (m *malgoBackend) Close() {
	m.ctx.Uninit()
	m.ctx.Free()
}

type malgoStream struct {
	device   *malgo.Device
	config   CaptureConfig
	name     string
	callback atomic.Pointer[DataCallback]
}

func (c *malgoStream) Start() error {
	return c.device.Start()
}

func (c *malgoStream) Stop() {
	c.device.Stop()
}

func (c *malgoStream) Close() {
	c.device.Uninit()
}

func (c *malgoStream) SetCallback(cb DataCallback) {
	c.callback.Store(&cb)
}

func (c *malgoStream) ClearCallback() {
	c.callback.Store(nil)
}

// Format reports the format miniaudio was configured to deliver; miniaudio
// converts from the hardware rate internally.
func (c *malgoStream) Format() (uint32, uint32) {
	return c.config.SampleRate, c.config.Channels
}

func (c *malgoStream) DeviceName() string {
	if c.name != "" {
		return c.name
	}
	return "system default"
}
