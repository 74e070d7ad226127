package audio

import (
	"encoding/binary"
	"fmt"
)

// Converter turns S16LE interleaved hardware chunks into mono float32 at the
// target rate. It keeps the last source sample across calls so linear
// interpolation can straddle chunk boundaries.
type Converter struct {
	srcRate     uint32
	srcChannels uint32

	pos    float64
	prev   float32
	primed bool
}

func NewConverter(srcRate, srcChannels uint32) (*Converter, error) {
	if srcRate == 0 {
		return nil, fmt.Errorf("invalid hardware format: sample rate %d", srcRate)
	}
	if srcChannels == 0 {
		return nil, fmt.Errorf("invalid hardware format: channel count %d", srcChannels)
	}
	return &Converter{srcRate: srcRate, srcChannels: srcChannels}, nil
}

// Convert processes one hardware chunk and returns the converted samples.
// Partial trailing frames are dropped.
func (c *Converter) Convert(data []byte) []float32 {
	frames := len(data) / 2 / int(c.srcChannels)
	if frames == 0 {
		return nil
	}

	mono := make([]float32, frames)
	ch := int(c.srcChannels)
	for i := 0; i < frames; i++ {
		var sum float32
		for j := 0; j < ch; j++ {
			s := int16(binary.LittleEndian.Uint16(data[(i*ch+j)*2:]))
			sum += float32(s) / 32768.0
		}
		mono[i] = sum / float32(ch)
	}

	if c.srcRate == SampleRate {
		return mono
	}
	return c.resample(mono)
}

func (c *Converter) resample(mono []float32) []float32 {
	src := mono
	if c.primed {
		src = make([]float32, 0, len(mono)+1)
		src = append(src, c.prev)
		src = append(src, mono...)
	} else {
		c.primed = true
	}

	step := float64(c.srcRate) / float64(SampleRate)
	out := make([]float32, 0, int(float64(len(src))/step)+1)
	pos := c.pos
	for int(pos)+1 < len(src) {
		i := int(pos)
		f := float32(pos - float64(i))
		out = append(out, src[i]+(src[i+1]-src[i])*f)
		pos += step
	}
	c.pos = pos - float64(len(src)-1)
	c.prev = src[len(src)-1]
	return out
}
