package engine

import (
	"context"
	"fmt"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// whisperModel backs Model with the whisper.cpp bindings. A fresh decoding
// context is created per call so no prompt or cache state leaks between
// transcriptions.
type whisperModel struct {
	model whisper.Model
}

// LoadWhisper loads a ggml model file from disk.
func LoadWhisper(ctx context.Context, path string) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := whisper.New(path)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return &whisperModel{model: m}, nil
}

func (m *whisperModel) Transcribe(ctx context.Context, samples []float32, language string) ([]Segment, error) {
	wctx, err := m.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("model context: %w", err)
	}

	if language == "" {
		language = "auto"
	}
	if err := wctx.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("set language %q: %w", language, err)
	}
	wctx.SetTranslate(false)

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}

	var segments []Segment
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seg, err := wctx.NextSegment()
		if err != nil {
			break
		}
		segments = append(segments, Segment{
			Text:  seg.Text,
			Start: seg.Start,
			End:   seg.End,
		})
	}
	return segments, nil
}

func (m *whisperModel) Close() error {
	return m.model.Close()
}
