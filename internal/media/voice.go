package media

import (
	"context"
	"io"
)

// Transcriber converts recorded speech to text
type Transcriber interface {
	// Name identifies the transcription backend
	Name() string

	// Transcribe reads audio and returns the recognized text
	Transcribe(ctx context.Context, audio io.Reader, contentType string) (string, error)
}

// Synthesizer converts reply text to speech
type Synthesizer interface {
	// Name identifies the synthesis backend
	Name() string

	// Synthesize renders text as audio and returns the bytes with their MIME type
	Synthesize(ctx context.Context, text string) ([]byte, string, error)
}
