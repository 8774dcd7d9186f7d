// Package stt defines the speech-to-text boundary of the pipeline.
// Concrete backends live in subpackages; the pipeline depends only on
// the Transcriber interface.
package stt

import "context"

// Result is one transcription outcome.
type Result struct {
	// Text is the recognized transcript, possibly empty for silence.
	Text string
	// Language is the BCP-47 tag reported or assumed by the backend.
	Language string
}

// Transcriber converts a recorded audio file into text.
type Transcriber interface {
	// Transcribe recognizes the audio file at the given path. An empty
	// Result with a nil error means the backend heard nothing usable.
	Transcribe(ctx context.Context, audioPath string) (Result, error)

	// Close releases backend resources.
	Close() error
}
