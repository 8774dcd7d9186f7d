// Package mock provides a scripted Transcriber for running the
// pipeline without cloud credentials or an ASR server. Each call to
// Transcribe returns the next line of a simulated emergency call.
package mock

import (
	"context"
	"sync"

	"emergency-call-analysis/internal/service/stt"
)

// DefaultScript is a simulated emergency call, one line per audio
// chunk. It exercises keyword classification, the location extraction
// cascade, and the streaming location lock.
var DefaultScript = []string{
	"hello please help us",
	"there is a huge fire in the building",
	"we are near church street",
	"people are trapped inside and someone is injured",
	"the smoke is spreading very fast please hurry",
}

// Adapter implements stt.Transcriber with a fixed script. Safe for
// concurrent use; the script index advances once per Transcribe call
// and wraps around at the end.
type Adapter struct {
	mu       sync.Mutex
	script   []string
	index    int
	language string
	closed   bool
}

// New creates an adapter over the default script.
func New(language string) *Adapter {
	return NewScripted(language, DefaultScript)
}

// NewScripted creates an adapter over a custom script. An empty script
// yields empty results.
func NewScripted(language string, script []string) *Adapter {
	return &Adapter{script: script, language: language}
}

// Transcribe returns the next scripted line, ignoring the audio path.
func (a *Adapter) Transcribe(_ context.Context, _ string) (stt.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || len(a.script) == 0 {
		return stt.Result{Language: a.language}, nil
	}

	text := a.script[a.index%len(a.script)]
	a.index++
	return stt.Result{Text: text, Language: a.language}, nil
}

// Close stops the adapter; later calls return empty results.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}
