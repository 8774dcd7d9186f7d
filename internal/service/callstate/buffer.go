package callstate

import "strings"

// DefaultBufferSize bounds the rolling classification window. Chunk
// classification runs over this window, not the full transcript, so
// long calls keep recent context dominant.
const DefaultBufferSize = 500

// Buffer is a rolling text window over streamed transcript chunks.
// Sized in runes so multi-byte transcripts are not cut mid-character.
type Buffer struct {
	text string
	size int
}

// NewBuffer creates a buffer keeping the last size runes. A size of
// zero or less falls back to DefaultBufferSize.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Buffer{size: size}
}

// Add appends a chunk and returns the current window. Empty chunks
// leave the window unchanged.
func (b *Buffer) Add(chunk string) string {
	chunk = strings.TrimSpace(chunk)
	if chunk != "" {
		if b.text == "" {
			b.text = chunk
		} else {
			b.text += " " + chunk
		}
		if runes := []rune(b.text); len(runes) > b.size {
			b.text = string(runes[len(runes)-b.size:])
		}
	}
	return b.text
}

// Window returns the current window without adding anything.
func (b *Buffer) Window() string {
	return b.text
}
