// Package audio prepares call recordings for streamed analysis:
// container conversion and fixed-window segmentation.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/rs/zerolog/log"
)

// Default segmentation geometry. Overlapping windows keep words that
// straddle a chunk boundary recognizable in at least one chunk.
const (
	DefaultChunkDuration = 3 * time.Second
	DefaultHopDuration   = 1500 * time.Millisecond
)

// Segmenter slices a PCM WAV recording into overlapping chunks.
type Segmenter struct {
	ChunkDuration time.Duration
	HopDuration   time.Duration
}

// NewSegmenter builds a segmenter, substituting defaults for
// non-positive durations.
func NewSegmenter(chunk, hop time.Duration) *Segmenter {
	if chunk <= 0 {
		chunk = DefaultChunkDuration
	}
	if hop <= 0 {
		hop = DefaultHopDuration
	}
	return &Segmenter{ChunkDuration: chunk, HopDuration: hop}
}

// Segment decodes the WAV at path and writes chunk files named
// chunk_000.wav, chunk_001.wav, ... into outDir, returning their paths
// in order. The final window may be shorter than ChunkDuration; windows
// that would start past the end of the recording are not emitted.
func (s *Segmenter) Segment(path, outDir string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("wav %s: missing format", path)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create chunk dir: %w", err)
	}

	sampleRate := buf.Format.SampleRate
	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	chunkFrames := int(float64(sampleRate) * s.ChunkDuration.Seconds())
	hopFrames := int(float64(sampleRate) * s.HopDuration.Seconds())
	if chunkFrames <= 0 || hopFrames <= 0 {
		return nil, fmt.Errorf("segmenter: chunk %v hop %v too small for rate %d", s.ChunkDuration, s.HopDuration, sampleRate)
	}

	var paths []string
	for start := 0; start < frames; start += hopFrames {
		end := start + chunkFrames
		if end > frames {
			end = frames
		}

		chunkPath := filepath.Join(outDir, fmt.Sprintf("chunk_%03d.wav", len(paths)))
		window := &goaudio.IntBuffer{
			Format:         buf.Format,
			SourceBitDepth: int(dec.BitDepth),
			Data:           buf.Data[start*channels : end*channels],
		}
		if err := writeChunk(chunkPath, window, int(dec.BitDepth), int(dec.WavAudioFormat)); err != nil {
			return nil, err
		}
		paths = append(paths, chunkPath)
	}

	log.Debug().Str("path", path).Int("chunks", len(paths)).
		Dur("chunk", s.ChunkDuration).Dur("hop", s.HopDuration).
		Msg("segmented recording")
	return paths, nil
}

func writeChunk(path string, buf *goaudio.IntBuffer, bitDepth, wavFormat int) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chunk: %w", err)
	}
	defer out.Close()

	enc := wav.NewEncoder(out, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, wavFormat)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write chunk %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize chunk %s: %w", path, err)
	}
	return nil
}
