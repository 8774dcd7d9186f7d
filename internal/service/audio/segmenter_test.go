package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeTestWAV writes a mono 16-bit PCM file of the given duration.
func writeTestWAV(t *testing.T, path string, sampleRate int, duration time.Duration) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	frames := int(float64(sampleRate) * duration.Seconds())
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, frames),
	}
	for i := range buf.Data {
		buf.Data[i] = (i % 64) * 100
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestSegment_OverlappingChunks(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "call.wav")
	writeTestWAV(t, src, 8000, 6*time.Second)

	s := NewSegmenter(3*time.Second, 1500*time.Millisecond)
	chunks, err := s.Segment(src, filepath.Join(dir, "chunks"))
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}

	// Hops at 0.0, 1.5, 3.0, 4.5 seconds; the 3.0s window starting at
	// 4.5s is truncated at the end of the 6s recording.
	if len(chunks) != 4 {
		t.Fatalf("got %d chunks, want 4: %v", len(chunks), chunks)
	}
	if filepath.Base(chunks[0]) != "chunk_000.wav" || filepath.Base(chunks[3]) != "chunk_003.wav" {
		t.Errorf("chunk names = %v", chunks)
	}
}

func TestSegment_ChunkDurations(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "call.wav")
	writeTestWAV(t, src, 8000, 6*time.Second)

	s := NewSegmenter(3*time.Second, 1500*time.Millisecond)
	chunks, err := s.Segment(src, filepath.Join(dir, "chunks"))
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}

	wantFrames := []int{24000, 24000, 24000, 12000}
	for i, path := range chunks {
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		buf, err := wav.NewDecoder(f).FullPCMBuffer()
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		if len(buf.Data) != wantFrames[i] {
			t.Errorf("chunk %d frames = %d, want %d", i, len(buf.Data), wantFrames[i])
		}
	}
}

func TestSegment_ShortRecordingSingleChunk(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "short.wav")
	writeTestWAV(t, src, 8000, 1*time.Second)

	s := NewSegmenter(3*time.Second, 1500*time.Millisecond)
	chunks, err := s.Segment(src, filepath.Join(dir, "chunks"))
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
}

func TestSegment_MissingFile(t *testing.T) {
	s := NewSegmenter(0, 0)
	if _, err := s.Segment("/nonexistent/call.wav", t.TempDir()); err == nil {
		t.Error("expected error for missing recording")
	}
}

func TestNewSegmenter_Defaults(t *testing.T) {
	s := NewSegmenter(0, 0)
	if s.ChunkDuration != DefaultChunkDuration || s.HopDuration != DefaultHopDuration {
		t.Errorf("defaults = %v/%v", s.ChunkDuration, s.HopDuration)
	}
}

func TestEnsurePCMWAV_PassthroughForWAV(t *testing.T) {
	got, err := EnsurePCMWAV(context.Background(), "/calls/recording.WAV", 16000)
	if err != nil {
		t.Fatalf("EnsurePCMWAV: %v", err)
	}
	if got != "/calls/recording.WAV" {
		t.Errorf("path = %q, want passthrough", got)
	}
}

func TestEnsurePCMWAV_ReusesExistingConversion(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "call.mp3")
	converted := filepath.Join(dir, "call.wav")
	for _, p := range []string{src, converted} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := EnsurePCMWAV(context.Background(), src, 16000)
	if err != nil {
		t.Fatalf("EnsurePCMWAV: %v", err)
	}
	if got != converted {
		t.Errorf("path = %q, want %q", got, converted)
	}
}
