package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// EnsurePCMWAV returns a path to a 16 kHz mono 16-bit PCM WAV for the
// recording at path, transcoding through ffmpeg when the input is not
// already a WAV. The converted file is written next to the source with
// a .wav extension; an existing conversion is reused.
func EnsurePCMWAV(ctx context.Context, path string, sampleRate int) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return path, nil
	}

	converted := strings.TrimSuffix(path, filepath.Ext(path)) + ".wav"
	if _, err := os.Stat(converted); err == nil {
		return converted, nil
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", path,
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-sample_fmt", "s16",
		converted,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg convert %s: %w: %s", path, err, lastLine(out))
	}

	log.Debug().Str("source", path).Str("converted", converted).Msg("transcoded recording")
	return converted, nil
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}
