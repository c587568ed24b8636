package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// Extract copies the time range [start, start+duration) of src into dst
// using ffmpeg stream copy, without re-encoding. start and duration are in
// seconds. dst is overwritten if it exists.
func Extract(ctx context.Context, src, dst string, start, duration float64) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", src,
		"-ss", formatSeconds(start),
		"-t", formatSeconds(duration),
		"-c", "copy",
		"-y",
		dst,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg extract %s [%s+%s]: %w: %s",
			src, formatSeconds(start), formatSeconds(duration), err, stderr.String())
	}
	return nil
}

// LookPath verifies that both ffmpeg and ffprobe are available.
func LookPath() error {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s not found in PATH: %w", bin, err)
		}
	}
	return nil
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
