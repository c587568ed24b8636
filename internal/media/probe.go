// Package media wraps the external ffprobe/ffmpeg utilities used for
// duration probing and lossless segment extraction.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe returns the duration of the media file at path in seconds by
// invoking ffprobe and parsing its JSON output. Any failure (missing
// binary, non-zero exit, malformed output, absent field) yields an error;
// callers treat an unknown duration as zero and fall back to handling the
// whole file as a single segment.
func Probe(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w: %s", path, err, stderr.String())
	}

	var out probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return 0, fmt.Errorf("ffprobe %s: parse output: %w", path, err)
	}
	if out.Format.Duration == "" {
		return 0, fmt.Errorf("ffprobe %s: no format.duration in output", path)
	}
	dur, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: parse duration %q: %w", path, out.Format.Duration, err)
	}
	return dur, nil
}
