// Package pipeline implements the segmented parallel transcription
// pipeline: planning, extraction, bounded concurrent transcription,
// offset-ordered merging, and artifact writing.
package pipeline

import (
	"fmt"
	"math"
	"path/filepath"
)

// DefaultThreshold is the maximum segment duration in seconds before a
// file is split.
const DefaultThreshold = 1800.0

// AudioFile is a discovered audio file with its probed duration in
// seconds. A zero duration means the duration is unknown.
type AudioFile struct {
	Path     string
	Duration float64
}

// Segment is one bounded time-range slice of an AudioFile, the unit of
// independent transcription work.
type Segment struct {
	// Index is the 1-based sequence index, 1 + floor(start/threshold).
	Index int
	// Start and End are offsets into the source file in seconds.
	Start float64
	End   float64
	// Path is the file holding this segment's audio. For an unsplit file
	// it is the source itself; otherwise a sub-file to be materialized by
	// extraction.
	Path string
	// Extracted marks segments whose Path is a pipeline-owned sub-file.
	Extracted bool
}

// Plan partitions file into contiguous, gapless segments of at most
// threshold seconds. Files no longer than the threshold (including files
// with unknown duration) map to a single segment over the original file
// with no extraction.
func Plan(file AudioFile, threshold float64) []Segment {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if file.Duration <= threshold {
		return []Segment{{
			Index: 1,
			Start: 0,
			End:   file.Duration,
			Path:  file.Path,
		}}
	}

	var segments []Segment
	for current := 0.0; current < file.Duration; {
		end := math.Min(current+threshold, file.Duration)
		index := 1 + int(current/threshold)
		segments = append(segments, Segment{
			Index:     index,
			Start:     current,
			End:       end,
			Path:      segmentPath(file.Path, index),
			Extracted: true,
		})
		current = end
	}
	return segments
}

// segmentPath names an extracted sub-file by zero-padded index plus the
// source extension, beside the source file.
func segmentPath(src string, index int) string {
	ext := filepath.Ext(src)
	return filepath.Join(filepath.Dir(src), fmt.Sprintf("%03d%s", index, ext))
}
