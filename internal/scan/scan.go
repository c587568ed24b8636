// Package scan discovers candidate audio files under a root directory and
// decides which of them still need a transcript.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TranscriptExt is the extension of the persisted transcript artifact.
const TranscriptExt = ".txt"

// audioExts is the supported audio extension allow-list, lower-case.
var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".flac": true,
	".aac":  true,
	".ogg":  true,
	".webm": true,
	".m4v":  true,
}

// SupportedExts returns the supported extensions in a stable order.
func SupportedExts() []string {
	return []string{".mp3", ".wav", ".m4a", ".flac", ".aac", ".ogg", ".webm", ".m4v"}
}

// IsAudioFile reports whether name has a supported audio extension and is
// not a hidden file.
func IsAudioFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return audioExts[strings.ToLower(filepath.Ext(base))]
}

// TranscriptPath derives the transcript artifact path for an audio file by
// replacing its extension. The artifact is colocated with the audio file.
func TranscriptPath(audioPath string) string {
	return strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + TranscriptExt
}

// NeedsTranscription reports whether no transcript artifact exists yet for
// audioPath. Artifact existence is the sole idempotency signal.
func NeedsTranscription(audioPath string) bool {
	_, err := os.Stat(TranscriptPath(audioPath))
	return err != nil
}

// Result is the outcome of scanning a directory tree.
type Result struct {
	// Files is every discovered audio file, in walk order.
	Files []string
	// Errors holds the paths that could not be read during the walk.
	Errors []error
}

// Pending returns the subset of discovered files without a transcript.
func (r Result) Pending() []string {
	var pending []string
	for _, f := range r.Files {
		if NeedsTranscription(f) {
			pending = append(pending, f)
		}
	}
	return pending
}

// Transcribed returns the count of discovered files that already have a
// transcript artifact.
func (r Result) Transcribed() int {
	n := 0
	for _, f := range r.Files {
		if !NeedsTranscription(f) {
			n++
		}
	}
	return n
}

// Walk recursively enumerates root for supported audio files. Unreadable
// entries are collected in Result.Errors and skipped; the walk itself never
// fails.
func Walk(root string) Result {
	var res Result
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			res.Errors = append(res.Errors, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			// Hidden directories are skipped along with their contents,
			// except the root itself.
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if IsAudioFile(path) {
			res.Files = append(res.Files, path)
		}
		return nil
	})
	return res
}
