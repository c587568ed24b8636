// Package transcribe defines the remote transcription boundary and its
// backend implementations.
package transcribe

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

// ErrEmptyTranscript reports that the service answered with no text. An
// empty answer is treated the same as a transport failure and is retried
// by the caller.
var ErrEmptyTranscript = errors.New("transcription service returned empty text")

// Request is one transcription call: raw audio bytes, their MIME type, and
// the instructional prompt sent alongside them.
type Request struct {
	Audio    []byte
	MIMEType string
	Prompt   string
}

// Transcriber turns one audio payload into text. Implementations are
// selected once at startup by configuration.
type Transcriber interface {
	// Transcribe performs a single remote call and returns the accumulated
	// transcript text. It never returns an empty string with a nil error.
	Transcribe(ctx context.Context, req Request) (string, error)
	// Model identifies the underlying model for the artifact header.
	Model() string
}

// DefaultPrompt asks for a complete, faithfully ordered verbatim transcript
// with annotated pauses and sound effects.
const DefaultPrompt = `請將這個音頻內容轉錄成完整的逐字稿。要求如下：

1. 請完整記錄所有對話內容，不要遺漏任何部分
2. 請盡可能準確地記錄每個人的說話內容
3. 如果有背景音樂或其他音效，請適當標註
4. 如果有停頓或語氣變化，請在括號中標註
5. 請按照時間順序整理內容
6. 輸出的格式應該是：
   - 首先是完整的文字內容
   - 然後是分段內容（如果可能的話，包括時間戳）

請確保轉錄的準確性和完整性。`

var mimeTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".webm": "audio/webm",
	".m4v":  "audio/mp4",
}

// MIMEType maps an audio file path to the transport MIME type by extension.
// Unrecognized extensions fall back to audio/mpeg.
func MIMEType(path string) string {
	if mt, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "audio/mpeg"
}
