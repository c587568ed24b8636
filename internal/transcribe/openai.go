package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultOpenAIModel is the default speech-to-text model.
const DefaultOpenAIModel = "whisper-1"

// OpenAIConfig holds configuration for the OpenAI backend.
type OpenAIConfig struct {
	APIKey string
	Model  string // defaults to DefaultOpenAIModel
}

// openAITranscriber implements Transcriber via audio.transcriptions.
type openAITranscriber struct {
	client openai.Client
	model  string
}

// NewOpenAI creates a Transcriber backed by the OpenAI transcription API.
func NewOpenAI(cfg OpenAIConfig) Transcriber {
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &openAITranscriber{
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  model,
	}
}

func (o *openAITranscriber) Model() string { return o.model }

func (o *openAITranscriber) Transcribe(ctx context.Context, req Request) (string, error) {
	// The API infers the container format from the uploaded filename.
	name := "audio" + extForMIME(req.MIMEType)

	resp, err := o.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model:       openai.AudioModel(o.model),
		File:        openai.File(bytes.NewReader(req.Audio), name, req.MIMEType),
		Prompt:      openai.String(req.Prompt),
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}

func extForMIME(mimeType string) string {
	switch mimeType {
	case "audio/wav":
		return ".wav"
	case "audio/mp4":
		return ".m4a"
	case "audio/flac":
		return ".flac"
	case "audio/aac":
		return ".aac"
	case "audio/ogg":
		return ".ogg"
	case "audio/webm":
		return ".webm"
	default:
		return ".mp3"
	}
}
