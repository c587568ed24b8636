package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/DDChen666/epic-downloader---transcriber/internal/config"
	"github.com/DDChen666/epic-downloader---transcriber/internal/logging"
	"github.com/DDChen666/epic-downloader---transcriber/internal/media"
	"github.com/DDChen666/epic-downloader---transcriber/internal/pipeline"
	"github.com/DDChen666/epic-downloader---transcriber/internal/scan"
	"github.com/DDChen666/epic-downloader---transcriber/internal/transcribe"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configFile string
		rootDir    string
		backend    string
		model      string
		threshold  float64
		workers    int
		logLevel   string
	)

	flag.StringVar(&configFile, "config", "", "Optional config file (yaml)")
	flag.StringVar(&rootDir, "dir", "", "Audio directory to scan (-d)")
	flag.StringVar(&rootDir, "d", "", "Audio directory to scan")
	flag.StringVar(&backend, "backend", "", "Transcription backend: gemini|openai")
	flag.StringVar(&model, "model", "", "Model name override (backend-specific)")
	flag.Float64Var(&threshold, "threshold", 0, "Max segment duration in seconds before splitting")
	flag.IntVar(&workers, "workers", 0, "Concurrent segment transcriptions per file")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}

	// Flags take precedence over config file and environment.
	if rootDir != "" {
		cfg.RootDir = rootDir
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if model != "" {
		cfg.Model = model
	}
	if threshold > 0 {
		cfg.Threshold = threshold
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log, logCloser, err := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		return 2
	}
	if logCloser != nil {
		defer logCloser.Close()
	}
	log = log.With().Str("run_id", uuid.NewString()).Logger()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("configuration check failed")
		return 1
	}
	if err := media.LookPath(); err != nil {
		log.Error().Err(err).Msg("media utilities unavailable")
		return 1
	}

	var tr transcribe.Transcriber
	switch cfg.Backend {
	case "gemini":
		tr = transcribe.NewGemini(transcribe.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.Model,
			BaseURL: cfg.GeminiBaseURL,
		})
	case "openai":
		tr = transcribe.NewOpenAI(transcribe.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.Model,
		})
	}

	res := scan.Walk(cfg.RootDir)
	for _, werr := range res.Errors {
		log.Warn().Err(werr).Msg("scan error, entry skipped")
	}
	pending := res.Pending()

	log.Info().
		Str("dir", cfg.RootDir).
		Int("audio_files", len(res.Files)).
		Int("transcribed", res.Transcribed()).
		Int("pending", len(pending)).
		Str("backend", cfg.Backend).
		Str("model", tr.Model()).
		Float64("threshold", cfg.Threshold).
		Msg("scan complete")

	if len(pending) == 0 {
		log.Info().Msg("nothing to transcribe")
		return 0
	}

	// An interrupt stops enqueueing further files; the file in progress
	// finishes naturally.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(pipeline.Config{
		Threshold:   cfg.Threshold,
		Workers:     cfg.Workers,
		Transcriber: tr,
		Log:         log,
	})

	start := time.Now()
	sum := p.Run(ctx, pending)

	log.Info().
		Int("transcribed", sum.Transcribed).
		Int("skipped", sum.Skipped).
		Int("failed", sum.Failed).
		Dur("elapsed", time.Since(start).Truncate(time.Second)).
		Msg("run complete")

	if sum.Failed > 0 {
		return 1
	}
	return 0
}
