package pipeline

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/DDChen666/epic-downloader---transcriber/internal/media"
	"github.com/DDChen666/epic-downloader---transcriber/internal/output"
	"github.com/DDChen666/epic-downloader---transcriber/internal/resilience"
	"github.com/DDChen666/epic-downloader---transcriber/internal/scan"
	"github.com/DDChen666/epic-downloader---transcriber/internal/transcribe"
)

const (
	// DefaultWorkers bounds how many segment transcriptions of one file's
	// batch are in flight at once.
	DefaultWorkers = 5
	// DefaultMaxAttempts is the per-segment remote call attempt limit.
	DefaultMaxAttempts = 3
	// DefaultRetryBase is multiplied by the attempt number between retries.
	DefaultRetryBase = 2 * time.Second
)

// Prober measures a media file's duration in seconds.
type Prober func(ctx context.Context, path string) (float64, error)

// Extractor materializes a time range of src as a standalone file at dst.
type Extractor func(ctx context.Context, src, dst string, start, duration float64) error

// Config configures a Pipeline.
type Config struct {
	Threshold   float64 // max segment duration in seconds
	Workers     int
	MaxAttempts int
	RetryBase   time.Duration
	Prompt      string
	Transcriber transcribe.Transcriber
	Probe       Prober    // defaults to media.Probe
	Extract     Extractor // defaults to media.Extract
	Log         zerolog.Logger
}

// Pipeline processes audio files one at a time, fanning out each file's
// segment batch to a bounded pool of transcription workers.
type Pipeline struct {
	cfg Config
}

// New creates a Pipeline, applying defaults for unset config fields.
func New(cfg Config) *Pipeline {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = DefaultRetryBase
	}
	if cfg.Prompt == "" {
		cfg.Prompt = transcribe.DefaultPrompt
	}
	if cfg.Probe == nil {
		cfg.Probe = media.Probe
	}
	if cfg.Extract == nil {
		cfg.Extract = media.Extract
	}
	return &Pipeline{cfg: cfg}
}

// FileStatus is the per-file outcome reported to the caller.
type FileStatus int

const (
	StatusSkipped FileStatus = iota
	StatusSucceeded
	StatusFailed
)

// Summary is the aggregate outcome of one run.
type Summary struct {
	Transcribed int
	Skipped     int
	Failed      int
}

// Run processes files strictly in sequence. A canceled context stops the
// loop before the next file; it does not abort the file in progress, whose
// in-flight segment calls finish or fail naturally.
func (p *Pipeline) Run(ctx context.Context, files []string) Summary {
	var sum Summary
	for _, f := range files {
		if ctx.Err() != nil {
			p.cfg.Log.Warn().Int("remaining", len(files)-sum.Transcribed-sum.Skipped-sum.Failed).
				Msg("interrupted, not starting further files")
			break
		}
		switch p.ProcessFile(context.WithoutCancel(ctx), f) {
		case StatusSkipped:
			sum.Skipped++
		case StatusSucceeded:
			sum.Transcribed++
		case StatusFailed:
			sum.Failed++
		}
	}
	return sum
}

// ProcessFile runs the full pipeline for one audio file: probe, plan,
// extract, transcribe concurrently, merge, write, clean up.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) FileStatus {
	log := p.cfg.Log.With().Str("path", path).Logger()

	if !scan.NeedsTranscription(path) {
		log.Info().Msg("transcript exists, skipping")
		return StatusSkipped
	}

	duration, err := p.cfg.Probe(ctx, path)
	if err != nil {
		log.Warn().Err(err).Msg("duration unknown, handling file as a single segment")
		duration = 0
	}

	file := AudioFile{Path: path, Duration: duration}
	plan := Plan(file, p.cfg.Threshold)
	if len(plan) > 1 {
		log.Info().Int("segments", len(plan)).Float64("duration", duration).Msg("splitting audio")
	}

	batch := p.extractSegments(ctx, file, plan, log)
	if len(batch) == 0 {
		log.Error().Msg("no segments available for transcription")
		return StatusFailed
	}

	results := p.transcribeBatch(ctx, batch, log)

	merged := Merge(results)
	if merged.Text == "" {
		// Extracted sub-files are intentionally retained for inspection.
		log.Error().Int("segments", len(batch)).Msg("every segment failed to transcribe")
		return StatusFailed
	}

	blocks := make([]output.Block, 0, len(merged.Results))
	for _, r := range merged.Results {
		blocks = append(blocks, output.Block{
			Index: r.Segment.Index,
			Start: r.Segment.Start,
			End:   r.Segment.End,
			Text:  r.Text,
		})
	}
	content := output.Render(output.Meta{
		Source:       path,
		Model:        p.cfg.Transcriber.Model(),
		Generated:    time.Now(),
		SegmentCount: len(merged.Results),
	}, merged.Text, blocks)

	artifact := scan.TranscriptPath(path)
	if err := output.WriteFile(artifact, content); err != nil {
		log.Error().Err(err).Str("artifact", artifact).Msg("writing transcript failed")
		return StatusFailed
	}
	log.Info().Str("artifact", artifact).Int("segments", len(merged.Results)).Msg("transcript written")

	p.cleanup(plan, log)
	return StatusSucceeded
}

// extractSegments materializes every segment that needs extraction. A
// failed extraction drops that segment from the batch; its siblings are
// unaffected.
func (p *Pipeline) extractSegments(ctx context.Context, file AudioFile, plan []Segment, log zerolog.Logger) []Segment {
	batch := make([]Segment, 0, len(plan))
	for _, seg := range plan {
		if !seg.Extracted {
			batch = append(batch, seg)
			continue
		}
		if err := p.cfg.Extract(ctx, file.Path, seg.Path, seg.Start, seg.End-seg.Start); err != nil {
			log.Error().Err(err).Int("segment", seg.Index).Msg("segment extraction failed, dropping")
			continue
		}
		batch = append(batch, seg)
	}
	return batch
}

// transcribeBatch fans the batch out to a bounded worker pool and collects
// whatever results come back. Dispatch and completion order are immaterial;
// ordering is restored by Merge.
func (p *Pipeline) transcribeBatch(ctx context.Context, batch []Segment, log zerolog.Logger) []Result {
	workers := p.cfg.Workers
	if workers > len(batch) {
		workers = len(batch)
	}

	jobs := make(chan Segment)
	out := make(chan Result, len(batch))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seg := range jobs {
				if res, ok := p.transcribeSegment(ctx, seg, log); ok {
					out <- res
				}
			}
		}()
	}

	for _, seg := range batch {
		jobs <- seg
	}
	close(jobs)
	wg.Wait()
	close(out)

	results := make([]Result, 0, len(batch))
	for r := range out {
		results = append(results, r)
	}
	return results
}

// transcribeSegment performs one segment's remote call with retry. It
// reports ok=false when the call ultimately fails; there is no sentinel
// result for failure.
func (p *Pipeline) transcribeSegment(ctx context.Context, seg Segment, log zerolog.Logger) (Result, bool) {
	slog := log.With().
		Int("segment", seg.Index).
		Float64("start", seg.Start).
		Float64("end", seg.End).
		Logger()
	slog.Info().Msg("transcribing segment")

	audio, err := os.ReadFile(seg.Path)
	if err != nil {
		slog.Error().Err(err).Msg("reading segment audio failed")
		return Result{}, false
	}

	req := transcribe.Request{
		Audio:    audio,
		MIMEType: transcribe.MIMEType(seg.Path),
		Prompt:   p.cfg.Prompt,
	}

	text, err := resilience.Retry(ctx, resilience.RetryConfig{
		MaxAttempts: p.cfg.MaxAttempts,
		BaseDelay:   p.cfg.RetryBase,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			slog.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("transcription attempt failed, retrying")
		},
	}, func() (string, error) {
		return p.cfg.Transcriber.Transcribe(ctx, req)
	})
	if err != nil {
		slog.Error().Err(err).Int("attempts", p.cfg.MaxAttempts).Msg("segment transcription failed")
		return Result{}, false
	}

	slog.Info().Msg("segment transcribed")
	return Result{Segment: seg, Text: text, CompletedAt: time.Now()}, true
}

// cleanup removes every extractor-produced sub-file of the plan. It is
// idempotent and never touches the original audio file.
func (p *Pipeline) cleanup(plan []Segment, log zerolog.Logger) {
	for _, seg := range plan {
		if !seg.Extracted {
			continue
		}
		if err := os.Remove(seg.Path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("segment_file", seg.Path).Msg("removing segment file failed")
		}
	}
}
