package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/codedeco/internal/logging"
)

// Runner orchestrates multi-file decoration using a Pipeline.
type Runner struct {
	// Pipeline handles per-file processing.
	Pipeline *Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and processes them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
//
// The runner:
//   - Discovers files matching the options criteria
//   - Processes files concurrently using a worker pool, one document per worker
//   - Aggregates results into a single Result with statistics
//   - Respects context cancellation
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.RunFiles(ctx, files, opts.Jobs)
}

// RunFiles processes an explicit list of files, skipping discovery.
// Outcomes keep the order of files.
func (r *Runner) RunFiles(ctx context.Context, files []string, jobs int) (*Result, error) {
	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	// Don't use more workers than files.
	if jobs > len(files) {
		jobs = len(files)
	}

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers may complete out of order.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// worker processes files from workCh and sends outcomes to outCh.
func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := FileOutcome{Path: path}
		fileCtx := logging.WithFields(ctx, logging.FieldPath, path)
		logger := logging.FromContext(fileCtx)

		fr, err := r.Pipeline.ProcessFile(fileCtx, path)
		if err != nil {
			outcome.Error = err
			logger.Debug("file failed", logging.FieldError, err)
		} else {
			outcome.Result = fr
			logger.Debug("file decorated",
				logging.FieldBlocks, len(fr.Blocks),
				logging.FieldRanges, fr.RangeCount(),
			)
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}
