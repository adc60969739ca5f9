package runner

// FileOutcome wraps FileResult with resolved path metadata.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result contains the decorations for this file.
	// May be nil if the file encountered an error during processing.
	Result *FileResult

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files successfully processed.
	FilesProcessed int

	// FilesErrored is the number of files that could not be read or parsed.
	FilesErrored int

	// FilesWithFailures is the number of files with at least one failed block.
	FilesWithFailures int

	// BlocksTotal is the number of blocks visited across all files.
	BlocksTotal int

	// BlocksDecorated is the number of blocks that produced at least one range.
	BlocksDecorated int

	// BlocksFailed is the number of blocks whose decoration failed.
	BlocksFailed int

	// RangesTotal is the total number of ranges across all files.
	RangesTotal int

	// RangesByCategory maps category labels to range counts.
	RangesByCategory map[string]int

	// BlocksByLanguage maps languages to block counts. Blocks without a
	// language are counted under "".
	BlocksByLanguage map[string]int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Errors contains any non-file-specific errors encountered.
	Errors []error
}

// HasFailures reports whether any file or block could not be processed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || r.Stats.BlocksFailed > 0
}

// HasRanges reports whether any ranges were produced.
func (r *Result) HasRanges() bool {
	if r == nil {
		return false
	}
	return r.Stats.RangesTotal > 0
}

// newStats creates a new Stats with initialized maps.
func newStats() Stats {
	return Stats{
		RangesByCategory: make(map[string]int),
		BlocksByLanguage: make(map[string]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++

	failed := false
	for _, block := range outcome.Result.Blocks {
		r.Stats.BlocksTotal++
		r.Stats.BlocksByLanguage[block.Language]++

		if block.Err != nil {
			r.Stats.BlocksFailed++
			failed = true
			continue
		}
		if len(block.Ranges) > 0 {
			r.Stats.BlocksDecorated++
		}

		r.Stats.RangesTotal += len(block.Ranges)
		for _, rng := range block.Ranges {
			for _, label := range rng.Labels {
				r.Stats.RangesByCategory[label]++
			}
		}
	}

	if failed {
		r.Stats.FilesWithFailures++
	}
}

// NewResult builds a Result from outcomes already in the desired order.
func NewResult(outcomes ...FileOutcome) *Result {
	result := &Result{
		Files: make([]FileOutcome, 0, len(outcomes)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(outcomes)
	for _, outcome := range outcomes {
		result.accumulate(outcome)
	}
	return result
}
