package reporter

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/codedeco/pkg/decorate"
	"github.com/yaklabco/codedeco/pkg/runner"
)

// jsonVersion is bumped when the JSON layout changes incompatibly.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path   string      `json:"path"`
	Hash   string      `json:"hash,omitempty"`
	Blocks []JSONBlock `json:"blocks"`
	Error  string      `json:"error,omitempty"`
}

// JSONBlock represents the ranges of one block.
type JSONBlock struct {
	Key      string      `json:"key"`
	Type     string      `json:"type"`
	Language string      `json:"language,omitempty"`
	Line     int         `json:"line"`
	Ranges   []JSONRange `json:"ranges"`
	Error    string      `json:"error,omitempty"`
}

// JSONRange represents a single range.
type JSONRange struct {
	AnchorKey    string   `json:"anchorKey"`
	AnchorOffset int      `json:"anchorOffset"`
	FocusKey     string   `json:"focusKey"`
	FocusOffset  int      `json:"focusOffset"`
	Labels       []string `json:"labels"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesProcessed   int            `json:"filesProcessed"`
	FilesErrored     int            `json:"filesErrored"`
	BlocksTotal      int            `json:"blocksTotal"`
	BlocksDecorated  int            `json:"blocksDecorated"`
	BlocksFailed     int            `json:"blocksFailed"`
	RangesTotal      int            `json:"rangesTotal"`
	RangesByCategory map[string]int `json:"rangesByCategory"`
	BlocksByLanguage map[string]int `json:"blocksByLanguage"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.RangesTotal, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			RangesByCategory: make(map[string]int),
			BlocksByLanguage: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesProcessed:   stats.FilesProcessed,
		FilesErrored:     stats.FilesErrored,
		BlocksTotal:      stats.BlocksTotal,
		BlocksDecorated:  stats.BlocksDecorated,
		BlocksFailed:     stats.BlocksFailed,
		RangesTotal:      stats.RangesTotal,
		RangesByCategory: nonNil(stats.RangesByCategory),
		BlocksByLanguage: nonNil(stats.BlocksByLanguage),
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:   displayPath(file.Path, r.opts.WorkingDir),
			Blocks: make([]JSONBlock, 0),
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}

		if file.Result != nil {
			if file.Result.Info != nil {
				fileResult.Hash = hex.EncodeToString(file.Result.Info.Hash[:])
			}
			for _, block := range file.Result.Blocks {
				fileResult.Blocks = append(fileResult.Blocks, buildJSONBlock(block))
			}
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}

func nonNil(m map[string]int) map[string]int {
	if m == nil {
		return make(map[string]int)
	}
	return m
}

func buildJSONBlock(bd decorate.BlockDecorations) JSONBlock {
	block := JSONBlock{
		Language: bd.Language,
		Line:     blockLine(bd.Block),
		Ranges:   make([]JSONRange, 0, len(bd.Ranges)),
	}
	if bd.Block != nil {
		block.Key = bd.Block.Key.String()
		block.Type = bd.Block.Type
	}
	if bd.Err != nil {
		block.Error = bd.Err.Error()
	}

	for _, rng := range bd.Ranges {
		labels := rng.Labels
		if labels == nil {
			labels = []string{}
		}
		block.Ranges = append(block.Ranges, JSONRange{
			AnchorKey:    rng.Anchor.Key.String(),
			AnchorOffset: rng.Anchor.Offset,
			FocusKey:     rng.Focus.Key.String(),
			FocusOffset:  rng.Focus.Offset,
			Labels:       labels,
		})
	}
	return block
}
