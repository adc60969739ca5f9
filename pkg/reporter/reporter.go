// Package reporter renders decoration results as text, JSON, painted
// terminal output or aggregate summaries.
package reporter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/codedeco/pkg/decorate"
	"github.com/yaklabco/codedeco/pkg/document"
	"github.com/yaklabco/codedeco/pkg/runner"
)

// Reporter formats and writes decoration results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of ranges reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatANSI:
		return NewANSIReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// displayPath makes path relative to workDir when it lies beneath it.
func displayPath(path, workDir string) string {
	if workDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || !filepath.IsLocal(rel) {
		return path
	}
	return rel
}

// blockLine returns the 1-based source line of the block.
func blockLine(block *document.Node) int {
	if block == nil {
		return 0
	}
	return block.DataInt(document.DataStartLine)
}

// pointLine returns the source line of a point: the block's first line
// plus the index of the text node the point falls in. This is exact for
// code blocks, whose text nodes are one per line.
func pointLine(bd decorate.BlockDecorations, p decorate.Point) int {
	line := blockLine(bd.Block)
	if idx := bd.Flat.Index(p.Key); idx > 0 {
		line += idx
	}
	return line
}
