package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/codedeco/internal/ui/pretty"
	"github.com/yaklabco/codedeco/pkg/runner"
)

// TextReporter writes one line per range: path:line anchor..focus labels.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled, opts.Styles),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to decorate."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}
		if file.Result == nil {
			continue
		}

		count := file.Result.RangeCount()
		if count == 0 && file.Result.FailedBlocks() == 0 {
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, count))
		for _, block := range file.Result.Blocks {
			if block.Err != nil {
				fmt.Fprint(r.bw, r.styles.FormatBlockError(path, blockLine(block.Block), block.Language, block.Err))
				continue
			}
			for _, rng := range block.Ranges {
				fmt.Fprint(r.bw, r.styles.FormatRange(path, pointLine(block, rng.Anchor), rng))
				total++
			}
		}
		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}
