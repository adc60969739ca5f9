package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/codedeco/internal/ui/pretty"
	"github.com/yaklabco/codedeco/pkg/decorate"
	"github.com/yaklabco/codedeco/pkg/document"
	"github.com/yaklabco/codedeco/pkg/runner"
)

// ANSIReporter prints every decorated block with its ranges painted in
// their category styles. The document itself is never modified.
type ANSIReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewANSIReporter creates a new painting reporter.
// Color mode "auto" is honored, so piped output comes out plain.
func NewANSIReporter(opts Options) *ANSIReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &ANSIReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled, opts.Styles),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *ANSIReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
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
		if file.Result == nil || len(file.Result.Blocks) == 0 {
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, file.Result.RangeCount()))
		for _, block := range file.Result.Blocks {
			r.writeBlock(path, block)
			total += len(block.Ranges)
		}
		fmt.Fprintln(r.bw)
	}

	return total, nil
}

func (r *ANSIReporter) writeBlock(path string, bd decorate.BlockDecorations) {
	if bd.Err != nil {
		fmt.Fprint(r.bw, r.styles.FormatBlockError(path, blockLine(bd.Block), bd.Language, bd.Err))
		return
	}

	fmt.Fprintln(r.bw, r.styles.Fence.Render("```"+bd.Language))

	spans := spansByLeaf(bd)
	for i, leaf := range bd.Flat.Leaves {
		fmt.Fprintln(r.bw, r.styles.Paint(bd.Flat.LeafText(i), spans[leaf.Key]))
	}

	fmt.Fprintln(r.bw, r.styles.Fence.Render("```"))
}

// spansByLeaf splits each range of a block into per-text-node spans.
func spansByLeaf(bd decorate.BlockDecorations) map[document.Key][]pretty.Span {
	out := make(map[document.Key][]pretty.Span)
	for _, rng := range bd.Ranges {
		for _, seg := range bd.Flat.Segments(rng) {
			out[seg.Key] = append(out[seg.Key], pretty.Span{
				Start:  seg.Start,
				End:    seg.End,
				Labels: rng.Labels,
			})
		}
	}
	return out
}
