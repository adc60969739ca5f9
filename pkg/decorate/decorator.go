package decorate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/codedeco/internal/logging"
	"github.com/yaklabco/codedeco/pkg/document"
	"github.com/yaklabco/codedeco/pkg/tokenize"
)

// Tokenizer resolves a grammar by language and tokenizes text with it.
// *tokenize.Registry satisfies it. Unknown languages must return an error
// wrapping tokenize.ErrUnknownGrammar.
type Tokenizer interface {
	Tokenize(lang, text string) ([]tokenize.Token, error)
}

// Option configures a Decorator.
type Option func(*Decorator)

// WithSeparator sets the rune placed between text nodes when flattening.
func WithSeparator(sep rune) Option {
	return func(d *Decorator) {
		d.sep = sep
	}
}

// WithLanguageKey sets the data key that holds a block's language.
func WithLanguageKey(key string) Option {
	return func(d *Decorator) {
		if key != "" {
			d.languageKey = key
		}
	}
}

// WithBlockTypes sets the block types DecorateDocument visits.
func WithBlockTypes(types ...string) Option {
	return func(d *Decorator) {
		if len(types) > 0 {
			d.blockTypes = slices.Clone(types)
		}
	}
}

// WithLogger sets the logger. Without one the decorator is silent.
func WithLogger(logger *log.Logger) Option {
	return func(d *Decorator) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Decorator computes annotation ranges for document subtrees.
// It keeps no state between calls and is safe for concurrent use.
type Decorator struct {
	tokenizer   Tokenizer
	sep         rune
	languageKey string
	blockTypes  []string
	logger      *log.Logger
}

// New creates a Decorator that tokenizes with tokenizer.
func New(tokenizer Tokenizer, opts ...Option) *Decorator {
	d := &Decorator{
		tokenizer:   tokenizer,
		sep:         DefaultSeparator,
		languageKey: document.DataLanguage,
		blockTypes:  []string{document.TypeCode},
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// BlockDecorations holds the ranges computed for one block.
type BlockDecorations struct {
	Block    *document.Node
	Language string
	Flat     Flattened
	Ranges   []Range

	// Err is set when the block could not be decorated.
	Err error
}

// Decorate returns the ranges for the subtree rooted at node. A missing
// language or one without a grammar yields no ranges and no error.
func (d *Decorator) Decorate(ctx context.Context, node *document.Node) ([]Range, error) {
	block := d.decorate(ctx, node)
	return block.Ranges, block.Err
}

// DecorateDocument decorates every block of a configured type, in document
// order. A failing block keeps its error in BlockDecorations.Err and the rest
// still run; the failures are also returned joined.
func (d *Decorator) DecorateDocument(ctx context.Context, doc *document.Document) ([]BlockDecorations, error) {
	if doc == nil || doc.Root == nil {
		return nil, nil
	}

	blocks := document.FindAll(doc.Root, func(n *document.Node) bool {
		return n.IsBlock() && slices.Contains(d.blockTypes, n.Type)
	})

	results := make([]BlockDecorations, 0, len(blocks))
	var errs []error
	for _, block := range blocks {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := d.decorate(ctx, block)
		if result.Err != nil {
			d.logger.Error("decoration failed",
				logging.FieldPath, doc.Path,
				logging.FieldKey, block.Key,
				logging.FieldError, result.Err)
			errs = append(errs, fmt.Errorf("%s block %s: %w", doc.Path, block.Key, result.Err))
		}
		results = append(results, result)
	}

	return results, errors.Join(errs...)
}

func (d *Decorator) decorate(ctx context.Context, node *document.Node) BlockDecorations {
	result := BlockDecorations{Block: node}
	if node == nil {
		return result
	}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	result.Language = node.DataString(d.languageKey)
	result.Flat = Flatten(node, d.sep)

	if result.Flat.IsEmpty() {
		return result
	}
	if result.Language == "" {
		d.logger.Debug("no language, skipping", logging.FieldKey, node.Key)
		return result
	}

	tokens, err := d.tokenize(ctx, result.Language, result.Flat.Text)
	if errors.Is(err, tokenize.ErrUnknownGrammar) {
		d.logger.Debug("no grammar, skipping",
			logging.FieldKey, node.Key,
			logging.FieldLanguage, result.Language)
		return result
	}
	if err != nil {
		result.Err = fmt.Errorf("tokenize %s: %w", result.Language, err)
		return result
	}

	ranges, err := Map(result.Flat, tokens)
	if err != nil {
		result.Err = err
		return result
	}

	result.Ranges = ranges
	d.logger.Debug("decorated",
		logging.FieldKey, node.Key,
		logging.FieldLanguage, result.Language,
		logging.FieldTokens, len(tokens),
		logging.FieldRanges, len(ranges))
	return result
}

type tokenizeOutcome struct {
	tokens []tokenize.Token
	err    error
}

// tokenize runs the tokenizer until it returns or ctx is done. A grammar
// that never returns is left running; the block fails with ctx's error.
func (d *Decorator) tokenize(ctx context.Context, lang, text string) ([]tokenize.Token, error) {
	done := make(chan tokenizeOutcome, 1)
	go func() {
		tokens, err := d.tokenizer.Tokenize(lang, text)
		done <- tokenizeOutcome{tokens: tokens, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		return out.tokens, out.err
	}
}
