package runner

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/codedeco/pkg/config"
	"github.com/yaklabco/codedeco/pkg/decorate"
	"github.com/yaklabco/codedeco/pkg/document"
	"github.com/yaklabco/codedeco/pkg/fsutil"
	"github.com/yaklabco/codedeco/pkg/langdetect"
	"github.com/yaklabco/codedeco/pkg/parser/goldmark"
	"github.com/yaklabco/codedeco/pkg/tokenize"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrParseFailure indicates a parsing error.
	ErrParseFailure = errors.New("parse failure")
)

// FileResult holds the decorations computed for one file.
type FileResult struct {
	// Path is the file path that was processed.
	Path string

	// Info is the file state when it was read. Nil for in-memory content.
	Info *fsutil.FileInfo

	// Document is the parsed document the ranges refer to.
	Document *document.Document

	// Blocks holds one entry per decorated block, in document order.
	Blocks []decorate.BlockDecorations
}

// RangeCount returns the number of ranges across all blocks.
func (fr *FileResult) RangeCount() int {
	n := 0
	for _, block := range fr.Blocks {
		n += len(block.Ranges)
	}
	return n
}

// FailedBlocks returns the number of blocks whose decoration failed.
func (fr *FileResult) FailedBlocks() int {
	n := 0
	for _, block := range fr.Blocks {
		if block.Err != nil {
			n++
		}
	}
	return n
}

// Pipeline reads, parses and decorates a single file.
type Pipeline struct {
	// Parser builds the document model from Markdown.
	Parser *goldmark.Parser

	// Decorator computes the ranges for the parsed document.
	Decorator *decorate.Decorator
}

// NewPipeline creates a pipeline from its two stages.
func NewPipeline(parser *goldmark.Parser, decorator *decorate.Decorator) *Pipeline {
	return &Pipeline{Parser: parser, Decorator: decorator}
}

// NewRegistry builds the grammar registry described by cfg: chroma grammars
// for the default languages, every alias target and the default language,
// plus the configured rule grammars, which replace chroma grammars of the
// same name. Any other name chroma knows resolves on first use.
// The returned names are languages no grammar could be found for.
func NewRegistry(cfg *config.Config) (*tokenize.Registry, []string, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	wanted := make([]string, 0, len(cfg.Aliases)+1)
	for _, target := range cfg.Aliases {
		if _, ok := cfg.Grammars[target]; !ok {
			wanted = append(wanted, target)
		}
	}
	if cfg.DefaultLanguage != "" {
		if _, ok := cfg.Grammars[cfg.DefaultLanguage]; !ok {
			wanted = append(wanted, cfg.DefaultLanguage)
		}
	}

	registry, missing := tokenize.NewDefaultRegistry(wanted...)
	registry.SetFallback(tokenize.ChromaFallback)

	for name, rules := range cfg.Grammars {
		compiled := make([]tokenize.Rule, 0, len(rules))
		for _, rule := range rules {
			compiled = append(compiled, tokenize.Rule{Category: rule.Category, Pattern: rule.Pattern})
		}
		grammar, err := tokenize.NewRuleGrammar(compiled)
		if err != nil {
			return nil, nil, fmt.Errorf("grammar %s: %w", name, err)
		}
		registry.Register(name, grammar)
	}

	for alias, target := range cfg.Aliases {
		registry.Alias(alias, target)
	}

	return registry, missing, nil
}

// NewPipelineFromConfig wires a parser, registry and decorator from cfg.
// Warnings name languages that have no grammar.
func NewPipelineFromConfig(cfg *config.Config, logger *log.Logger) (*Pipeline, []string, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	sep, err := cfg.SeparatorRune()
	if err != nil {
		return nil, nil, err
	}

	registry, missing, err := NewRegistry(cfg)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	for _, name := range missing {
		warnings = append(warnings, fmt.Sprintf("no grammar for language %q; its blocks stay plain", name))
	}

	parserOpts := []goldmark.Option{
		goldmark.WithAliases(cfg.Aliases),
		goldmark.WithDefaultLanguage(cfg.DefaultLanguage),
	}
	if cfg.DetectLanguage {
		parserOpts = append(parserOpts, goldmark.WithDetector(langdetect.New()))
	}
	parser := goldmark.New(string(cfg.Flavor), parserOpts...)

	decorator := decorate.New(registry,
		decorate.WithSeparator(sep),
		decorate.WithLanguageKey(cfg.LanguageKey),
		decorate.WithBlockTypes(cfg.BlockTypes...),
		decorate.WithLogger(logger),
	)

	return NewPipeline(parser, decorator), warnings, nil
}

// ProcessFile reads path and decorates its content.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*FileResult, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, content)
	if err != nil {
		return nil, err
	}
	result.Info = info
	return result, nil
}

// ProcessContent decorates in-memory content without file I/O.
// Blocks that fail to decorate keep their error in BlockDecorations.Err;
// only parse failures and cancellation are returned.
func (p *Pipeline) ProcessContent(ctx context.Context, path string, content []byte) (*FileResult, error) {
	doc, err := p.Parser.Parse(ctx, path, content)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	// The joined error repeats what each failed block holds in Err.
	blocks, _ := p.Decorator.DecorateDocument(ctx, doc)
	if ctx.Err() != nil {
		return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
	}

	return &FileResult{Path: path, Document: doc, Blocks: blocks}, nil
}

// categorizeError wraps an error with the appropriate pipeline error type.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}

	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrParseFailure)
}
