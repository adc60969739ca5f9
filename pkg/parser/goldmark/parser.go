// Package goldmark builds codedeco documents from Markdown using goldmark.
package goldmark

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/codedeco/pkg/document"
	"github.com/yaklabco/codedeco/pkg/langdetect"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Origins recorded under document.DataOrigin on code blocks.
const (
	OriginInfo     = "info"
	OriginDetected = "detected"
	OriginDefault  = "default"
)

// Option configures a Parser.
type Option func(*Parser)

// WithAliases maps info-string words to grammar names, e.g. "javascript" to "js".
// Keys are matched case-insensitively.
func WithAliases(aliases map[string]string) Option {
	return func(p *Parser) {
		for from, to := range aliases {
			p.aliases[strings.ToLower(from)] = to
		}
	}
}

// WithDefaultLanguage sets the language of code blocks without an info string
// when detection is off or inconclusive.
func WithDefaultLanguage(lang string) Option {
	return func(p *Parser) {
		p.defaultLanguage = lang
	}
}

// WithDetector enables language detection for code blocks without an info string.
func WithDetector(detector *langdetect.Detector) Option {
	return func(p *Parser) {
		p.detector = detector
	}
}

// Parser turns Markdown into a document tree.
type Parser struct {
	flavor          string
	md              goldmark.Markdown
	aliases         map[string]string
	defaultLanguage string
	detector        *langdetect.Detector
}

// New creates a new goldmark-based parser for the given flavor.
// Supported flavors are "commonmark" and "gfm".
// Invalid flavors default to "commonmark".
func New(flavor string, opts ...Option) *Parser {
	f := flavorOrDefault(flavor)
	p := &Parser{
		flavor:  f,
		md:      newGoldmarkInstance(f),
		aliases: make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Flavor returns the configured Markdown flavor.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Aliases returns a copy of the configured info-string aliases.
func (p *Parser) Aliases() map[string]string {
	return maps.Clone(p.aliases)
}

// Parse converts raw Markdown bytes into a document.
//
// Every fenced or indented code block becomes a "code" block holding one
// "code_line" block per source line, each with a single text node. The
// block's language comes from the info string, then detection, then the
// default language.
//
// Returns nil and an error if the context is cancelled.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	source := copyContent(content)
	reader := text.NewReader(source)
	gmDoc := p.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	b := newBuilder(source, p)
	return document.New(path, b.buildDocument(gmDoc)), nil
}

// resolveLanguage picks the language for a code block.
func (p *Parser) resolveLanguage(infoWord string, code []byte) (string, string) {
	if infoWord != "" {
		lang := strings.ToLower(infoWord)
		if alias, ok := p.aliases[lang]; ok {
			lang = alias
		}
		return lang, OriginInfo
	}
	if p.detector != nil {
		if lang := p.detector.Detect(code).Language; lang != "" {
			return lang, OriginDetected
		}
	}
	if p.defaultLanguage != "" {
		return p.defaultLanguage, OriginDefault
	}
	return "", ""
}

// flavorOrDefault returns the flavor if valid, otherwise defaults to CommonMark.
func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option

	switch flavor {
	case FlavorGFM:
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	case FlavorCommonMark:
		// No extensions for pure CommonMark.
	}

	return goldmark.New(opts...)
}

// copyContent creates a copy of the content slice; the document must not
// alias the caller's buffer.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
