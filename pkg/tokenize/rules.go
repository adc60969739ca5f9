package tokenize

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// ruleMatchTimeout bounds a single regexp2 match; backtracking patterns can
// otherwise run away on hostile input.
const ruleMatchTimeout = time.Second

// ErrInvalidRule is returned for rules with an empty category or a bad pattern.
var ErrInvalidRule = errors.New("invalid grammar rule")

// Rule pairs a category with an ECMAScript-flavored pattern.
type Rule struct {
	Category string
	Pattern  string
}

type compiledRule struct {
	category string
	re       *regexp2.Regexp
}

// RuleGrammar tokenizes text with an ordered list of regular-expression rules.
// Each rule, in order, splits every run not yet claimed by an earlier rule,
// so earlier rules take priority.
type RuleGrammar struct {
	rules []compiledRule
}

// NewRuleGrammar compiles rules into a grammar.
func NewRuleGrammar(rules []Rule) (*RuleGrammar, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i, rule := range rules {
		if rule.Category == "" {
			return nil, fmt.Errorf("%w: rule %d has no category", ErrInvalidRule, i)
		}
		re, err := regexp2.Compile(rule.Pattern, regexp2.ECMAScript)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d (%s): %w", ErrInvalidRule, i, rule.Category, err)
		}
		re.MatchTimeout = ruleMatchTimeout
		compiled = append(compiled, compiledRule{category: rule.Category, re: re})
	}
	return &RuleGrammar{rules: compiled}, nil
}

// piece is an intermediate run; typed pieces are never split again.
type piece struct {
	runes    []rune
	category string
	typed    bool
}

// Tokenize implements Grammar.
func (g *RuleGrammar) Tokenize(text string) ([]Token, error) {
	if text == "" {
		return nil, nil
	}

	pieces := []piece{{runes: []rune(text)}}
	for _, rule := range g.rules {
		next := make([]piece, 0, len(pieces))
		for _, p := range pieces {
			if p.typed {
				next = append(next, p)
				continue
			}
			split, err := rule.split(p.runes)
			if err != nil {
				return nil, err
			}
			next = append(next, split...)
		}
		pieces = next
	}

	tokens := make([]Token, 0, len(pieces))
	for _, p := range pieces {
		if p.typed {
			tokens = append(tokens, Typed(p.category, string(p.runes)))
		} else {
			tokens = append(tokens, Plain(string(p.runes)))
		}
	}

	// Invalid bytes came back from the rune slice as U+FFFD.
	if !utf8.ValidString(text) {
		var err error
		if tokens, err = restoreText(tokens, text); err != nil {
			return nil, err
		}
	}
	return Coalesce(tokens), nil
}

// split cuts runes into plain gaps and typed matches of the rule.
func (r compiledRule) split(runes []rune) ([]piece, error) {
	var out []piece
	start := 0
	pos := 0

	for pos < len(runes) {
		match, err := r.re.FindRunesMatchStartingAt(runes, pos)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.category, err)
		}
		if match == nil {
			break
		}
		if match.Length == 0 {
			// Empty matches claim nothing.
			pos = match.Index + 1
			continue
		}
		if match.Index > start {
			out = append(out, piece{runes: runes[start:match.Index]})
		}
		end := match.Index + match.Length
		out = append(out, piece{runes: runes[match.Index:end], category: r.category, typed: true})
		start = end
		pos = end
	}

	if start < len(runes) {
		out = append(out, piece{runes: runes[start:]})
	}
	return out, nil
}
