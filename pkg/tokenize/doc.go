// Package tokenize defines the tokenizer contract consumed by the decoration
// engine: the two-variant Token, the Grammar interface and an explicit
// Registry mapping language identifiers to grammars.
//
// Two grammar implementations are provided. ChromaGrammar wraps a chroma
// lexer and maps chroma token types onto a small set of category labels.
// RuleGrammar applies ordered regular-expression rules in the manner of
// Prism, which lets configuration files define grammars for languages chroma
// does not ship.
//
// Every grammar upholds the same invariant: the concatenated text of the
// returned tokens equals the input exactly. ValidateTokens checks it.
package tokenize
